package domain

import "time"

// Game описывает одну строку лидерборда Steam.
type Game struct {
	Rank             int
	Name             string
	CurrentPlayers   int64
	TotalHoursPlayed int64
	Last30Days       []DaySample
}

// DaySample — один замер часов за календарный день.
// Date и Hours нормализуются на границе скрейпера и дальше не перепроверяются.
type DaySample struct {
	Date  DateKey
	Hours SampleValue
}

// Snapshot — результат одного успешного скрейпа лидерборда.
// Игры упорядочены по рангу; снапшот не изменяется после создания,
// следующий скрейп заменяет его целиком.
type Snapshot struct {
	CapturedAt time.Time
	Games      []Game
}

// MentionPoint — количество упоминаний за один календарный день.
type MentionPoint struct {
	Date  string `json:"Date"`
	Count int    `json:"Mentions"`
}

// MentionSeries — плотный ряд упоминаний за последние N дней.
type MentionSeries struct {
	Subject    string
	CapturedAt time.Time
	Points     []MentionPoint
}

// ChartPoint — точка совмещённого графика «часы против упоминаний».
type ChartPoint struct {
	Date     string `json:"Date"`
	Hours    int64  `json:"Hours"`
	Mentions int    `json:"Mentions"`
}

// Post — найденное упоминание в соцсети.
type Post struct {
	Title     string
	CreatedAt time.Time
}
