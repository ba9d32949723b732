package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"steam-pulse/internal/domain"
)

const fileTimestampFormat = "20060102_150405"

// Files пишет снапшоты и CSV в каталог данных. Реализует
// domain.SnapshotExporter; все методы best-effort.
type Files struct {
	dir string
	log zerolog.Logger
	now func() time.Time
}

var _ domain.SnapshotExporter = (*Files)(nil)

// NewFiles создаёт экспортёр и каталог данных, если его нет.
func NewFiles(dir string, logger zerolog.Logger) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога данных: %w", err)
	}
	return &Files{dir: dir, log: logger, now: time.Now}, nil
}

func (f *Files) path(prefix, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", prefix, f.now().Format(fileTimestampFormat), ext)
	return filepath.Join(f.dir, name)
}

type snapshotFile struct {
	Timestamp string       `json:"timestamp"`
	Games     []gameRecord `json:"games"`
}

type gameRecord struct {
	Rank              int              `json:"Rank"`
	GameName          string           `json:"GameName"`
	CurrentPlayers    int64            `json:"CurrentPlayers"`
	TotalHoursPlayed  int64            `json:"TotalHoursPlayed"`
	HoursPlayed30Days []dayHoursRecord `json:"HoursPlayed30Days"`
}

type dayHoursRecord struct {
	Date  domain.DateKey     `json:"Date"`
	Hours domain.SampleValue `json:"Hours"`
}

// SaveSnapshotJSON сохраняет снапшот лидерборда в timestamped JSON.
func (f *Files) SaveSnapshotJSON(prefix string, snapshot domain.Snapshot) error {
	payload := snapshotFile{
		Timestamp: snapshot.CapturedAt.UTC().Format(time.RFC3339),
		Games:     make([]gameRecord, 0, len(snapshot.Games)),
	}
	for _, g := range snapshot.Games {
		payload.Games = append(payload.Games, toGameRecord(g))
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация снапшота: %w", err)
	}
	path := f.path(prefix, "json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	f.log.Debug().Str("path", path).Msg("export: JSON снапшот сохранён")
	return nil
}

func toGameRecord(g domain.Game) gameRecord {
	days := make([]dayHoursRecord, 0, len(g.Last30Days))
	for _, d := range g.Last30Days {
		days = append(days, dayHoursRecord{Date: d.Date, Hours: d.Hours})
	}
	return gameRecord{
		Rank:              g.Rank,
		GameName:          g.Name,
		CurrentPlayers:    g.CurrentPlayers,
		TotalHoursPlayed:  g.TotalHoursPlayed,
		HoursPlayed30Days: days,
	}
}

// gameColumn — именованный экстрактор одной колонки CSV: чистая функция
// из игры в строку. Набор колонок фиксирован, без рефлексии.
type gameColumn struct {
	header  string
	extract func(domain.Game) string
}

var baseGameColumns = []gameColumn{
	{"Rank", func(g domain.Game) string { return strconv.Itoa(g.Rank) }},
	{"GameName", func(g domain.Game) string { return g.Name }},
	{"CurrentPlayers", func(g domain.Game) string { return strconv.FormatInt(g.CurrentPlayers, 10) }},
	{"TotalHoursPlayed", func(g domain.Game) string { return strconv.FormatInt(g.TotalHoursPlayed, 10) }},
}

// SaveGamesCSV сохраняет игры в CSV: базовые колонки плюс по одной
// колонке «Hours (<дата>)» на каждый день ряда первой игры.
func (f *Files) SaveGamesCSV(prefix string, games []domain.Game) error {
	if len(games) == 0 {
		f.log.Debug().Str("prefix", prefix).Msg("export: нет игр для CSV")
		return nil
	}

	columns := append([]gameColumn{}, baseGameColumns...)
	for i, day := range games[0].Last30Days {
		idx := i
		columns = append(columns, gameColumn{
			header: fmt.Sprintf("Hours (%s)", day.Date.Label()),
			extract: func(g domain.Game) string {
				if idx >= len(g.Last30Days) {
					return ""
				}
				return g.Last30Days[idx].Hours.CSVValue()
			},
		})
	}

	rows := make([][]string, 0, len(games)+1)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.header
	}
	rows = append(rows, header)
	for _, g := range games {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = col.extract(g)
		}
		rows = append(rows, row)
	}
	return f.writeCSV(f.path(prefix, "csv"), rows)
}

// SaveMentionsCSV сохраняет дневной ряд упоминаний.
func (f *Files) SaveMentionsCSV(prefix string, points []domain.MentionPoint) error {
	if len(points) == 0 {
		f.log.Debug().Str("prefix", prefix).Msg("export: нет упоминаний для CSV")
		return nil
	}
	rows := make([][]string, 0, len(points)+1)
	rows = append(rows, []string{"Date", "Mentions"})
	for _, p := range points {
		rows = append(rows, []string{p.Date, strconv.Itoa(p.Count)})
	}
	return f.writeCSV(f.path(prefix, "csv"), rows)
}

func (f *Files) writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание %s: %w", path, err)
	}
	defer file.Close()
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	f.log.Debug().Str("path", path).Msg("export: CSV сохранён")
	return nil
}
