package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Метки, которые источник показывает вместо даты в заголовке графика.
const (
	labelLast30Days  = "Last 30 Days"
	labelInvalidDate = "Invalid Date"
)

// DateKind различает варианты DateKey.
type DateKind uint8

const (
	// DateUnparseable — источник не смог отрисовать дату, либо токен не распознан.
	DateUnparseable DateKind = iota
	// DatePlaceholder — строка-агрегат («Last 30 Days»), а не конкретный день.
	DatePlaceholder
	// DateCalendar — конкретный календарный день.
	DateCalendar
)

// DateKey — размеченное объединение для токена даты из источника.
// Key заполнен только для DateCalendar и имеет вид YYYY-MM-DD.
// Некалендарный ключ никогда не участвует в соединении рядов по датам.
type DateKey struct {
	Kind DateKind
	Key  string
}

// CalendarDate создаёт ключ календарного дня.
func CalendarDate(key string) DateKey {
	return DateKey{Kind: DateCalendar, Key: key}
}

var dayTokenRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// NormalizeDateToken приводит токен даты из источника к каноничному ключу.
// Числовой формат — M/D/YYYY (месяц первым, как в заголовке графика).
// Никогда не возвращает ошибку и никогда не подставляет сегодняшний день.
func NormalizeDateToken(token string) DateKey {
	token = strings.TrimSpace(token)
	switch token {
	case labelLast30Days:
		return DateKey{Kind: DatePlaceholder}
	case labelInvalidDate:
		return DateKey{Kind: DateUnparseable}
	}
	m := dayTokenRegex.FindStringSubmatch(token)
	if m == nil {
		return DateKey{Kind: DateUnparseable}
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return DateKey{Kind: DateUnparseable}
	}
	return DateKey{Kind: DateCalendar, Key: fmt.Sprintf("%04d-%02d-%02d", year, month, day)}
}

// Label возвращает строковое представление для API и CSV:
// каноничный ключ либо исходную метку источника.
func (d DateKey) Label() string {
	switch d.Kind {
	case DateCalendar:
		return d.Key
	case DatePlaceholder:
		return labelLast30Days
	default:
		return labelInvalidDate
	}
}

// MarshalJSON сериализует ключ как строку.
func (d DateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Label())
}
