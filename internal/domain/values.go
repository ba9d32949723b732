package domain

import (
	"strconv"
	"strings"
)

// ValueKind различает варианты SampleValue.
type ValueKind uint8

const (
	// ValueMissing — ячейка отсутствовала в источнике.
	ValueMissing ValueKind = iota
	// ValueInvalid — ячейка была, но не распарсилась как число.
	ValueInvalid
	// ValueNumeric — корректное неотрицательное число часов.
	ValueNumeric
)

// SampleValue — размеченное объединение для числовой ячейки источника.
// «Нет данных» (Missing/Invalid) отличается от нуля: ноль — это замер,
// отсутствие — нет.
type SampleValue struct {
	Kind  ValueKind
	Hours int64
}

// NumericHours создаёт корректное числовое значение.
func NumericHours(v int64) SampleValue {
	return SampleValue{Kind: ValueNumeric, Hours: v}
}

// ParseCount разбирает числовую ячейку с разделителями тысяч («1,234,567»).
// Пустая ячейка — Missing, нечисловая или отрицательная — Invalid.
func ParseCount(text string) SampleValue {
	text = strings.TrimSpace(text)
	if text == "" {
		return SampleValue{Kind: ValueMissing}
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(text, ",", ""), 10, 64)
	if err != nil || n < 0 {
		return SampleValue{Kind: ValueInvalid}
	}
	return SampleValue{Kind: ValueNumeric, Hours: n}
}

// CSVValue возвращает представление для CSV: число либо пустая ячейка.
func (v SampleValue) CSVValue() string {
	if v.Kind != ValueNumeric {
		return ""
	}
	return strconv.FormatInt(v.Hours, 10)
}

// MarshalJSON сериализует число либо null для «нет данных».
func (v SampleValue) MarshalJSON() ([]byte, error) {
	if v.Kind != ValueNumeric {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, v.Hours, 10), nil
}
