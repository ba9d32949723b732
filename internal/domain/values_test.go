package domain

import (
	"encoding/json"
	"testing"
)

func TestParseCount(t *testing.T) {
	if got := ParseCount("1,234,567"); got.Kind != ValueNumeric || got.Hours != 1234567 {
		t.Fatalf("ожидали 1234567, получили %+v", got)
	}
	if got := ParseCount("0"); got.Kind != ValueNumeric || got.Hours != 0 {
		t.Fatalf("ноль — это замер, а не отсутствие данных: %+v", got)
	}
	if got := ParseCount("  "); got.Kind != ValueMissing {
		t.Fatalf("пустая ячейка должна быть Missing: %+v", got)
	}
	if got := ParseCount("N/A"); got.Kind != ValueInvalid {
		t.Fatalf("нечисловая ячейка должна быть Invalid: %+v", got)
	}
	if got := ParseCount("-5"); got.Kind != ValueInvalid {
		t.Fatalf("отрицательное значение должно быть Invalid: %+v", got)
	}
}

func TestSampleValueJSON(t *testing.T) {
	b, err := json.Marshal(NumericHours(42))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if string(b) != "42" {
		t.Fatalf("ожидали 42, получили %s", b)
	}
	b, err = json.Marshal(SampleValue{Kind: ValueInvalid})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("«нет данных» должно сериализоваться как null, получили %s", b)
	}
}

func TestSampleValueCSV(t *testing.T) {
	if got := NumericHours(7).CSVValue(); got != "7" {
		t.Fatalf("ожидали 7, получили %q", got)
	}
	if got := (SampleValue{}).CSVValue(); got != "" {
		t.Fatalf("Missing должно давать пустую ячейку, получили %q", got)
	}
}
