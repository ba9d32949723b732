package steamcharts

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"steam-pulse/internal/domain"
)

// minRowColumns — минимум колонок в строке таблицы #top-games:
// ранг, имя, текущие игроки, пик, график, суммарные часы.
const minRowColumns = 6

// ParseTopGamesTable разбирает HTML таблицы #top-games в строки лидерборда.
// Строки с недостающими колонками пропускаются. 30-дневные ряды здесь
// пустые — их заполняет hover-выборка (BuildDailySeries).
func ParseTopGamesTable(html string) ([]domain.Game, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("разбор HTML таблицы: %w", err)
	}

	var games []domain.Game
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < minRowColumns {
			return
		}
		rank := domain.ParseCount(cols.Eq(0).Text())
		if rank.Kind != domain.ValueNumeric || rank.Hours < 1 {
			return
		}
		name := strings.TrimSpace(cols.Eq(1).Find("a").First().Text())
		if name == "" {
			name = strings.TrimSpace(cols.Eq(1).Text())
		}
		games = append(games, domain.Game{
			Rank:             int(rank.Hours),
			Name:             name,
			CurrentPlayers:   numericOrZero(cols.Eq(2).Text()),
			TotalHoursPlayed: numericOrZero(cols.Eq(5).Text()),
		})
	})
	return games, nil
}

func numericOrZero(text string) int64 {
	v := domain.ParseCount(text)
	if v.Kind != domain.ValueNumeric {
		return 0
	}
	return v.Hours
}

// HoverSample — результат одного hover-замера: токен даты из заголовка
// графика и текст ячейки player-hours для каждой строки лидерборда.
type HoverSample struct {
	DateToken string
	Cells     []string
}

// BuildDailySeries превращает hover-замеры в 30-дневные ряды по играм.
// Токены дат нормализуются здесь, один раз, на границе; отсутствующая
// ячейка даёт Missing, нечисловая — Invalid.
func BuildDailySeries(samples []HoverSample, gameCount int) [][]domain.DaySample {
	series := make([][]domain.DaySample, gameCount)
	for i := range series {
		series[i] = make([]domain.DaySample, 0, len(samples))
	}
	for _, hs := range samples {
		date := domain.NormalizeDateToken(hs.DateToken)
		for g := 0; g < gameCount; g++ {
			hours := domain.SampleValue{Kind: domain.ValueMissing}
			if g < len(hs.Cells) {
				hours = domain.ParseCount(hs.Cells[g])
			}
			series[g] = append(series[g], domain.DaySample{Date: date, Hours: hours})
		}
	}
	return series
}
