package chart

import "steam-pulse/internal/domain"

// Align совмещает разреженный ряд часов с плотным рядом упоминаний
// в один ряд точек для графика. Чистая функция от своих входов.
//
// Замеры с некалендарной датой или нечисловым значением отбрасываются,
// а не заполняются нулями. Порядок дней — порядок их первого появления
// в ряду часов (порядку скрейпа доверяем, пересортировки нет). Если один
// и тот же день встретился дважды, побеждает последнее вхождение: график
// ниже по течению рассчитывает на одну точку на дату. Для дней, которых
// нет в ряду упоминаний, количество равно нулю. Результат может быть
// короче окна, если источник вернул неполный ряд.
func Align(primary []domain.DaySample, secondary []domain.MentionPoint) []domain.ChartPoint {
	mentionsByDate := make(map[string]int, len(secondary))
	for _, p := range secondary {
		mentionsByDate[p.Date] = p.Count
	}

	hoursByDate := make(map[string]int64, len(primary))
	order := make([]string, 0, len(primary))
	for _, sample := range primary {
		if sample.Date.Kind != domain.DateCalendar || sample.Hours.Kind != domain.ValueNumeric {
			continue
		}
		if _, seen := hoursByDate[sample.Date.Key]; !seen {
			order = append(order, sample.Date.Key)
		}
		hoursByDate[sample.Date.Key] = sample.Hours.Hours
	}

	points := make([]domain.ChartPoint, 0, len(order))
	for _, date := range order {
		points = append(points, domain.ChartPoint{
			Date:     date,
			Hours:    hoursByDate[date],
			Mentions: mentionsByDate[date],
		})
	}
	return points
}
