package steamcharts

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"steam-pulse/internal/domain"
	"steam-pulse/internal/infra/metrics"
)

const (
	maxChartDays    = 30
	hoverSettle     = 50 * time.Millisecond
	scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// JS-выражения hover-выборки. Ось дат общая: бары берутся только из
// графика первой строки, значения — из ячеек всех строк. Это допущение
// об источнике; рассинхрон ловится по пустому заголовку и числу ячеек.
const (
	countBarsJS = `document.querySelectorAll("#top-games tbody tr:first-child td.chart.period-col g rect.hours-bar").length`

	hoverBarJS = `(function(i){
		const bars = document.querySelectorAll("#top-games tbody tr:first-child td.chart.period-col g rect.hours-bar");
		if (i < bars.length) {
			bars[i].dispatchEvent(new MouseEvent("mouseover", {bubbles: true}));
		}
	})(%d)`

	readHoverJS = `({
		head: (document.querySelector("#topgames-chart-head")?.textContent || "").trim(),
		cells: Array.from(document.querySelectorAll("#top-games tbody tr td.num.period-col.player-hours")).map(e => e.textContent.trim()),
	})`
)

// Scraper выгружает лидерборд steamcharts.com через headless-браузер.
// Реализует domain.LeaderboardSource.
type Scraper struct {
	url     string
	timeout time.Duration
	log     zerolog.Logger
}

var _ domain.LeaderboardSource = (*Scraper)(nil)

// NewScraper создаёт скрейпер лидерборда.
func NewScraper(url string, timeout time.Duration, logger zerolog.Logger) *Scraper {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Scraper{url: url, timeout: timeout, log: logger}
}

// FetchTopGames загружает страницу, разбирает таблицу и снимает
// 30-дневные ряды hover-выборкой. Если ряды снять не удалось, строки
// возвращаются без них: частичный результат лучше пустого.
func (s *Scraper) FetchTopGames(ctx context.Context) ([]domain.Game, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(scrapeUserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, s.timeout)
	defer cancelRun()

	start := time.Now()
	var tableHTML string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(s.url),
		chromedp.WaitReady("#top-games tbody tr", chromedp.ByQuery),
		chromedp.WaitReady("#topgames-chart-head", chromedp.ByQuery),
		chromedp.OuterHTML("#top-games", &tableHTML, chromedp.ByQuery),
	)
	metrics.ObserveNetworkRequest("steamcharts", "load_page", s.url, start, err)
	if err != nil {
		return nil, fmt.Errorf("steamcharts: загрузка страницы: %w", err)
	}

	games, err := ParseTopGamesTable(tableHTML)
	if err != nil {
		return nil, fmt.Errorf("steamcharts: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("steamcharts: таблица #top-games пуста")
	}
	s.log.Debug().Int("games", len(games)).Msg("steamcharts: таблица разобрана")

	samples, err := s.sampleDailySeries(runCtx, len(games))
	if err != nil {
		s.log.Warn().Err(err).Msg("steamcharts: hover-выборка не удалась, 30-дневных рядов не будет")
		return games, nil
	}
	series := BuildDailySeries(samples, len(games))
	for i := range games {
		games[i].Last30Days = series[i]
	}
	return games, nil
}

func (s *Scraper) sampleDailySeries(ctx context.Context, gameCount int) ([]HoverSample, error) {
	var barCount int
	if err := chromedp.Run(ctx, chromedp.Evaluate(countBarsJS, &barCount)); err != nil {
		return nil, fmt.Errorf("подсчёт баров графика: %w", err)
	}
	if barCount == 0 {
		return nil, fmt.Errorf("в графике первой строки нет дневных баров")
	}
	days := min(barCount, maxChartDays)

	samples := make([]HoverSample, 0, days)
	for i := 0; i < days; i++ {
		var readout struct {
			Head  string   `json:"head"`
			Cells []string `json:"cells"`
		}
		err := chromedp.Run(ctx,
			chromedp.Evaluate(fmt.Sprintf(hoverBarJS, i), nil),
			chromedp.Sleep(hoverSettle),
			chromedp.Evaluate(readHoverJS, &readout),
		)
		if err != nil {
			return nil, fmt.Errorf("hover-замер дня %d: %w", i+1, err)
		}
		if len(readout.Cells) != gameCount {
			s.log.Warn().
				Int("cells", len(readout.Cells)).
				Int("games", gameCount).
				Msg("steamcharts: число ячеек player-hours не совпадает со строками, возможен рассинхрон оси")
		}
		samples = append(samples, HoverSample{DateToken: readout.Head, Cells: readout.Cells})
	}
	return samples, nil
}
