package domain

import "context"

// LeaderboardSource выгружает свежие строки лидерборда с 30-дневными рядами.
type LeaderboardSource interface {
	FetchTopGames(ctx context.Context) ([]Game, error)
}

// MentionSource ищет упоминания по свободному запросу.
// Ошибка отличает «поиск недоступен» от «ничего не найдено» —
// дальше по цепочке обе ситуации сводятся к пустому ряду.
type MentionSource interface {
	Search(ctx context.Context, query string) ([]Post, error)
}

// SnapshotExporter сохраняет данные на диск. Все методы best-effort:
// ошибка записи не должна ронять запрос, который её породил.
type SnapshotExporter interface {
	SaveSnapshotJSON(prefix string, snapshot Snapshot) error
	SaveGamesCSV(prefix string, games []Game) error
	SaveMentionsCSV(prefix string, points []MentionPoint) error
}
