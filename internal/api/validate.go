package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"steam-pulse/internal/domain"
)

// fieldViolation описывает одно нарушение в структурированных деталях ошибки.
type fieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// decodeGameName разбирает и проверяет path-параметр с именем игры.
func decodeGameName(raw string) (string, []fieldViolation) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", []fieldViolation{{Path: "gameName", Message: "Game name is not a valid URL-encoded string", Code: "invalid_string"}}
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return "", []fieldViolation{{Path: "gameName", Message: "Game name is required", Code: "too_small"}}
	}
	return decoded, nil
}

// validateGames проверяет инварианты снапшота перед отдачей клиенту.
// Нарушение здесь — не временный сбой источника, а поломка внутреннего
// контракта нормализации, поэтому наружу идёт 500 с деталями.
func validateGames(games []domain.Game) []fieldViolation {
	var violations []fieldViolation
	for i, g := range games {
		path := fmt.Sprintf("games.%d", i)
		if g.Rank != i+1 {
			violations = append(violations, fieldViolation{
				Path:    path + ".Rank",
				Message: fmt.Sprintf("Expected contiguous rank %d, got %d", i+1, g.Rank),
				Code:    "invalid_rank",
			})
		}
		if g.Name == "" {
			violations = append(violations, fieldViolation{
				Path:    path + ".GameName",
				Message: "Game name must be non-empty",
				Code:    "too_small",
			})
		}
		if g.CurrentPlayers < 0 {
			violations = append(violations, fieldViolation{
				Path:    path + ".CurrentPlayers",
				Message: "Current players must be non-negative",
				Code:    "too_small",
			})
		}
		if g.TotalHoursPlayed < 0 {
			violations = append(violations, fieldViolation{
				Path:    path + ".TotalHoursPlayed",
				Message: "Total hours played must be non-negative",
				Code:    "too_small",
			})
		}
	}
	return violations
}

var slugRegex = regexp.MustCompile(`[^a-zA-Z0-9_ -]`)

// slugify приводит имя игры к безопасному префиксу файла.
func slugify(name string) string {
	cleaned := slugRegex.ReplaceAllString(name, "")
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	return strings.ToLower(cleaned)
}
