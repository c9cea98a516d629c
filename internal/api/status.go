package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dividend_screener/internal/feature/quotes/domain"
)

// StatusFor maps a usecase error onto an HTTP status code.
// Invalid input is the caller's fault; anything else is treated as an
// upstream failure unless fallback says otherwise.
func StatusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUniverseUnavailable):
		return http.StatusInternalServerError
	case fallback != 0:
		return fallback
	default:
		return http.StatusBadGateway
	}
}

// AbortWithError writes err as an ErrorResponse with the status StatusFor picks.
func AbortWithError(c *gin.Context, err error, fallback int) {
	c.AbortWithStatusJSON(StatusFor(err, fallback), ErrorResponse{Error: err.Error()})
}

// SymbolsQuery collects the symbols query parameter. Both repeated
// parameters and comma-separated lists are accepted; an absent or blank
// parameter yields nil. Individual entries are left untrimmed so the
// usecase can reject blanks.
func SymbolsQuery(c *gin.Context) []string {
	var out []string
	for _, raw := range c.QueryArray("symbols") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		out = append(out, strings.Split(raw, ",")...)
	}
	return out
}
