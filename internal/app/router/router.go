// Package router assembles the gin engine for the HTTP API.
package router

import (
	"github.com/gin-gonic/gin"

	historyhandler "dividend_screener/internal/feature/history/transport/handler"
	quotehandler "dividend_screener/internal/feature/quotes/transport/handler"
	rankinghandler "dividend_screener/internal/feature/ranking/transport/handler"
	symbollisthandler "dividend_screener/internal/feature/symbollist/transport/handler"
	"dividend_screener/internal/platform/http/handler"
)

// Handlers groups the feature handlers served by the router.
type Handlers struct {
	Symbol    *symbollisthandler.SymbolHandler
	Quote     *quotehandler.QuoteHandler
	Ranking   *rankinghandler.RankingHandler
	History   *historyhandler.HistoryHandler
	Readiness gin.HandlerFunc // optional
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	if h.Readiness != nil {
		r.GET("/readyz", h.Readiness)
	}

	// 銘柄ユニバース
	symbols := r.Group("/symbols")
	{
		symbols.GET("", h.Symbol.List)
		symbols.GET("/search", h.Symbol.Search)
		// 構成銘柄の再同期
		symbols.POST("/refresh", h.Symbol.Refresh)
	}

	r.GET("/quotes", h.Quote.List)
	r.GET("/rankings", h.Ranking.List)
	r.GET("/history", h.History.List)

	return r
}
