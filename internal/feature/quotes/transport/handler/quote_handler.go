// Package handler はquotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"dividend_screener/internal/api"
	"dividend_screener/internal/feature/quotes/domain/entity"
	"dividend_screener/internal/feature/quotes/transport/http/dto"
)

// QuoteUsecase はクォート集約のユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type QuoteUsecase interface {
	FetchQuotes(ctx context.Context, symbols []string) ([]entity.SymbolQuote, error)
}

// QuoteHandler はクォート取得のHTTPリクエストを処理します。
type QuoteHandler struct {
	uc QuoteUsecase
}

// NewQuoteHandler は新しい QuoteHandler を作成します。
func NewQuoteHandler(uc QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// List は指定された銘柄のクォートを入力順に返します。
//
// エンドポイント例:
// GET /quotes?symbols=AAPL,KO
func (h *QuoteHandler) List(c *gin.Context) {
	quotes, err := h.uc.FetchQuotes(c.Request.Context(), api.SymbolsQuery(c))
	if err != nil {
		api.AbortWithError(c, err, 0)
		return
	}

	out := make([]dto.QuoteItem, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, dto.NewQuoteItem(q))
	}
	c.JSON(http.StatusOK, out)
}
