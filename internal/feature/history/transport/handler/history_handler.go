// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"dividend_screener/internal/api"
	"dividend_screener/internal/feature/history/domain/entity"
	"dividend_screener/internal/feature/history/transport/http/dto"
)

// HistoryUsecase は株価履歴取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HistoryUsecase interface {
	GetHistory(ctx context.Context, symbols []string, window string) ([]entity.Series, error)
}

// HistoryHandler は株価履歴のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は新しい HistoryHandler を作成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// List は選択された銘柄の終値系列を返します。windowの未指定時は1yです。
//
// エンドポイント例:
// GET /history?symbols=KO,PEP&window=6mo
func (h *HistoryHandler) List(c *gin.Context) {
	series, err := h.uc.GetHistory(c.Request.Context(), api.SymbolsQuery(c), c.Query("window"))
	if err != nil {
		api.AbortWithError(c, err, 0)
		return
	}

	out := make([]dto.SeriesItem, 0, len(series))
	for _, s := range series {
		out = append(out, dto.NewSeriesItem(s))
	}
	c.JSON(http.StatusOK, out)
}
