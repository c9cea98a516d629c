// Package handler はsymbollistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dividend_screener/internal/api"
	"dividend_screener/internal/feature/quotes/domain"
	"dividend_screener/internal/feature/symbollist/domain/entity"
	"dividend_screener/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Symbol, error)
	Refresh(ctx context.Context) (int, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は有効な銘柄の一覧を取得するAPIです。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		api.AbortWithError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewSymbolItems(symbols))
}

// Search は銘柄コード・社名・セクターで有効な銘柄を検索します。
//
// エンドポイント例:
// GET /symbols/search?q=coca&limit=10
func (h *SymbolHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			api.AbortWithError(c, fmt.Errorf("%w: limit %q is not a non-negative integer", domain.ErrInvalidArgument, raw), 0)
			return
		}
		limit = n
	}

	symbols, err := h.uc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		api.AbortWithError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewSymbolItems(symbols))
}

// Refresh は構成銘柄ソースから銘柄ユニバースを再同期し、有効銘柄数を返します。
// 上流ソースの取得失敗は502 Bad Gatewayになります。
func (h *SymbolHandler) Refresh(c *gin.Context) {
	n, err := h.uc.Refresh(c.Request.Context())
	if err != nil {
		api.AbortWithError(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, api.CountResponse{Count: n})
}
