// Package handler はrankingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dividend_screener/internal/api"
	"dividend_screener/internal/feature/quotes/domain"
	"dividend_screener/internal/feature/ranking/domain/entity"
	"dividend_screener/internal/feature/ranking/transport/http/dto"
	"dividend_screener/internal/feature/ranking/usecase"
)

// RankingUsecase はスクリーニングのユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type RankingUsecase interface {
	Screen(ctx context.Context, req usecase.ScreenRequest) (entity.ScreenResult, error)
}

// RankingHandler は配当利回りランキングのHTTPリクエストを処理します。
type RankingHandler struct {
	uc RankingUsecase
}

// NewRankingHandler は新しい RankingHandler を作成します。
func NewRankingHandler(uc RankingUsecase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

// List は配当利回りの高い順に銘柄を返します。
// symbols未指定の場合はユニバース全体を対象にし、top未指定の場合は全件を返します。
//
// エンドポイント例:
// GET /rankings?symbols=AAPL,KO,XXXX&top=2&budget=1000
func (h *RankingHandler) List(c *gin.Context) {
	req, err := parseScreenRequest(c)
	if err != nil {
		api.AbortWithError(c, err, 0)
		return
	}

	res, err := h.uc.Screen(c.Request.Context(), req)
	if err != nil {
		api.AbortWithError(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, dto.NewRankingResponse(res))
}

func parseScreenRequest(c *gin.Context) (usecase.ScreenRequest, error) {
	req := usecase.ScreenRequest{Symbols: api.SymbolsQuery(c)}

	if raw := strings.TrimSpace(c.Query("top")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: top %q is not an integer", domain.ErrInvalidArgument, raw)
		}
		req.TopN = n
	}

	if raw := strings.TrimSpace(c.Query("budget")); raw != "" {
		b, err := decimal.NewFromString(raw)
		if err != nil {
			return req, fmt.Errorf("%w: budget %q is not a number", domain.ErrInvalidArgument, raw)
		}
		req.Budget = decimal.NewNullDecimal(b)
	}
	return req, nil
}
