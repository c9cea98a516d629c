// Package usecase はオンデマンドの株価履歴取得を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"dividend_screener/internal/feature/history/domain/entity"
	"dividend_screener/internal/feature/quotes/domain"
	quoteusecase "dividend_screener/internal/feature/quotes/usecase"
)

// MarketRepository は外部APIから終値の時系列を取得するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	History(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error)
}

// HistoryUsecase は選択された銘柄の株価履歴を取得します。
type HistoryUsecase struct {
	market      MarketRepository
	concurrency int
	now         func() time.Time
}

// NewHistoryUsecase はHistoryUsecaseの新しいインスタンスを生成します。
// concurrencyが1未満の場合は逐次取得になります。
func NewHistoryUsecase(market MarketRepository, concurrency int, now func() time.Time) *HistoryUsecase {
	if concurrency < 1 {
		concurrency = 1
	}
	if now == nil {
		now = time.Now
	}
	return &HistoryUsecase{market: market, concurrency: concurrency, now: now}
}

// GetHistory は銘柄ごとに1系列を入力順で返します。
// 取得に失敗した銘柄は空の系列になり、バッチ全体は失敗しません。
func (u *HistoryUsecase) GetHistory(ctx context.Context, symbols []string, window string) ([]entity.Series, error) {
	w, err := entity.ParseWindow(window)
	if err != nil {
		return nil, err
	}
	trimmed, err := quoteusecase.TrimSymbols(symbols)
	if err != nil {
		return nil, err
	}

	r := w.Range(u.now())
	out := make([]entity.Series, len(trimmed))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, s := range trimmed {
		i, s := i, s
		g.Go(func() error {
			out[i] = entity.Series{Symbol: s, Window: w, Points: u.fetchOne(ctx, s, r)}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *HistoryUsecase) fetchOne(ctx context.Context, symbol string, r entity.Range) []entity.PricePoint {
	if ctx.Err() != nil {
		return []entity.PricePoint{}
	}

	points, err := u.market.History(ctx, symbol, r)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", domain.ErrHistoryUnavailable, symbol, err)
		slog.Warn("history lookup failed", "symbol", symbol, "window", r.Window, "error", err)
		return []entity.PricePoint{}
	}
	if len(points) == 0 {
		slog.Info("history is empty", "symbol", symbol, "window", r.Window, "error", domain.ErrHistoryUnavailable)
		return []entity.PricePoint{}
	}

	slices.SortStableFunc(points, func(a, b entity.PricePoint) int {
		return a.Time.Compare(b.Time)
	})
	return points
}
