// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"time"

	"dividend_screener/internal/app/config"
	historyyahoo "dividend_screener/internal/feature/history/adapters/yahoo"
	historyusecase "dividend_screener/internal/feature/history/usecase"
	quoteyahoo "dividend_screener/internal/feature/quotes/adapters/yahoo"
	"dividend_screener/internal/platform/externalapi/twelvedata"
	infrahttp "dividend_screener/internal/platform/http"
	"dividend_screener/internal/shared/ratelimiter"
)

// NewYahooLimiter creates the limiter shared by every Yahoo adapter so that
// quote and chart calls draw from one per-minute budget. A zero rpm disables
// limiting.
func NewYahooLimiter(rpm int) *ratelimiter.RateLimiter {
	return ratelimiter.NewRateLimiter(rpm, time.Minute)
}

// NewQuoteSource creates the Yahoo quote source. Each lookup also reads the
// chart metadata for the first trade date.
func NewQuoteSource(limiter ratelimiter.Limiter) *quoteyahoo.QuoteSource {
	return quoteyahoo.NewQuoteSource(nil, limiter, quoteyahoo.WithFirstTradeDate(nil))
}

// NewMarket creates a fully configured TwelveDataMarket with HTTP client.
func NewMarket() *twelvedata.TwelveDataMarket {
	cfg := twelvedata.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return twelvedata.NewTwelveDataMarket(cfg, httpClient)
}

// NewHistoryRepository selects the price-history provider.
func NewHistoryRepository(provider string, limiter ratelimiter.Limiter) (historyusecase.MarketRepository, error) {
	switch provider {
	case "", config.HistoryProviderYahoo:
		return historyyahoo.NewChartRepository(nil, limiter), nil
	case config.HistoryProviderTwelveData:
		return NewMarket(), nil
	default:
		return nil, fmt.Errorf("unknown history provider %q", provider)
	}
}
