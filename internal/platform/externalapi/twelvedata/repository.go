package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"dividend_screener/internal/feature/history/domain/entity"
	"dividend_screener/internal/feature/history/usecase"
	"dividend_screener/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataMarket はTwelve Data外部APIから終値の時系列を取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// History はTwelve Data APIから指定期間の終値を取得し、古い順に返します。
func (t *TwelveDataMarket) History(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", symbol)
	q.Set("interval", toInterval(r.Interval))
	q.Set("outputsize", strconv.Itoa(t.cfg.outputSize()))
	q.Set("order", "ASC")
	if !r.Start.IsZero() {
		q.Set("start_date", r.Start.UTC().Format(time.DateOnly))
	}
	if !r.End.IsZero() {
		q.Set("end_date", r.End.UTC().Format(time.DateOnly))
	}
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	// URLを生成
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	points := make([]entity.PricePoint, 0, len(body.Values))
	for _, v := range body.Values {
		// タイムスタンプをパース
		tm, err := time.Parse(time.DateTime, v.Datetime)
		if err != nil {
			tm, err = time.Parse(time.DateOnly, v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		// 終値をパース
		c, err := decimal.NewFromString(v.Close)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}

		points = append(points, entity.PricePoint{Time: tm, Close: c})
	}
	return points, nil
}

// toInterval はドメインの間隔をTwelve Dataの表記に変換します。
func toInterval(i entity.Interval) string {
	switch i {
	case entity.IntervalWeekly:
		return "1week"
	case entity.IntervalMonthly:
		return "1month"
	default:
		return "1day"
	}
}
