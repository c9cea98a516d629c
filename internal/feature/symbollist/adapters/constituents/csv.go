// Package constituents loads the index constituent list from a published CSV.
package constituents

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"dividend_screener/internal/feature/symbollist/domain/entity"
	"dividend_screener/internal/feature/symbollist/usecase"
)

// DefaultURL is the community-maintained S&P 500 constituents list.
const DefaultURL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies/main/data/constituents.csv"

// ErrMissingSymbolColumn is returned when the CSV header has no symbol column.
var ErrMissingSymbolColumn = errors.New("constituents: header has no Symbol column")

var (
	symbolHeaders = []string{"symbol", "ticker"}
	nameHeaders   = []string{"name", "security", "company"}
	sectorHeaders = []string{"sector", "gics sector"}
)

// CSVFetcher downloads and parses a constituents CSV.
type CSVFetcher struct {
	url    string
	client *http.Client
}

// CSVFetcherがConstituentsFetcherを実装していることをコンパイル時に検証します。
var _ usecase.ConstituentsFetcher = (*CSVFetcher)(nil)

// NewCSVFetcher は指定URLからCSVを取得するCSVFetcherを生成します。urlが空の場合はDefaultURLを使用します。
func NewCSVFetcher(url string, client *http.Client) *CSVFetcher {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CSVFetcher{url: url, client: client}
}

// Fetch returns the constituents in file order, deduplicated by code.
func (f *CSVFetcher) Fetch(ctx context.Context) ([]entity.Symbol, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("constituents http %d", res.StatusCode)
	}
	return Parse(res.Body)
}

// Parse reads a constituents CSV. Columns are located by header name, so
// extra or reordered columns are tolerated. Share-class dots are rewritten
// to the dash form quote providers expect (BRK.B becomes BRK-B).
func Parse(r io.Reader) ([]entity.Symbol, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []entity.Symbol{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	symbolCol := column(header, symbolHeaders)
	if symbolCol < 0 {
		return nil, ErrMissingSymbolColumn
	}
	nameCol := column(header, nameHeaders)
	sectorCol := column(header, sectorHeaders)

	seen := make(map[string]struct{})
	symbols := make([]entity.Symbol, 0, 512)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		code := NormalizeCode(field(record, symbolCol))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		symbols = append(symbols, entity.Symbol{
			Code:   code,
			Name:   field(record, nameCol),
			Sector: field(record, sectorCol),
		})
	}
	return symbols, nil
}

// NormalizeCode upper-cases a ticker and replaces share-class dots with dashes.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.ReplaceAll(code, ".", "-")
}

// column returns the index of the first header matching one of names, or -1.
func column(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			h = strings.TrimPrefix(h, "\ufeff")
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
