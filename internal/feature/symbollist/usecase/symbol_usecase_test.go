package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend_screener/internal/feature/quotes/domain"
	"dividend_screener/internal/feature/symbollist/domain/entity"
	"dividend_screener/internal/feature/symbollist/usecase"
	"dividend_screener/internal/platform/cache"
)

// mockSymbolRepository はSymbolRepositoryインターフェースのモック実装です。
type mockSymbolRepository struct {
	ListActiveFunc        func(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodesFunc   func(ctx context.Context) ([]string, error)
	UpsertBatchFunc       func(ctx context.Context, symbols []entity.Symbol) error
	DeactivateMissingFunc func(ctx context.Context, keep []string) (int64, error)

	listActiveCalls int
}

// ListActive はモックのListActive関数を呼び出します。
func (m *mockSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	m.listActiveCalls++
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

// ListActiveCodes はモックのListActiveCodes関数を呼び出します。
func (m *mockSymbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	if m.ListActiveCodesFunc != nil {
		return m.ListActiveCodesFunc(ctx)
	}
	return nil, nil
}

// UpsertBatch はモックのUpsertBatch関数を呼び出します。
func (m *mockSymbolRepository) UpsertBatch(ctx context.Context, symbols []entity.Symbol) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, symbols)
	}
	return nil
}

// DeactivateMissing はモックのDeactivateMissing関数を呼び出します。
func (m *mockSymbolRepository) DeactivateMissing(ctx context.Context, keep []string) (int64, error) {
	if m.DeactivateMissingFunc != nil {
		return m.DeactivateMissingFunc(ctx, keep)
	}
	return 0, nil
}

// mockFetcher はConstituentsFetcherインターフェースのモック実装です。
type mockFetcher struct {
	symbols []entity.Symbol
	err     error
}

func (m *mockFetcher) Fetch(ctx context.Context) ([]entity.Symbol, error) {
	return m.symbols, m.err
}

// stubIndex returns fixed codes for every query.
type stubIndex struct {
	codes    []string
	err      error
	limit    int
	closed   int
	searches int
	onSearch func()
}

func (s *stubIndex) Search(query string, limit int) ([]string, error) {
	s.limit = limit
	s.searches++
	if s.onSearch != nil {
		s.onSearch()
	}
	if s.closed > 0 {
		return nil, usecase.ErrIndexClosed
	}
	return s.codes, s.err
}

func (s *stubIndex) Close() error {
	s.closed++
	return nil
}

var sampleSymbols = []entity.Symbol{
	{ID: 1, Code: "KO", Name: "Coca-Cola", Sector: "Consumer Staples", IsActive: true, SortKey: 1},
	{ID: 2, Code: "PEP", Name: "PepsiCo", Sector: "Consumer Staples", IsActive: true, SortKey: 2},
	{ID: 3, Code: "XOM", Name: "ExxonMobil", Sector: "Energy", IsActive: true, SortKey: 3},
}

// TestNewSymbolUsecase はNewSymbolUsecaseコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewSymbolUsecase(t *testing.T) {
	t.Parallel()

	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{}, nil, nil, nil)
	assert.NotNil(t, uc, "usecase should not be nil")
}

// TestSymbolUsecase_ListActiveSymbols はListActiveSymbolsメソッドの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockListActive  func(ctx context.Context) ([]entity.Symbol, error)
		expectedSymbols []entity.Symbol
		wantErr         bool
	}{
		{
			name: "success: returns list of active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return sampleSymbols, nil
			},
			expectedSymbols: sampleSymbols,
		},
		{
			name: "success: returns empty list when no active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{}, nil
			},
			expectedSymbols: []entity.Symbol{},
		},
		{
			name: "failure: repository returns error",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveFunc: tt.mockListActive}, nil, nil, nil)

			symbols, err := uc.ListActiveSymbols(context.Background())

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUniverseUnavailable)
				assert.ErrorContains(t, err, "database connection failed")
				assert.Nil(t, symbols)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSymbols, symbols)
		})
	}
}

// TestSymbolUsecase_ListActiveCodes はコード一覧の取得とエラーのラップを検証します。
func TestSymbolUsecase_ListActiveCodes(t *testing.T) {
	t.Parallel()

	repo := &mockSymbolRepository{
		ListActiveCodesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"KO", "PEP"}, nil
		},
	}
	codes, err := usecase.NewSymbolUsecase(repo, nil, nil, nil).ListActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"KO", "PEP"}, codes)

	repo.ListActiveCodesFunc = func(ctx context.Context) ([]string, error) { return nil, ctx.Err() }
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	codes, err = usecase.NewSymbolUsecase(repo, nil, nil, nil).ListActiveCodes(ctx)
	assert.Nil(t, codes)
	assert.ErrorIs(t, err, domain.ErrUniverseUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestSymbolUsecase_Search はインデックスのヒット順に銘柄が返り、インデックスがキャッシュされることを検証します。
func TestSymbolUsecase_Search(t *testing.T) {
	t.Parallel()

	repo := &mockSymbolRepository{
		ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) { return sampleSymbols, nil },
	}
	idx := &stubIndex{codes: []string{"XOM", "GONE", "KO"}}
	builds := 0
	build := func(symbols []entity.Symbol) (usecase.SymbolIndex, error) {
		builds++
		assert.Len(t, symbols, 3)
		return idx, nil
	}
	uc := usecase.NewSymbolUsecase(repo, nil, build, nil)

	got, err := uc.Search(context.Background(), "  energy ", 0)
	require.NoError(t, err)
	// codes the index knows but the universe no longer has are dropped
	assert.Equal(t, []entity.Symbol{sampleSymbols[2], sampleSymbols[0]}, got)
	assert.Equal(t, usecase.DefaultSearchLimit, idx.limit)

	_, err = uc.Search(context.Background(), "ko", 1000)
	require.NoError(t, err)
	assert.Equal(t, usecase.MaxSearchLimit, idx.limit)
	assert.Equal(t, 1, builds, "index should be reused")
}

// TestSymbolUsecase_Search_Errors は検索時の各種エラーの分類を検証します。
func TestSymbolUsecase_Search_Errors(t *testing.T) {
	t.Parallel()

	okBuild := func(symbols []entity.Symbol) (usecase.SymbolIndex, error) { return &stubIndex{}, nil }
	okRepo := func() *mockSymbolRepository {
		return &mockSymbolRepository{
			ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) { return sampleSymbols, nil },
		}
	}

	tests := []struct {
		name    string
		repo    *mockSymbolRepository
		build   usecase.IndexBuilder
		query   string
		wantErr error
	}{
		{name: "blank query", repo: okRepo(), build: okBuild, query: "   ", wantErr: domain.ErrInvalidArgument},
		{name: "search not configured", repo: okRepo(), build: nil, query: "ko", wantErr: domain.ErrUniverseUnavailable},
		{
			name: "repository failure",
			repo: &mockSymbolRepository{
				ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) { return nil, errors.New("db down") },
			},
			build:   okBuild,
			query:   "ko",
			wantErr: domain.ErrUniverseUnavailable,
		},
		{
			name: "index build failure",
			repo: okRepo(),
			build: func(symbols []entity.Symbol) (usecase.SymbolIndex, error) {
				return nil, errors.New("mapping invalid")
			},
			query:   "ko",
			wantErr: domain.ErrUniverseUnavailable,
		},
		{
			name: "index search failure",
			repo: okRepo(),
			build: func(symbols []entity.Symbol) (usecase.SymbolIndex, error) {
				return &stubIndex{err: errors.New("query parse")}, nil
			},
			query:   "ko",
			wantErr: domain.ErrUniverseUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(tt.repo, nil, tt.build, nil)
			got, err := uc.Search(context.Background(), tt.query, 10)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestSymbolUsecase_Refresh は再同期で並び順・有効フラグが設定され、検索インデックスが破棄されることを検証します。
func TestSymbolUsecase_Refresh(t *testing.T) {
	t.Parallel()

	var upserted []entity.Symbol
	var kept []string
	repo := &mockSymbolRepository{
		ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) { return sampleSymbols, nil },
		UpsertBatchFunc: func(ctx context.Context, symbols []entity.Symbol) error {
			upserted = symbols
			return nil
		},
		DeactivateMissingFunc: func(ctx context.Context, keep []string) (int64, error) {
			kept = keep
			return 2, nil
		},
	}
	fetcher := &mockFetcher{symbols: []entity.Symbol{
		{Code: "MMM", Name: "3M", Sector: "Industrials"},
		{Code: "KO", Name: "Coca-Cola", Sector: "Consumer Staples"},
	}}
	var built []*stubIndex
	build := func(symbols []entity.Symbol) (usecase.SymbolIndex, error) {
		idx := &stubIndex{}
		built = append(built, idx)
		return idx, nil
	}
	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	index := cache.NewTTL[usecase.SymbolIndex](cache.FixedTTL(time.Hour), func() time.Time { return now })
	uc := usecase.NewSymbolUsecase(repo, fetcher, build, index)

	_, err := uc.Search(context.Background(), "ko", 5)
	require.NoError(t, err)
	require.Len(t, built, 1)

	n, err := uc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"MMM", "KO"}, kept)
	require.Len(t, upserted, 2)
	assert.True(t, upserted[0].IsActive)
	assert.Equal(t, 1, upserted[0].SortKey)
	assert.Equal(t, 2, upserted[1].SortKey)

	// the dropped index is closed and the next search rebuilds
	assert.Equal(t, 1, built[0].closed)
	_, err = uc.Search(context.Background(), "ko", 5)
	require.NoError(t, err)
	require.Len(t, built, 2, "refresh should drop the cached index")
	assert.Zero(t, built[1].closed)
}

// TestSymbolUsecase_Search_IndexClosedConcurrently は検索中に閉じられたインデックスを再構築して検索し直すことを検証します。
func TestSymbolUsecase_Search_IndexClosedConcurrently(t *testing.T) {
	t.Parallel()

	repo := &mockSymbolRepository{
		ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) { return sampleSymbols, nil },
	}
	index := cache.NewTTL[usecase.SymbolIndex](cache.FixedTTL(time.Hour), nil)
	fresh := &stubIndex{codes: []string{"KO"}}
	build := func(symbols []entity.Symbol) (usecase.SymbolIndex, error) { return fresh, nil }
	uc := usecase.NewSymbolUsecase(repo, nil, build, index)

	// a refresh drops the index while the search is running
	stale := &stubIndex{codes: []string{"PEP"}}
	stale.onSearch = index.Invalidate
	index.Set(stale)

	got, err := uc.Search(context.Background(), "ko", 5)
	require.NoError(t, err)
	assert.Equal(t, []entity.Symbol{sampleSymbols[0]}, got)
	assert.Equal(t, 1, stale.closed)
	assert.Equal(t, 1, fresh.searches)
}

// TestSymbolUsecase_Search_IndexStaysClosed は再試行後も閉じたままのインデックスがエラーになることを検証します。
func TestSymbolUsecase_Search_IndexStaysClosed(t *testing.T) {
	t.Parallel()

	repo := &mockSymbolRepository{
		ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) { return sampleSymbols, nil },
	}
	closed := &stubIndex{codes: []string{"KO"}, closed: 1}
	build := func(symbols []entity.Symbol) (usecase.SymbolIndex, error) { return closed, nil }
	uc := usecase.NewSymbolUsecase(repo, nil, build, nil)

	got, err := uc.Search(context.Background(), "ko", 5)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrUniverseUnavailable)
	assert.ErrorIs(t, err, usecase.ErrIndexClosed)
	assert.Equal(t, 2, closed.searches)
}

// TestSymbolUsecase_Refresh_Errors は再同期の失敗ケースを検証します。
func TestSymbolUsecase_Refresh_Errors(t *testing.T) {
	t.Parallel()

	feed := []entity.Symbol{{Code: "KO", Name: "Coca-Cola"}}
	upstream := errors.New("http 503")

	tests := []struct {
		name         string
		repo         *mockSymbolRepository
		fetcher      usecase.ConstituentsFetcher
		wantErr      error
		wantUniverse bool
	}{
		{
			name:         "no fetcher configured",
			repo:         &mockSymbolRepository{},
			fetcher:      nil,
			wantUniverse: true,
		},
		{
			name:    "fetch fails",
			repo:    &mockSymbolRepository{},
			fetcher: &mockFetcher{err: upstream},
			wantErr: upstream,
		},
		{
			name: "empty feed leaves the universe untouched",
			repo: &mockSymbolRepository{
				UpsertBatchFunc: func(ctx context.Context, symbols []entity.Symbol) error {
					t.Error("upsert should not be called")
					return nil
				},
			},
			fetcher: &mockFetcher{symbols: []entity.Symbol{}},
		},
		{
			name: "upsert fails",
			repo: &mockSymbolRepository{
				UpsertBatchFunc: func(ctx context.Context, symbols []entity.Symbol) error { return errors.New("locked") },
				DeactivateMissingFunc: func(ctx context.Context, keep []string) (int64, error) {
					t.Error("deactivate should not be called")
					return 0, nil
				},
			},
			fetcher:      &mockFetcher{symbols: feed},
			wantUniverse: true,
		},
		{
			name: "deactivate fails",
			repo: &mockSymbolRepository{
				DeactivateMissingFunc: func(ctx context.Context, keep []string) (int64, error) { return 0, errors.New("locked") },
			},
			fetcher:      &mockFetcher{symbols: feed},
			wantUniverse: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(tt.repo, tt.fetcher, nil, nil)
			n, err := uc.Refresh(context.Background())
			require.Error(t, err)
			assert.Zero(t, n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantUniverse, errors.Is(err, domain.ErrUniverseUnavailable))
		})
	}
}
