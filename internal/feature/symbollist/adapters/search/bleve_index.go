// Package search provides an in-memory full-text index over the symbol universe.
package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"dividend_screener/internal/feature/symbollist/domain/entity"
	"dividend_screener/internal/feature/symbollist/usecase"
)

// document is the indexed shape of a symbol.
type document struct {
	CodeKey string `json:"code_key"` // lowercased code, indexed as a single term
	Name    string `json:"name"`
	Sector  string `json:"sector"`
}

// Index is a bleve in-memory index keyed by symbol code. Close waits for
// in-flight searches; later searches fail with usecase.ErrIndexClosed.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

var _ usecase.SymbolIndex = (*Index)(nil)

// Build satisfies usecase.IndexBuilder.
func Build(symbols []entity.Symbol) (usecase.SymbolIndex, error) {
	idx, err := NewIndex(symbols)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// NewIndex indexes symbols in memory.
func NewIndex(symbols []entity.Symbol) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for _, s := range symbols {
		doc := document{
			CodeKey: strings.ToLower(s.Code),
			Name:    s.Name,
			Sector:  s.Sector,
		}
		if err := batch.Index(s.Code, doc); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("add %s to batch: %w", s.Code, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("execute batch: %w", err)
	}
	return &Index{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	symbolMapping := bleve.NewDocumentMapping()

	codeFieldMapping := bleve.NewTextFieldMapping()
	codeFieldMapping.Analyzer = keyword.Name
	symbolMapping.AddFieldMappingsAt("code_key", codeFieldMapping)

	textFieldMapping := bleve.NewTextFieldMapping()
	symbolMapping.AddFieldMappingsAt("name", textFieldMapping)
	symbolMapping.AddFieldMappingsAt("sector", textFieldMapping)

	indexMapping.DefaultMapping = symbolMapping
	return indexMapping
}

// Search returns up to limit symbol codes matching query, best match first.
// Exact code matches rank above code prefixes, which rank above name and
// sector matches.
func (i *Index) Search(query string, limit int) ([]string, error) {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return []string{}, nil
	}

	exactCode := bleve.NewTermQuery(lower)
	exactCode.SetField("code_key")
	exactCode.SetBoost(10.0)

	prefixCode := bleve.NewPrefixQuery(lower)
	prefixCode.SetField("code_key")
	prefixCode.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	namePrefix := bleve.NewPrefixQuery(lower)
	namePrefix.SetField("name")
	namePrefix.SetBoost(1.5)

	sectorMatch := bleve.NewMatchQuery(query)
	sectorMatch.SetField("sector")

	searchQuery := bleve.NewDisjunctionQuery(exactCode, prefixCode, nameMatch, namePrefix, sectorMatch)

	req := bleve.NewSearchRequestOptions(searchQuery, limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return nil, usecase.ErrIndexClosed
	}
	res, err := i.index.Search(req)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		codes = append(codes, hit.ID)
	}
	return codes, nil
}

// Close releases the index. Closing twice is a no-op.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}
	i.closed = true
	return i.index.Close()
}
