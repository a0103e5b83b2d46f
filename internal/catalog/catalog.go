// Package catalog provides the read-only product catalog.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
)

// Catalog is an in-memory product lookup table, loaded once at process
// start and never mutated afterwards.
type Catalog struct {
	products []domain.Product
}

// New creates a catalog over the given products, preserving their order.
func New(products []domain.Product) *Catalog {
	return &Catalog{products: products}
}

// Load reads the catalog from a CSV file with a header row. Unknown
// columns are ignored; missing columns yield empty fields.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	products, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return New(products), nil
}

func parse(r io.Reader) ([]domain.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var products []domain.Product
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		products = append(products, domain.Product{
			Name:           field(record, "name"),
			Price:          field(record, "price"),
			Category:       field(record, "category"),
			Description:    field(record, "description"),
			KeyFeatures:    field(record, "key_features"),
			Specifications: field(record, "specifications"),
			Brand:          field(record, "brand"),
			URL:            field(record, "url"),
		})
	}
	return products, nil
}

// Len returns the number of products loaded.
func (c *Catalog) Len() int {
	return len(c.products)
}

// All returns every product in load order.
func (c *Catalog) All() []domain.Product {
	return c.products
}

// Filler words that carry no product meaning. Queries arrive as whole
// spoken utterances ("I'm looking for a gaming PC"), so matching the
// raw phrase would find nothing.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "i": true, "i'm": true, "im": true,
	"is": true, "are": true, "am": true, "do": true, "does": true,
	"you": true, "your": true, "for": true, "with": true, "of": true,
	"to": true, "in": true, "on": true, "at": true, "me": true, "my": true,
	"we": true, "can": true, "could": true, "would": true, "like": true,
	"want": true, "need": true, "looking": true, "search": true,
	"find": true, "show": true, "tell": true, "about": true, "have": true,
	"has": true, "any": true, "anything": true, "something": true,
	"some": true, "what": true, "what's": true, "whats": true,
	"please": true, "and": true, "or": true,
}

// Search matches the spoken query against name, category, description,
// key features and brand, case-insensitively. The query is split into
// terms (filler words dropped) and a product matches when any term is a
// substring of any searched field. Results keep catalog load order and
// are capped at limit (limit <= 0 means no cap).
func (c *Catalog) Search(query string, limit int) []domain.Product {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var matches []domain.Product
	for _, p := range c.products {
		if matchesAny(p, terms) {
			matches = append(matches, p)
			if limit > 0 && len(matches) == limit {
				break
			}
		}
	}
	return matches
}

func searchTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	})
	var terms []string
	for _, f := range fields {
		if !stopWords[f] {
			terms = append(terms, f)
		}
	}
	return terms
}

func matchesAny(p domain.Product, terms []string) bool {
	fields := []string{p.Name, p.Category, p.Description, p.KeyFeatures, p.Brand}
	for _, field := range fields {
		if field == "" {
			continue
		}
		lower := strings.ToLower(field)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}
