package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/sukanya1426/Voice-Agent/internal/catalog"
	"github.com/sukanya1426/Voice-Agent/internal/domain"
	"github.com/sukanya1426/Voice-Agent/internal/voice"
)

// searchLimit caps how many products one inquiry can return.
const searchLimit = 5

const noMatchReply = "I couldn't find any products matching your query. Could you try a different search term?"

// ProductInquiry answers product questions from the catalog.
type ProductInquiry struct {
	catalog *catalog.Catalog
}

// NewProductInquiry creates the product inquiry handler.
func NewProductInquiry(c *catalog.Catalog) *ProductInquiry {
	return &ProductInquiry{catalog: c}
}

// Handle searches the catalog with the caller's utterance and speaks
// the result. With matches it also offers a follow-up.
func (h *ProductInquiry) Handle(ctx context.Context, call voice.Call, utterance string) error {
	matches := h.catalog.Search(utterance, searchLimit)

	if err := call.Say(ctx, formatProducts(matches)); err != nil {
		return err
	}
	if len(matches) > 0 {
		return call.Say(ctx, "Would you like to hear more details about any specific product, or would you like me to search for something else?")
	}
	return nil
}

// formatProducts renders search results as a spoken reply: an apology
// for zero matches, full detail for one, a numbered list otherwise.
func formatProducts(products []domain.Product) string {
	switch len(products) {
	case 0:
		return noMatchReply
	case 1:
		p := products[0]
		return fmt.Sprintf("I found the %s. It's priced at %s. %s... Would you like to know more about its specifications or features?",
			p.Name, p.Price, truncate(p.Description, 200))
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "I found %d products that match your query:\n", len(products))
		for i, p := range products {
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, p.Name, p.Price)
		}
		b.WriteString("Which one would you like to know more about?")
		return b.String()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
