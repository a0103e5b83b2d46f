package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
)

const sampleCSV = `name,price,category,description,key_features,specifications,brand,url
AMD Ryzen 5 7500F Gaming PC,"85,000৳",Desktop,Six-core gaming desktop with RTX graphics,Ryzen 5 7500F; RTX 4060,AM5 socket,AMD,https://example.com/1
AMD Ryzen 7 7700 Gaming PC,"120,000৳",Desktop,Eight-core gaming desktop,Ryzen 7 7700,AM5 socket,AMD,https://example.com/2
Intel Core i5 Gaming Desktop,"95,000৳",Desktop,Mid-range Intel gaming build,Core i5-13400F,LGA1700,Intel,https://example.com/3
Gaming Laptop 15,"110,000৳",Laptop,Portable gaming laptop,RTX 4050; 144Hz,15.6 inch,ASUS,https://example.com/4
Office Desktop Basic,"45,000৳",Desktop,Entry-level office machine,Quiet case,mATX,Generic,https://example.com/5
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("expected 5 products, got %d", c.Len())
	}
	first := c.All()[0]
	if first.Name != "AMD Ryzen 5 7500F Gaming PC" {
		t.Errorf("unexpected first product name: %q", first.Name)
	}
	if first.Brand != "AMD" {
		t.Errorf("unexpected brand: %q", first.Brand)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	c, err := Load(writeCatalog(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d products", c.Len())
	}
}

func TestSearch(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name  string
		query string
		limit int
		want  int
	}{
		{"case insensitive name", "RYZEN", 5, 2},
		{"category match", "laptop", 5, 1},
		{"description match", "office machine", 5, 1},
		{"brand match", "intel", 5, 1},
		{"key features match", "144hz", 5, 1},
		{"no match", "smartphone", 5, 0},
		{"empty query", "   ", 5, 0},
		{"cap applies", "desktop", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query, tt.limit)
			if len(got) != tt.want {
				t.Errorf("Search(%q, %d) returned %d matches, want %d", tt.query, tt.limit, len(got), tt.want)
			}
		})
	}
}

func TestSearchPreservesLoadOrder(t *testing.T) {
	c := New([]domain.Product{
		{Name: "B desktop"},
		{Name: "A desktop"},
	})
	got := c.Search("desktop", 5)
	if len(got) != 2 || got[0].Name != "B desktop" {
		t.Fatalf("expected load order preserved, got %+v", got)
	}
}

func TestSearchCapAtFive(t *testing.T) {
	products := make([]domain.Product, 8)
	for i := range products {
		products[i] = domain.Product{Name: "Ryzen build"}
	}
	c := New(products)
	if got := c.Search("ryzen", 5); len(got) != 5 {
		t.Errorf("expected cap of 5, got %d", len(got))
	}
}
