package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

type productsFile struct {
	Products []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Price string `yaml:"price"`
	} `yaml:"products"`
}

// LoadProducts читает список товаров из YAML:
//
//	products:
//	  - id: "1"
//	    name: Keyboard
//	    price: "49.99"
func LoadProducts(r io.Reader) ([]domain.Product, error) {
	var file productsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode products yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Products))
	products := make([]domain.Product, 0, len(file.Products))
	for i, raw := range file.Products {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, fmt.Errorf("products[%d]: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("products[%d]: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		price, err := decimal.NewFromString(strings.TrimSpace(raw.Price))
		if err != nil {
			return nil, fmt.Errorf("products[%d]: invalid price %q: %w", i, raw.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("products[%d]: price must be non-negative", i)
		}

		products = append(products, domain.Product{ID: id, Name: raw.Name, Price: price})
	}
	return products, nil
}

// LoadProductsFile читает товары из YAML-файла.
func LoadProductsFile(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open products file: %w", err)
	}
	defer f.Close()

	return LoadProducts(f)
}

// DemoProducts: набор товаров для локального запуска без каталога.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Mechanical keyboard", Price: decimal.RequireFromString("89.90")},
		{ID: "2", Name: "Wireless mouse", Price: decimal.RequireFromString("24.50")},
		{ID: "3", Name: "USB-C hub", Price: decimal.RequireFromString("39.99")},
		{ID: "4", Name: "27\" monitor", Price: decimal.RequireFromString("249.00")},
	}
}
