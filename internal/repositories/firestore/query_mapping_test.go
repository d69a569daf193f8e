package firestore

import (
	"testing"
	"time"

	"github.com/tridala-nutra/api/internal/domain"
	"github.com/tridala-nutra/api/internal/query"
)

func TestProductSortFieldNeverEmpty(t *testing.T) {
	cases := map[string]string{
		"":          "createdAt",
		"garbage":   "createdAt",
		"price":     "price",
		"name":      "name",
		"stock":     "stock",
		"createdAt": "createdAt",
	}
	for input, want := range cases {
		if got := productSortField(input); got != want {
			t.Errorf("productSortField(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestOrderSortFieldMapsOntoStoredPaths(t *testing.T) {
	cases := map[string]string{
		"":          "createdAt",
		"price":     "totalAmount",
		"name":      "createdAt",
		"createdAt": "createdAt",
	}
	for input, want := range cases {
		if got := orderSortField(input); got != want {
			t.Errorf("orderSortField(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestProductMatchesQuery(t *testing.T) {
	min := 100.0
	max := 500.0
	product := domain.Product{
		ID:         "prd_01J8ZQ3V9GJ5X2M4T6R8W0YBCD",
		CategoryID: "cat_01J8ZQ3V9GJ5X2M4T6R8W0YBCD",
		Price:      250,
	}

	tests := []struct {
		name string
		q    query.ProductQuery
		want bool
	}{
		{"no predicates", query.ProductQuery{}, true},
		{"matching category", query.ProductQuery{CategoryID: product.CategoryID}, true},
		{"other category", query.ProductQuery{CategoryID: "cat_01J8ZQ3V9GJ5X2M4T6R8W0YXYZ"}, false},
		{"inside price range", query.ProductQuery{Price: domain.RangeQuery[float64]{From: &min, To: &max}}, true},
		{"below minimum", query.ProductQuery{Price: domain.RangeQuery[float64]{From: &max}}, false},
		{"above maximum", query.ProductQuery{Price: domain.RangeQuery[float64]{To: &min}}, false},
	}
	for _, tc := range tests {
		if got := productMatchesQuery(product, tc.q); got != tc.want {
			t.Errorf("%s: productMatchesQuery = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOrderMatchesQuery(t *testing.T) {
	created := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	before := created.Add(-48 * time.Hour)
	after := created.Add(48 * time.Hour)
	pending := domain.OrderStatusPending
	shipped := domain.OrderStatusShipped
	order := domain.Order{
		ID:        "ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD",
		Status:    pending,
		CreatedAt: created,
	}

	tests := []struct {
		name string
		q    query.OrderQuery
		want bool
	}{
		{"no predicates", query.OrderQuery{}, true},
		{"matching status", query.OrderQuery{Status: &pending}, true},
		{"other status", query.OrderQuery{Status: &shipped}, false},
		{"inside date range", query.OrderQuery{CreatedAt: domain.RangeQuery[time.Time]{From: &before, To: &after}}, true},
		{"created before range", query.OrderQuery{CreatedAt: domain.RangeQuery[time.Time]{From: &after}}, false},
		{"created after range", query.OrderQuery{CreatedAt: domain.RangeQuery[time.Time]{To: &before}}, false},
	}
	for _, tc := range tests {
		if got := orderMatchesQuery(order, tc.q); got != tc.want {
			t.Errorf("%s: orderMatchesQuery = %v, want %v", tc.name, got, tc.want)
		}
	}
}
