// Package query turns untrusted request parameters into bounded, typed
// filter descriptors. Building a descriptor never touches storage and never
// fails: malformed input degrades to "filter not applied".
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tridala-nutra/api/internal/domain"
)

const (
	// DefaultLimit is the page size used when the client omits limit.
	DefaultLimit = 20
	// MaxLimit caps the page size to prevent unbounded reads.
	MaxLimit = 100

	dateLayout = "2006-01-02"
)

// Sort is a single validated order-by clause.
type Sort struct {
	Field string
	Order domain.SortOrder
}

// DefaultSort is applied whenever the client omits sort or names a field
// outside the whitelist.
var DefaultSort = Sort{Field: "createdAt", Order: domain.SortDesc}

var sortableFields = map[string]struct{}{
	"price":     {},
	"name":      {},
	"createdAt": {},
	"stock":     {},
}

// OrderQuery is the normalised descriptor for order listings.
type OrderQuery struct {
	Page  int
	Limit int

	// Status is set only when the client supplied a member of the order
	// status set; invalid values are dropped silently.
	Status *domain.OrderStatus

	// CreatedAt bounds are inclusive; To is forced to the end of its day.
	CreatedAt domain.RangeQuery[time.Time]

	// OrderID carries an exact-id filter when the search term parsed as an
	// order reference.
	OrderID string

	// SearchTerm retains a non-id search input. It is accepted but not yet
	// applied as a predicate; text search is a deferred capability.
	SearchTerm string

	Sort Sort
}

// Offset returns the number of documents to skip for the requested page.
func (q OrderQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ProductQuery is the normalised descriptor for product listings.
type ProductQuery struct {
	Page  int
	Limit int

	// CategoryID is set only when the supplied value is a syntactically
	// valid category reference.
	CategoryID string

	// ProductID carries an exact-id filter when the search term parsed as a
	// product reference; SearchTerm retains anything else unapplied.
	ProductID  string
	SearchTerm string

	// Price bounds are inclusive and always non-negative.
	Price domain.RangeQuery[float64]

	Sort Sort
}

// Offset returns the number of documents to skip for the requested page.
func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// BuildOrderQuery normalises raw query parameters for an order listing.
func BuildOrderQuery(values url.Values) OrderQuery {
	q := OrderQuery{
		Page:  parsePage(values.Get("page")),
		Limit: parseLimit(values.Get("limit")),
		Sort:  parseSort(values.Get("sort")),
	}

	if status := domain.OrderStatus(strings.TrimSpace(values.Get("status"))); status != "" {
		if domain.IsValidOrderStatus(status) {
			q.Status = &status
		}
	}

	if from, ok := parseDate(values.Get("from")); ok {
		q.CreatedAt.From = &from
	}
	if to, ok := parseDate(values.Get("to")); ok {
		end := endOfDay(to)
		q.CreatedAt.To = &end
	}

	if term := strings.TrimSpace(values.Get("search")); term != "" {
		if domain.IsValidOrderID(term) {
			q.OrderID = term
		} else {
			q.SearchTerm = term
		}
	}

	return q
}

// BuildProductQuery normalises raw query parameters for a product listing.
func BuildProductQuery(values url.Values) ProductQuery {
	q := ProductQuery{
		Page:  parsePage(values.Get("page")),
		Limit: parseLimit(values.Get("limit")),
		Sort:  parseSort(values.Get("sort")),
	}

	if category := strings.TrimSpace(values.Get("category")); category != "" {
		if domain.IsValidCategoryID(category) {
			q.CategoryID = category
		}
	}

	term := strings.TrimSpace(values.Get("search"))
	if term == "" {
		term = strings.TrimSpace(values.Get("q"))
	}
	q.applySearch(term)

	if min, ok := parsePrice(values.Get("minPrice")); ok {
		q.Price.From = &min
	}
	if max, ok := parsePrice(values.Get("maxPrice")); ok {
		q.Price.To = &max
	}

	return q
}

func (q *ProductQuery) applySearch(term string) {
	if term == "" {
		return
	}
	if domain.IsValidProductID(term) {
		q.ProductID = term
		return
	}
	q.SearchTerm = term
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func parseSort(raw string) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort
	}
	order := domain.SortAsc
	field := raw
	if strings.HasPrefix(raw, "-") {
		order = domain.SortDesc
		field = raw[1:]
	}
	if _, ok := sortableFields[field]; !ok {
		return DefaultSort
	}
	return Sort{Field: field, Order: order}
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// endOfDay pushes a calendar date to 23:59:59.999 so the upper bound stays
// inclusive for the whole day.
func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Millisecond)
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// ParseFloat accepts "NaN" and "Inf", neither of which is a usable
	// range operand.
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}
