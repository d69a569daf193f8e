package domain

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Identity references are strings of the form "<prefix>_<ULID>", e.g.
// "ord_01J8ZQ3V9GJ5X2M4T6R8W0YBCD". The prefix pins the reference to a
// collection so an order id can never be mistaken for a product id.
const (
	OrderIDPrefix    = "ord_"
	ProductIDPrefix  = "prd_"
	CategoryIDPrefix = "cat_"
	UserIDPrefix     = "usr_"
)

// IsValidID reports whether raw is a syntactically valid identity reference
// for the given prefix. It never panics on malformed input.
func IsValidID(prefix, raw string) bool {
	raw = strings.TrimSpace(raw)
	if prefix == "" || !strings.HasPrefix(raw, prefix) {
		return false
	}
	_, err := ulid.ParseStrict(raw[len(prefix):])
	return err == nil
}

// IsValidOrderID reports whether raw is a well-formed order reference.
func IsValidOrderID(raw string) bool { return IsValidID(OrderIDPrefix, raw) }

// IsValidProductID reports whether raw is a well-formed product reference.
func IsValidProductID(raw string) bool { return IsValidID(ProductIDPrefix, raw) }

// IsValidCategoryID reports whether raw is a well-formed category reference.
func IsValidCategoryID(raw string) bool { return IsValidID(CategoryIDPrefix, raw) }

// IsValidUserID reports whether raw is a well-formed user reference.
func IsValidUserID(raw string) bool { return IsValidID(UserIDPrefix, raw) }

// NewID mints a fresh identity reference under the given prefix.
func NewID(prefix string) string {
	return prefix + ulid.Make().String()
}
