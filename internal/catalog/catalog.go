// Package catalog manages the priced reference items that inquiry lines
// are matched against.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a priced catalog entry as stored in the database.
type Item struct {
	ID          int64
	Description string
	Rate        decimal.Decimal
	Unit        string
	Category    string
	Subcategory string
	CreatedAt   time.Time
}
