package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a single line entry on a receipt.
type Item struct {
	ShortDescription string
	Price            decimal.Decimal
}

// Receipt is a purchase record accepted for scoring. Field formats are
// enforced at the HTTP boundary; the domain assumes well-formed values.
type Receipt struct {
	Retailer     string
	PurchaseDate time.Time
	PurchaseTime time.Time
	Items        []Item
	Total        decimal.Decimal
}

// ReceiptRecord is the stored result of ingesting a receipt. Records are
// immutable: the id is assigned once and the points are computed once,
// before the record becomes visible to readers.
type ReceiptRecord struct {
	ID        string
	Receipt   Receipt
	Points    int64
	CreatedAt time.Time
}
