package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	quarter         = decimal.New(25, -2) // 0.25
	descriptionRate = decimal.New(2, -1)  // 0.2
)

// Score computes the points awarded for a receipt. It is pure and
// deterministic: equal receipts always earn equal points, and no rule can
// contribute a negative amount.
func Score(r Receipt) int64 {
	var points int64
	points += retailerPoints(r.Retailer)
	points += totalPoints(r.Total)
	points += itemPoints(r.Items)
	points += datePoints(r.PurchaseDate)
	points += timePoints(r.PurchaseTime)
	return points
}

// retailerPoints awards one point per alphanumeric character of the retailer
// name. Spaces and punctuation earn nothing.
func retailerPoints(retailer string) int64 {
	var n int64
	for _, ch := range retailer {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			n++
		}
	}
	return n
}

// totalPoints awards 50 for a round-dollar total and another 25 when the
// total is a multiple of 0.25. Both checks run on the exact decimal value so
// binary floating-point representation error cannot break them.
func totalPoints(total decimal.Decimal) int64 {
	var n int64
	if total.IsInteger() {
		n += 50
	}
	if total.Mod(quarter).IsZero() {
		n += 25
	}
	return n
}

// itemPoints awards 5 per complete pair of items, plus ceil(price * 0.2) for
// every item whose trimmed description length is a non-zero multiple of 3.
func itemPoints(items []Item) int64 {
	n := int64(len(items)/2) * 5
	for _, item := range items {
		length := utf8.RuneCountInString(strings.TrimSpace(item.ShortDescription))
		if length == 0 || length%3 != 0 {
			continue
		}
		n += item.Price.Mul(descriptionRate).Ceil().IntPart()
	}
	return n
}

func datePoints(purchaseDate time.Time) int64 {
	if purchaseDate.Day()%2 == 1 {
		return 6
	}
	return 0
}

// timePoints awards 10 points for purchases between 2:00 PM and 4:00 PM.
// The minute must be strictly positive: 14:00 itself earns nothing. The
// upstream rule reads as if it should be inclusive, but this boundary is
// kept exactly as the scoring has always behaved.
func timePoints(purchaseTime time.Time) int64 {
	h, m := purchaseTime.Hour(), purchaseTime.Minute()
	if h >= 14 && h < 16 && m > 0 {
		return 10
	}
	return 0
}
