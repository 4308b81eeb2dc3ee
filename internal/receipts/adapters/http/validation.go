package http

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/shopspring/decimal"
)

// Wire shapes for receipt submission. All structural validation happens here;
// the domain never sees a malformed receipt.
type receiptRequest struct {
	Retailer     string        `json:"retailer" validate:"required,retailer"`
	PurchaseDate string        `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	PurchaseTime string        `json:"purchaseTime" validate:"required,datetime=15:04"`
	Items        []itemRequest `json:"items" validate:"required,dive"`
	Total        string        `json:"total" validate:"required,amount"`
}

type itemRequest struct {
	ShortDescription string `json:"shortDescription" validate:"required,description"`
	Price            string `json:"price" validate:"required,amount"`
}

var (
	retailerPattern    = regexp.MustCompile(`^[\w\s\-&]+$`)
	descriptionPattern = regexp.MustCompile(`^[\w\s\-]+$`)
	amountPattern      = regexp.MustCompile(`^\d+\.\d{2}$`)
)

type receiptValidator struct {
	validate *validator.Validate
}

func newReceiptValidator() *receiptValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegisterPattern(v, "retailer", retailerPattern)
	mustRegisterPattern(v, "description", descriptionPattern)
	mustRegisterPattern(v, "amount", amountPattern)
	return &receiptValidator{validate: v}
}

func mustRegisterPattern(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// toDomain validates the payload and converts it into domain values. Parse
// errors after successful validation should be impossible; they are reported
// rather than swallowed.
func (rv *receiptValidator) toDomain(req receiptRequest) (domain.Receipt, error) {
	if err := rv.validate.Struct(req); err != nil {
		return domain.Receipt{}, err
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("parse purchaseDate: %w", err)
	}

	purchaseTime, err := time.Parse("15:04", req.PurchaseTime)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("parse purchaseTime: %w", err)
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("parse total: %w", err)
	}

	items := make([]domain.Item, 0, len(req.Items))
	for i, item := range req.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return domain.Receipt{}, fmt.Errorf("parse items[%d].price: %w", i, err)
		}
		items = append(items, domain.Item{
			ShortDescription: item.ShortDescription,
			Price:            price,
		})
	}

	return domain.Receipt{
		Retailer:     req.Retailer,
		PurchaseDate: purchaseDate,
		PurchaseTime: purchaseTime,
		Items:        items,
		Total:        total,
	}, nil
}
