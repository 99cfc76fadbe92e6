package zenoti

import (
	"strings"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
)

// Center is one location on the SOURCE platform.
type Center struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type centersResponse struct {
	Centers []Center `json:"centers"`
}

type salesReportResponse struct {
	Sales []saleRecord `json:"sales"`
}

type saleRecord struct {
	ItemName     string  `json:"item_name"`
	ItemType     string  `json:"item_type"`
	ServicedDate string  `json:"serviced_date"`
	SoldDate     string  `json:"sold_date"`
	Amount       float64 `json:"amount"`
}

type collectionsReportResponse struct {
	Collections []collectionRecord `json:"collections"`
}

type collectionRecord struct {
	Type        string  `json:"type"`
	ItemType    string  `json:"item_type"`
	CreatedDate string  `json:"created_date"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
}

func (r saleRecord) toDomain() domain.RawSale {
	return domain.RawSale{
		ItemName:     r.ItemName,
		Category:     itemCategory(r.ItemType),
		ServicedDate: parseReportDate(r.ServicedDate),
		SoldDate:     parseReportDate(r.SoldDate),
		Amount:       r.Amount,
	}
}

func (r collectionRecord) toDomain() domain.RawCollection {
	return domain.RawCollection{
		Type:        collectionType(r.Type),
		Category:    itemCategory(r.ItemType),
		CreatedDate: parseReportDate(r.CreatedDate),
		Amount:      r.Amount,
		Method:      paymentMethod(r.PaymentMode),
	}
}

// parseReportDate accepts the date shapes the report endpoints emit.
// Unparseable or sentinel values come back as the zero time, which the
// aggregator drops.
func parseReportDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

func itemCategory(itemType string) domain.ItemCategory {
	switch strings.ToLower(strings.TrimSpace(itemType)) {
	case "product", "products", "2":
		return domain.CategoryProduct
	case "membership", "memberships", "3":
		return domain.CategoryMembership
	case "package", "packages", "4":
		return domain.CategoryPackage
	case "giftcard", "gift card", "gift_card", "6":
		return domain.CategoryGiftCard
	default:
		return domain.CategoryService
	}
}

func collectionType(value string) domain.CollectionType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "refund":
		return domain.CollectionRefund
	case "redemption":
		return domain.CollectionRedemption
	case "refund-payment", "refund_payment", "refundpayment":
		return domain.CollectionRefundPayment
	case "payment":
		return domain.CollectionPayment
	default:
		return domain.CollectionType(strings.ToLower(strings.TrimSpace(value)))
	}
}

func paymentMethod(mode string) domain.PaymentMethod {
	lower := strings.ToLower(mode)
	if strings.Contains(lower, "card") || strings.Contains(lower, "credit") {
		return domain.PaymentCard
	}
	return domain.PaymentCash
}
