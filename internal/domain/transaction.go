package domain

import (
	"time"
)

// ItemCategory classifies a SOURCE sale item. The category decides both
// which revenue/liability account the sale credits and which date the sale
// is bucketed under.
type ItemCategory string

const (
	CategoryService    ItemCategory = "service"
	CategoryProduct    ItemCategory = "product"
	CategoryMembership ItemCategory = "membership"
	CategoryPackage    ItemCategory = "package"
	CategoryGiftCard   ItemCategory = "giftcard"
)

// CollectionType is the sub-type of a SOURCE collection record.
type CollectionType string

const (
	CollectionPayment       CollectionType = "payment"
	CollectionRefund        CollectionType = "refund"
	CollectionRedemption    CollectionType = "redemption"
	CollectionRefundPayment CollectionType = "refund-payment"
)

// PaymentMethod is how a collection was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// RawSale is one sale line from the SOURCE sales report. Not persisted;
// it only lives for the duration of one sync invocation.
type RawSale struct {
	ItemName     string
	Category     ItemCategory
	ServicedDate time.Time // when the service was performed
	SoldDate     time.Time // when the item was sold
	Amount       float64
}

// BucketDate returns the calendar date this sale is aggregated under:
// the serviced date for service items, the sold date for everything else.
func (s RawSale) BucketDate() time.Time {
	if s.Category == CategoryService {
		return s.ServicedDate
	}
	return s.SoldDate
}

// RawCollection is one payment-collection record from the SOURCE
// collections report.
type RawCollection struct {
	Type        CollectionType
	Category    ItemCategory // item category the collection applies to, when known
	CreatedDate time.Time
	Amount      float64
	Method      PaymentMethod
}

// SourceTransactions bundles the raw records returned by SOURCE for one
// date window.
type SourceTransactions struct {
	Sales       []RawSale
	Collections []RawCollection
}

// DayBucket holds one calendar day's classified activity: sales totals per
// item category plus the four collection lists.
type DayBucket struct {
	Date            time.Time
	SalesByCategory map[ItemCategory]float64
	Refunds         []RawCollection
	Payments        []RawCollection
	Redemptions     []RawCollection
	RefundPayments  []RawCollection
}

// GrossSales returns the sum of all per-category sales totals for the day.
func (b DayBucket) GrossSales() float64 {
	var total float64
	for _, amount := range b.SalesByCategory {
		total += amount
	}
	return total
}

// DateWindow is an inclusive calendar-day range processed as one fetch unit.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the window width in whole days, inclusive of both ends.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}
