package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaops/ledgersync/internal/domain"
)

func TestAggregate_GroupsSalesByCategoryAndDate(t *testing.T) {
	txns := domain.SourceTransactions{
		Sales: []domain.RawSale{
			{Category: domain.CategoryService, ServicedDate: date("2024-03-01"), SoldDate: date("2024-02-28"), Amount: 100},
			{Category: domain.CategoryService, ServicedDate: date("2024-03-01"), SoldDate: date("2024-03-01"), Amount: 50},
			{Category: domain.CategoryProduct, ServicedDate: date("2024-03-01"), SoldDate: date("2024-03-02"), Amount: 25},
		},
	}

	buckets := Aggregate(txns)
	require.Len(t, buckets, 2)

	// Service sales land on the serviced date, product sales on the sold date.
	assert.Equal(t, 150.0, buckets[date("2024-03-01")].SalesByCategory[domain.CategoryService])
	assert.Equal(t, 25.0, buckets[date("2024-03-02")].SalesByCategory[domain.CategoryProduct])
}

func TestAggregate_DropsSentinelAndNonPositiveSales(t *testing.T) {
	txns := domain.SourceTransactions{
		Sales: []domain.RawSale{
			{Category: domain.CategoryService, Amount: 100}, // zero serviced date
			{Category: domain.CategoryProduct, SoldDate: date("2024-03-01"), Amount: 0},
			{Category: domain.CategoryProduct, SoldDate: date("2024-03-01"), Amount: -10},
		},
	}

	buckets := Aggregate(txns)
	assert.Empty(t, buckets)
}

func TestAggregate_ClassifiesCollections(t *testing.T) {
	day := date("2024-03-05")
	txns := domain.SourceTransactions{
		Collections: []domain.RawCollection{
			{Type: domain.CollectionPayment, CreatedDate: day, Amount: 80, Method: domain.PaymentCash},
			{Type: domain.CollectionRefund, CreatedDate: day, Amount: 20, Method: domain.PaymentCard},
			{Type: domain.CollectionRedemption, CreatedDate: day, Amount: 15},
			{Type: domain.CollectionRefundPayment, CreatedDate: day, Amount: 5, Method: domain.PaymentCash},
		},
	}

	buckets := Aggregate(txns)
	require.Contains(t, buckets, day)
	bucket := buckets[day]

	assert.Len(t, bucket.Payments, 1)
	assert.Len(t, bucket.Refunds, 1)
	assert.Len(t, bucket.Redemptions, 1)
	assert.Len(t, bucket.RefundPayments, 1)
}

func TestAggregate_KeepsZeroAmountCollections(t *testing.T) {
	day := date("2024-03-05")
	txns := domain.SourceTransactions{
		Collections: []domain.RawCollection{
			{Type: domain.CollectionPayment, CreatedDate: day, Amount: 0, Method: domain.PaymentCash},
		},
	}

	buckets := Aggregate(txns)
	require.Contains(t, buckets, day)
	assert.Len(t, buckets[day].Payments, 1)
}

func TestAggregate_SkipsMalformedCollections(t *testing.T) {
	txns := domain.SourceTransactions{
		Collections: []domain.RawCollection{
			{Type: domain.CollectionPayment, Amount: 10}, // zero created date
			{Type: "mystery", CreatedDate: date("2024-03-05"), Amount: 10},
		},
	}

	buckets := Aggregate(txns)
	assert.Empty(t, buckets)
}

func TestAggregate_CollectionTimestampsCollapseToCalendarDay(t *testing.T) {
	txns := domain.SourceTransactions{
		Collections: []domain.RawCollection{
			{Type: domain.CollectionPayment, CreatedDate: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC), Amount: 10, Method: domain.PaymentCash},
			{Type: domain.CollectionPayment, CreatedDate: time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC), Amount: 20, Method: domain.PaymentCard},
		},
	}

	buckets := Aggregate(txns)
	require.Len(t, buckets, 1)
	assert.Len(t, buckets[date("2024-03-05")].Payments, 2)
}

func TestSortedDates_Chronological(t *testing.T) {
	buckets := Aggregate(domain.SourceTransactions{
		Sales: []domain.RawSale{
			{Category: domain.CategoryProduct, SoldDate: date("2024-03-09"), Amount: 1},
			{Category: domain.CategoryProduct, SoldDate: date("2024-03-02"), Amount: 1},
			{Category: domain.CategoryProduct, SoldDate: date("2024-03-05"), Amount: 1},
		},
	})

	dates := SortedDates(buckets)
	require.Len(t, dates, 3)
	assert.Equal(t, date("2024-03-02"), dates[0])
	assert.Equal(t, date("2024-03-05"), dates[1])
	assert.Equal(t, date("2024-03-09"), dates[2])
}
