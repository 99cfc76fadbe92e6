package recon

import (
	"sort"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
)

// Aggregate groups one window's raw records into per-day buckets. It is a
// pure pass: no I/O, and malformed records are skipped rather than failing
// the window.
//
// A sale is bucketed under its serviced date for service items and its
// sold date otherwise; sales with a sentinel zero date or a non-positive
// amount are dropped. A collection is bucketed under its creation date;
// zero-amount collections are kept since they may offset other lines.
func Aggregate(txns domain.SourceTransactions) map[time.Time]domain.DayBucket {
	buckets := make(map[time.Time]domain.DayBucket)

	bucketFor := func(date time.Time) domain.DayBucket {
		bucket, ok := buckets[date]
		if !ok {
			bucket = domain.DayBucket{
				Date:            date,
				SalesByCategory: make(map[domain.ItemCategory]float64),
			}
		}
		return bucket
	}

	for _, sale := range txns.Sales {
		raw := sale.BucketDate()
		if raw.IsZero() || sale.Amount <= 0 {
			continue
		}
		date := DateOnly(raw)
		bucket := bucketFor(date)
		bucket.SalesByCategory[sale.Category] += sale.Amount
		buckets[date] = bucket
	}

	for _, collection := range txns.Collections {
		if collection.CreatedDate.IsZero() {
			continue
		}
		date := DateOnly(collection.CreatedDate)
		bucket := bucketFor(date)
		switch collection.Type {
		case domain.CollectionRefund:
			bucket.Refunds = append(bucket.Refunds, collection)
		case domain.CollectionPayment:
			bucket.Payments = append(bucket.Payments, collection)
		case domain.CollectionRedemption:
			bucket.Redemptions = append(bucket.Redemptions, collection)
		case domain.CollectionRefundPayment:
			bucket.RefundPayments = append(bucket.RefundPayments, collection)
		default:
			// unknown sub-type is a data error, skip the record
			continue
		}
		buckets[date] = bucket
	}

	return buckets
}

// SortedDates returns the bucket dates in chronological order. Days must
// be processed in order because due-amount state depends on earlier days.
func SortedDates(buckets map[time.Time]domain.DayBucket) []time.Time {
	dates := make([]time.Time, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
