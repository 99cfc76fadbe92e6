package recon

import (
	"fmt"
	"math"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
)

// salesCategoryOrder fixes the order of per-category credit lines so
// generated entries are deterministic.
var salesCategoryOrder = []domain.ItemCategory{
	domain.CategoryService,
	domain.CategoryProduct,
	domain.CategoryMembership,
	domain.CategoryPackage,
	domain.CategoryGiftCard,
}

// JournalBuilder turns one day's bucket into a balanced journal entry.
type JournalBuilder struct {
	currency string
}

// NewJournalBuilder returns a builder emitting lines in the given
// currency, defaulting to USD.
func NewJournalBuilder(currency string) *JournalBuilder {
	if currency == "" {
		currency = "USD"
	}
	return &JournalBuilder{currency: currency}
}

// Build constructs the journal entry for one bucket. Line amounts are
// signed: positive credit, negative debit.
//
// Lines whose logical account is unresolved in the mapping are suppressed,
// but their amounts still count toward the intended totals; if suppression
// leaves the emitted entry out of balance, the entry fails with
// ErrUnbalancedJournal instead of being submitted. The closing due-amount
// line absorbs the intended residual between net sales and net
// payments/redemptions, so a fully resolved mapping always balances.
func (b *JournalBuilder) Build(bucket domain.DayBucket, mapping domain.AccountMapping) (domain.JournalEntry, error) {
	entry := domain.JournalEntry{PostingDate: bucket.Date}
	var intended float64

	add := func(account domain.LogicalAccount, amount float64, description string) {
		intended += amount
		id, ok := mapping.IDFor(account)
		if !ok {
			return
		}
		entry.Lines = append(entry.Lines, domain.JournalLine{
			Account:     account,
			AccountID:   id,
			Amount:      amount,
			Description: description,
			Currency:    b.currency,
		})
	}

	for _, category := range salesCategoryOrder {
		total := bucket.SalesByCategory[category]
		if total == 0 {
			continue
		}
		add(category.SalesAccount(), total, fmt.Sprintf("Daily %s sales", category))
	}

	for _, refund := range bucket.Refunds {
		add(refund.Method.UndepositedAccount(), -refund.Amount, "Refund issued")
		add(refund.Category.SalesAccount(), refund.Amount, "Refund reversal")
	}

	for _, payment := range bucket.Payments {
		add(payment.Method.UndepositedAccount(), -payment.Amount, "Payment collected")
	}

	for _, redemption := range bucket.Redemptions {
		add(domain.AccountMembershipRedemptions, -redemption.Amount, "Membership redemption")
		add(domain.AccountMembershipRevenue, redemption.Amount, "Membership revenue recognized")
	}

	for _, refundPayment := range bucket.RefundPayments {
		add(refundPaymentLiability(refundPayment.Category), refundPayment.Amount, "Refund payment")
		add(refundPayment.Method.UndepositedAccount(), -refundPayment.Amount, "Refund payment disbursed")
	}

	// Closing line: balance the residual between net sales and net
	// payments/redemptions against the receivable.
	if residual := -intended; math.Abs(residual) > domain.BalanceEpsilon {
		add(domain.AccountDueAmount, residual, "Daily due amount")
	}

	if !entry.Balanced() {
		return domain.JournalEntry{}, fmt.Errorf("%w: %s off by %.2f",
			ErrUnbalancedJournal, bucket.Date.Format(time.DateOnly), entry.Imbalance())
	}
	return entry, nil
}

// refundPaymentLiability picks the liability account a refund payment
// credits. Package liability is the fallback when the item category does
// not name a liability-backed product.
func refundPaymentLiability(category domain.ItemCategory) domain.LogicalAccount {
	if category == domain.CategoryGiftCard {
		return domain.AccountGiftCardLiability
	}
	return domain.AccountPackageLiability
}
