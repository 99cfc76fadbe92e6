package recon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/logger"
	"github.com/spaops/ledgersync/internal/retry"
)

// listRetry bounds retries of paginated listing fetches on rate limiting.
var listRetry = retry.Config{Interval: time.Second, MaxAttempts: 3}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// AccountResolver maps the fixed set of required logical accounts to
// ledger account identifiers for one company, creating accounts that do
// not yet exist.
type AccountResolver struct {
	ledger   LedgerClient
	poller   *Poller
	currency string
}

// NewAccountResolver creates a resolver that awaits account creation
// through the given poller.
func NewAccountResolver(ledger LedgerClient, poller *Poller, currency string) *AccountResolver {
	if currency == "" {
		currency = "USD"
	}
	return &AccountResolver{ledger: ledger, poller: poller, currency: currency}
}

// Resolve builds the complete account mapping for one sync invocation.
//
// Accounts already present in the ledger are matched case-insensitively on
// trimmed name or fully-qualified name without any network write. Missing
// accounts are created after validating their classification against the
// connection's allowed categories (fetched once, lazily). Duplicate-name
// creation failures are expected when two syncs race and are recovered by
// re-listing. Any other creation failure or poll timeout leaves the entry
// Unresolved with a warning; the sync continues and journal lines touching
// that account are suppressed downstream.
func (r *AccountResolver) Resolve(ctx context.Context, companyID, connectionID string) (domain.AccountMapping, error) {
	log := logger.FromContext(ctx)

	existing, err := r.listAllAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list ledger accounts: %w", err)
	}
	index := indexAccounts(existing)

	mapping := make(domain.AccountMapping, len(domain.RequiredAccounts()))
	var allowed map[string]bool

	for _, logical := range domain.RequiredAccounts() {
		if account, ok := index[normalizeName(string(logical))]; ok {
			mapping[logical] = domain.ResolvedAccount{ID: account.ID, State: domain.StateExisting}
			continue
		}

		if allowed == nil {
			categories, err := r.ledger.ListAccountCategories(ctx, companyID, connectionID)
			if err != nil {
				return nil, fmt.Errorf("list account categories: %w", err)
			}
			allowed = make(map[string]bool, len(categories))
			for _, category := range categories {
				allowed[normalizeName(category)] = true
			}
		}

		category := logical.Class().Category()
		if !allowed[normalizeName(category)] {
			return nil, fmt.Errorf("%w: %q needs category %q", ErrInvalidCategory, logical, category)
		}

		resolved := r.createAccount(ctx, companyID, connectionID, logical, category)
		if resolved.State == domain.StateUnresolved {
			log.Warn().
				Str("account", string(logical)).
				Str("company_id", companyID).
				Msg("Account left unresolved, its journal lines will be suppressed")
		}
		mapping[logical] = resolved
	}

	return mapping, nil
}

// createAccount submits one account creation and awaits its push
// operation, recovering duplicate-name races by re-listing.
func (r *AccountResolver) createAccount(ctx context.Context, companyID, connectionID string, logical domain.LogicalAccount, category string) domain.ResolvedAccount {
	log := logger.FromContext(ctx)

	key, err := r.ledger.CreateAccount(ctx, companyID, connectionID, AccountSpec{
		Name:     string(logical),
		Category: category,
		Currency: r.currency,
	})
	if err != nil {
		log.Warn().Err(err).Str("account", string(logical)).Msg("Account creation request failed")
		return domain.ResolvedAccount{State: domain.StateUnresolved}
	}

	result := r.poller.Await(ctx, companyID, key)
	switch result.Outcome {
	case PollSuccess:
		log.Info().Str("account", string(logical)).Str("account_id", result.RecordID).Msg("Created ledger account")
		return domain.ResolvedAccount{ID: result.RecordID, State: domain.StateCreated}

	case PollFailed:
		if isDuplicateName(result.Message) {
			// Another sync created the account between our listing and our
			// push; the existing account wins.
			if account, ok := r.relistAndFind(ctx, companyID, logical); ok {
				log.Info().Str("account", string(logical)).Str("account_id", account.ID).Msg("Recovered duplicate account creation")
				return domain.ResolvedAccount{ID: account.ID, State: domain.StateExisting}
			}
		}
		log.Warn().
			Str("account", string(logical)).
			Str("message", result.Message).
			AnErr("cause", result.Err).
			Msg("Account creation push failed")
		return domain.ResolvedAccount{State: domain.StateUnresolved}

	default: // PollTimeout
		log.Warn().Str("account", string(logical)).Msg("Account creation poll timed out")
		return domain.ResolvedAccount{State: domain.StateUnresolved}
	}
}

func (r *AccountResolver) relistAndFind(ctx context.Context, companyID string, logical domain.LogicalAccount) (domain.LedgerAccount, bool) {
	accounts, err := r.listAllAccounts(ctx, companyID)
	if err != nil {
		return domain.LedgerAccount{}, false
	}
	account, ok := indexAccounts(accounts)[normalizeName(string(logical))]
	return account, ok
}

// listAllAccounts follows pagination to exhaustion, pausing and retrying
// on rate-limit signals.
func (r *AccountResolver) listAllAccounts(ctx context.Context, companyID string) ([]domain.LedgerAccount, error) {
	var all []domain.LedgerAccount
	for page := 1; ; page++ {
		result, err := retry.Do(ctx, listRetry, isRateLimited, func(ctx context.Context) (AccountPage, error) {
			return r.ledger.ListAccounts(ctx, companyID, page)
		})
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, result.Accounts...)
		if !result.HasMore {
			return all, nil
		}
	}
}

// indexAccounts keys accounts by normalized name and fully-qualified name.
func indexAccounts(accounts []domain.LedgerAccount) map[string]domain.LedgerAccount {
	index := make(map[string]domain.LedgerAccount, len(accounts))
	for _, account := range accounts {
		if name := normalizeName(account.Name); name != "" {
			if _, taken := index[name]; !taken {
				index[name] = account
			}
		}
		if qualified := normalizeName(account.FullyQualifiedName); qualified != "" {
			if _, taken := index[qualified]; !taken {
				index[qualified] = account
			}
		}
	}
	return index
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// isDuplicateName recognizes LEDGER failure text for name conflicts.
func isDuplicateName(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "already exists") || strings.Contains(lower, "duplicate")
}
