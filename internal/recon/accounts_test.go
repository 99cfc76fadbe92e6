package recon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaops/ledgersync/internal/domain"
)

func newResolver(ledger LedgerClient) *AccountResolver {
	return NewAccountResolver(ledger, NewPoller(ledger, fastPoll()), "USD")
}

func TestResolve_AllAccountsExist(t *testing.T) {
	creates := 0
	categoryLists := 0
	ledger := &fakeLedger{
		listAccountsFunc: func(_ context.Context, _ string, page int) (AccountPage, error) {
			// Split across two pages to exercise pagination.
			accounts := allAccounts()
			if page == 1 {
				return AccountPage{Accounts: accounts[:4], HasMore: true}, nil
			}
			return AccountPage{Accounts: accounts[4:]}, nil
		},
		createAccountFunc: func(context.Context, string, string, AccountSpec) (string, error) {
			creates++
			return "push-key", nil
		},
		listAccountCategoriesFunc: func(context.Context, string, string) ([]string, error) {
			categoryLists++
			return []string{"Income", "Liability", "Asset"}, nil
		},
	}

	mapping, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.NoError(t, err)

	assert.Zero(t, creates, "a second run against a populated ledger must not create anything")
	assert.Zero(t, categoryLists, "categories are only needed when something is missing")
	require.Len(t, mapping, len(domain.RequiredAccounts()))
	for logical, resolved := range mapping {
		assert.Equal(t, domain.StateExisting, resolved.State, "%s", logical)
		assert.NotEmpty(t, resolved.ID, "%s", logical)
	}
}

func TestResolve_MatchesFullyQualifiedName(t *testing.T) {
	accounts := allAccounts()
	// Strip the plain name from one account; only its qualified name matches.
	accounts[0].FullyQualifiedName = accounts[0].Name
	accounts[0].Name = "1000 - revenue"

	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			return AccountPage{Accounts: accounts}, nil
		},
	}

	mapping, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateExisting, mapping[domain.AccountServiceSales].State)
}

func TestResolve_CreatesMissingAccounts(t *testing.T) {
	var created []AccountSpec
	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			return AccountPage{Accounts: allAccounts()[1:]}, nil // Service Sales missing
		},
		createAccountFunc: func(_ context.Context, _, _ string, spec AccountSpec) (string, error) {
			created = append(created, spec)
			return "push-key", nil
		},
		getPushOperationFunc: func(context.Context, string, string) (domain.PushOperation, error) {
			return domain.PushOperation{Status: domain.PushSuccess, RecordID: "acct-new"}, nil
		},
	}

	mapping, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, "Service Sales", created[0].Name)
	assert.Equal(t, "Income", created[0].Category)
	assert.Equal(t, "USD", created[0].Currency)

	resolved := mapping[domain.AccountServiceSales]
	assert.Equal(t, domain.StateCreated, resolved.State)
	assert.Equal(t, "acct-new", resolved.ID)
}

func TestResolve_RejectsUnsupportedCategory(t *testing.T) {
	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			return AccountPage{Accounts: allAccounts()[1:]}, nil
		},
		listAccountCategoriesFunc: func(context.Context, string, string) ([]string, error) {
			return []string{"Expense"}, nil
		},
	}

	_, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestResolve_RecoversDuplicateNameRace(t *testing.T) {
	listings := 0
	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			listings++
			if listings == 1 {
				// First listing misses the account another sync is creating.
				return AccountPage{Accounts: allAccounts()[1:]}, nil
			}
			return AccountPage{Accounts: allAccounts()}, nil
		},
		getPushOperationFunc: func(context.Context, string, string) (domain.PushOperation, error) {
			return domain.PushOperation{Status: domain.PushFailed, ErrorMessage: "An account with this name already exists"}, nil
		},
	}

	mapping, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.NoError(t, err)

	resolved := mapping[domain.AccountServiceSales]
	assert.Equal(t, domain.StateExisting, resolved.State)
	assert.Equal(t, "a", resolved.ID)
	assert.Equal(t, 2, listings)
}

func TestResolve_CreationFailureLeavesAccountUnresolved(t *testing.T) {
	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			return AccountPage{Accounts: allAccounts()[1:]}, nil
		},
		getPushOperationFunc: func(context.Context, string, string) (domain.PushOperation, error) {
			return domain.PushOperation{Status: domain.PushFailed, ErrorMessage: "validation rejected"}, nil
		},
	}

	mapping, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.NoError(t, err, "an unresolved account does not abort the resolution")

	assert.Equal(t, domain.StateUnresolved, mapping[domain.AccountServiceSales].State)
	_, ok := mapping.IDFor(domain.AccountServiceSales)
	assert.False(t, ok)
}

func TestResolve_RetriesRateLimitedListing(t *testing.T) {
	attempts := 0
	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			attempts++
			if attempts == 1 {
				return AccountPage{}, ErrRateLimited
			}
			return AccountPage{Accounts: allAccounts()}, nil
		},
	}

	_, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestResolve_ListingFailureAborts(t *testing.T) {
	boom := errors.New("ledger down")
	ledger := &fakeLedger{
		listAccountsFunc: func(context.Context, string, int) (AccountPage, error) {
			return AccountPage{}, boom
		},
	}

	_, err := newResolver(ledger).Resolve(quietCtx(), "co-1", "conn-1")
	require.ErrorIs(t, err, boom)
}
