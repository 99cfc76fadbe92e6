package recon

import (
	"context"
	"io"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/logger"
)

// fakeLedger implements LedgerClient with overridable behavior per method.
// Unset funcs return zero values so tests only stub what they exercise.
type fakeLedger struct {
	listCompaniesFunc         func(ctx context.Context, page int) (CompanyPage, error)
	listConnectionsFunc       func(ctx context.Context, companyID string) ([]domain.Connection, error)
	listAccountCategoriesFunc func(ctx context.Context, companyID, connectionID string) ([]string, error)
	listAccountsFunc          func(ctx context.Context, companyID string, page int) (AccountPage, error)
	createAccountFunc         func(ctx context.Context, companyID, connectionID string, spec AccountSpec) (string, error)
	getPushOperationFunc      func(ctx context.Context, companyID, key string) (domain.PushOperation, error)
	submitJournalFunc         func(ctx context.Context, companyID, connectionID string, entry domain.JournalEntry) (string, error)
}

func (f *fakeLedger) ListCompanies(ctx context.Context, page int) (CompanyPage, error) {
	if f.listCompaniesFunc != nil {
		return f.listCompaniesFunc(ctx, page)
	}
	return CompanyPage{}, nil
}

func (f *fakeLedger) ListConnections(ctx context.Context, companyID string) ([]domain.Connection, error) {
	if f.listConnectionsFunc != nil {
		return f.listConnectionsFunc(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLedger) ListAccountCategories(ctx context.Context, companyID, connectionID string) ([]string, error) {
	if f.listAccountCategoriesFunc != nil {
		return f.listAccountCategoriesFunc(ctx, companyID, connectionID)
	}
	return []string{"Income", "Liability", "Asset"}, nil
}

func (f *fakeLedger) ListAccounts(ctx context.Context, companyID string, page int) (AccountPage, error) {
	if f.listAccountsFunc != nil {
		return f.listAccountsFunc(ctx, companyID, page)
	}
	return AccountPage{}, nil
}

func (f *fakeLedger) CreateAccount(ctx context.Context, companyID, connectionID string, spec AccountSpec) (string, error) {
	if f.createAccountFunc != nil {
		return f.createAccountFunc(ctx, companyID, connectionID, spec)
	}
	return "push-key", nil
}

func (f *fakeLedger) GetPushOperation(ctx context.Context, companyID, key string) (domain.PushOperation, error) {
	if f.getPushOperationFunc != nil {
		return f.getPushOperationFunc(ctx, companyID, key)
	}
	return domain.PushOperation{Status: domain.PushSuccess}, nil
}

func (f *fakeLedger) SubmitJournal(ctx context.Context, companyID, connectionID string, entry domain.JournalEntry) (string, error) {
	if f.submitJournalFunc != nil {
		return f.submitJournalFunc(ctx, companyID, connectionID, entry)
	}
	return "push-key", nil
}

// fakeSource implements SourceClient.
type fakeSource struct {
	listTransactionsFunc func(ctx context.Context, centerID string, window domain.DateWindow) (domain.SourceTransactions, error)
}

func (f *fakeSource) ListTransactions(ctx context.Context, centerID string, window domain.DateWindow) (domain.SourceTransactions, error) {
	if f.listTransactionsFunc != nil {
		return f.listTransactionsFunc(ctx, centerID, window)
	}
	return domain.SourceTransactions{}, nil
}

// fakeCache is an in-test CompanyCache.
type fakeCache struct {
	entries map[string]string
	gets    int
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, name string) (string, bool) {
	f.gets++
	id, ok := f.entries[name]
	return id, ok
}

func (f *fakeCache) Put(_ context.Context, name, id string) {
	f.puts++
	f.entries[name] = id
}

// fastPoll keeps poll loops in tests in the millisecond range.
func fastPoll() PollerConfig {
	return PollerConfig{
		InitialDelay: time.Millisecond,
		Interval:     time.Millisecond,
		MaxAttempts:  5,
		MaxElapsed:   time.Second,
	}
}

// quietCtx carries a discard logger so tests do not print log lines.
func quietCtx() context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(io.Discard))
}

// allAccounts returns a ledger listing covering every required account.
func allAccounts() []domain.LedgerAccount {
	accounts := make([]domain.LedgerAccount, 0, len(domain.RequiredAccounts()))
	for i, logical := range domain.RequiredAccounts() {
		accounts = append(accounts, domain.LedgerAccount{
			ID:   string(rune('a' + i)),
			Name: string(logical),
		})
	}
	return accounts
}
