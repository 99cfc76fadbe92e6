package recon

import (
	"context"

	"github.com/spaops/ledgersync/internal/domain"
)

// CompanyPage is one page of the LEDGER company list.
type CompanyPage struct {
	Companies []domain.Company
	HasMore   bool
}

// AccountPage is one page of the LEDGER chart of accounts.
type AccountPage struct {
	Accounts []domain.LedgerAccount
	HasMore  bool
}

// AccountSpec describes a ledger account to be created.
type AccountSpec struct {
	Name     string
	Category string
	Currency string
}

// SourceClient fetches raw activity from the spa-management platform.
type SourceClient interface {
	// ListTransactions returns the sales and collection records for one
	// center and date window.
	ListTransactions(ctx context.Context, centerID string, window domain.DateWindow) (domain.SourceTransactions, error)
}

// LedgerClient is the accounting-aggregation platform surface the engine
// consumes. Listing calls are paginated; pages start at 1.
type LedgerClient interface {
	ListCompanies(ctx context.Context, page int) (CompanyPage, error)
	ListConnections(ctx context.Context, companyID string) ([]domain.Connection, error)
	ListAccountCategories(ctx context.Context, companyID, connectionID string) ([]string, error)
	ListAccounts(ctx context.Context, companyID string, page int) (AccountPage, error)

	// CreateAccount submits an asynchronous account creation and returns the
	// push operation key.
	CreateAccount(ctx context.Context, companyID, connectionID string, spec AccountSpec) (string, error)

	// GetPushOperation returns the current snapshot of a push operation.
	// Returns ErrOperationNotFound while the operation is not yet visible.
	GetPushOperation(ctx context.Context, companyID, key string) (domain.PushOperation, error)

	// SubmitJournal submits an asynchronous journal posting and returns the
	// push operation key.
	SubmitJournal(ctx context.Context, companyID, connectionID string, entry domain.JournalEntry) (string, error)
}

// CompanyCache is an optional get/put collaborator that remembers company
// identifiers across invocations. The engine works without one.
type CompanyCache interface {
	Get(ctx context.Context, companyName string) (string, bool)
	Put(ctx context.Context, companyName, companyID string)
}
