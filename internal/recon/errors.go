package recon

import "errors"

// Error taxonomy for the reconciliation engine. Transient conditions
// (ErrRateLimited, ErrOperationNotFound) are absorbed by retry loops and
// never reach the caller; everything else aborts the sync.
var (
	// ErrInvalidRange means the requested end date precedes the start date.
	ErrInvalidRange = errors.New("end date is before start date")

	// ErrCompanyNotFound means the company name matched nothing after
	// paginating the LEDGER company list to exhaustion.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrConnectionNotFound means the company has no accounting connection.
	ErrConnectionNotFound = errors.New("company has no connection")

	// ErrInvalidCategory means a required account's classification is not
	// accepted by the connection.
	ErrInvalidCategory = errors.New("account category not accepted by connection")

	// ErrUnbalancedJournal means a journal entry's credits and debits do not
	// cancel within the balance epsilon. Such an entry is never submitted.
	ErrUnbalancedJournal = errors.New("journal entry does not balance")

	// ErrRateLimited is returned by LEDGER clients on a 429 response.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrOperationNotFound is returned when a push operation is not yet
	// visible on the status endpoint (404). Treated as transient.
	ErrOperationNotFound = errors.New("push operation not yet visible")

	// ErrPushTimeout means a push operation stayed pending past the poll
	// budget.
	ErrPushTimeout = errors.New("push operation timed out")
)
