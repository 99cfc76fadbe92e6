package domain

import (
	"math"
	"time"
)

// BalanceEpsilon is the largest credit/debit difference a journal entry may
// carry and still be considered balanced (one cent).
const BalanceEpsilon = 0.01

// JournalLine is one leg of a double-entry journal. Amounts are signed:
// positive is a credit, negative is a debit. AccountID is the resolved
// ledger identifier; a line is only emitted once its account resolved.
type JournalLine struct {
	Account     LogicalAccount
	AccountID   string
	Amount      float64
	Description string
	Currency    string
}

// JournalEntry is one day's balanced set of journal lines.
type JournalEntry struct {
	PostingDate time.Time
	Lines       []JournalLine
}

// Imbalance returns the signed sum of all line amounts. A balanced entry
// returns a value within BalanceEpsilon of zero.
func (e JournalEntry) Imbalance() float64 {
	var sum float64
	for _, line := range e.Lines {
		sum += line.Amount
	}
	return sum
}

// Balanced reports whether credits and debits cancel within BalanceEpsilon.
func (e JournalEntry) Balanced() bool {
	return math.Abs(e.Imbalance()) <= BalanceEpsilon
}

// SyncResult is the per-date outcome of a successful journal submission.
type SyncResult struct {
	Date           string  `json:"date"`
	TotalAmount    float64 `json:"totalAmount"`
	JournalEntryID string  `json:"journalEntryId"`
}

// PushStatus is the observed state of an asynchronous LEDGER push
// operation. The core only ever reads it; transitions happen on the
// LEDGER side.
type PushStatus string

const (
	PushPending PushStatus = "Pending"
	PushSuccess PushStatus = "Success"
	PushFailed  PushStatus = "Failed"
)

// PushOperation is a snapshot of a LEDGER push operation as returned by
// the status endpoint.
type PushOperation struct {
	Key          string
	Status       PushStatus
	RecordID     string // identifier of the created record, set on Success
	ErrorMessage string
}
