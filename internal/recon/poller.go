package recon

import (
	"context"
	"errors"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/retry"
)

// PollerConfig bounds one push-operation poll loop. Whichever of
// MaxAttempts and MaxElapsed is reached first terminates the loop with a
// Timeout outcome.
type PollerConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
	MaxElapsed   time.Duration
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.InitialDelay == 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.Interval == 0 {
		c.Interval = 2 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 15
	}
	if c.MaxElapsed == 0 {
		c.MaxElapsed = 45 * time.Second
	}
	return c
}

// PollOutcome is the terminal result of awaiting a push operation.
type PollOutcome int

const (
	PollSuccess PollOutcome = iota
	PollFailed
	PollTimeout
)

// PollResult carries the outcome of one Await call. RecordID is set on
// success; Message holds the LEDGER-side failure text; Err holds the
// transport error that aborted the poll, if any.
type PollResult struct {
	Outcome  PollOutcome
	RecordID string
	Message  string
	Err      error
}

// errStillPending marks a poll attempt that observed a Pending status.
var errStillPending = errors.New("push operation still pending")

// Poller awaits terminal push-operation state on the LEDGER side.
type Poller struct {
	ledger LedgerClient
	cfg    PollerConfig
}

// NewPoller creates a poller over the given ledger client.
func NewPoller(ledger LedgerClient, cfg PollerConfig) *Poller {
	return &Poller{ledger: ledger, cfg: cfg.withDefaults()}
}

// Await polls the operation until Success or Failed, or until the attempt
// and elapsed budgets run out (Timeout). A 404 on the status endpoint is
// transient and retried; any other transport error aborts the poll and is
// reported as Failed with the error attached.
func (p *Poller) Await(ctx context.Context, companyID, key string) PollResult {
	cfg := retry.Config{
		InitialDelay: p.cfg.InitialDelay,
		Interval:     p.cfg.Interval,
		MaxAttempts:  p.cfg.MaxAttempts,
		MaxElapsed:   p.cfg.MaxElapsed,
	}

	transient := func(err error) bool {
		return errors.Is(err, errStillPending) || errors.Is(err, ErrOperationNotFound)
	}

	op, err := retry.Do(ctx, cfg, transient, func(ctx context.Context) (domain.PushOperation, error) {
		op, err := p.ledger.GetPushOperation(ctx, companyID, key)
		if err != nil {
			return domain.PushOperation{}, err
		}
		if op.Status == domain.PushPending {
			return domain.PushOperation{}, errStillPending
		}
		return op, nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return PollResult{Outcome: PollTimeout, Err: ErrPushTimeout}
		}
		return PollResult{Outcome: PollFailed, Err: err}
	}

	if op.Status == domain.PushFailed {
		return PollResult{Outcome: PollFailed, Message: op.ErrorMessage}
	}
	return PollResult{Outcome: PollSuccess, RecordID: op.RecordID}
}
