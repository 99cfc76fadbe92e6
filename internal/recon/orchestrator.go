package recon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/logger"
	"github.com/spaops/ledgersync/internal/retry"
)

// Config tunes one orchestrator. Zero values fall back to defaults.
type Config struct {
	Currency   string
	WindowDays int
	Poll       PollerConfig
}

// SyncParams identifies one sync invocation.
type SyncParams struct {
	CompanyName string
	CenterID    string
	StartDate   time.Time
	EndDate     time.Time
}

// Orchestrator sequences one company's reconciliation: resolve company and
// connection, resolve accounts once, then fetch, aggregate, build and
// submit one journal per calendar day, strictly in chronological order.
//
// The contract is all-or-nothing: any unrecoverable error discards results
// accumulated so far and surfaces as a single error.
type Orchestrator struct {
	source     SourceClient
	ledger     LedgerClient
	cache      CompanyCache
	resolver   *AccountResolver
	poller     *Poller
	builder    *JournalBuilder
	windowDays int
}

// NewOrchestrator wires the engine components. cache may be nil.
func NewOrchestrator(source SourceClient, ledger LedgerClient, cache CompanyCache, cfg Config) *Orchestrator {
	poller := NewPoller(ledger, cfg.Poll)
	return &Orchestrator{
		source:     source,
		ledger:     ledger,
		cache:      cache,
		resolver:   NewAccountResolver(ledger, poller, cfg.Currency),
		poller:     poller,
		builder:    NewJournalBuilder(cfg.Currency),
		windowDays: cfg.WindowDays,
	}
}

// Sync runs the full reconciliation and returns one result per calendar
// day that produced a non-empty, balanced journal.
func (o *Orchestrator) Sync(ctx context.Context, params SyncParams) ([]domain.SyncResult, error) {
	log := logger.FromContext(ctx)

	companyID, err := o.resolveCompany(ctx, params.CompanyName)
	if err != nil {
		return nil, err
	}

	connectionID, err := o.resolveConnection(ctx, companyID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("company_id", companyID).
		Str("connection_id", connectionID).
		Str("center_id", params.CenterID).
		Time("start_date", params.StartDate).
		Time("end_date", params.EndDate).
		Msg("Starting reconciliation sync")

	mapping, err := o.resolver.Resolve(ctx, companyID, connectionID)
	if err != nil {
		return nil, fmt.Errorf("resolve accounts: %w", err)
	}

	windows, err := NewWindowIterator(params.StartDate, params.EndDate, o.windowDays)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SyncResult, 0)
	for {
		window, ok := windows.Next()
		if !ok {
			break
		}

		txns, err := o.source.ListTransactions(ctx, params.CenterID, window)
		if err != nil {
			return nil, fmt.Errorf("fetch transactions %s..%s: %w",
				window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly), err)
		}

		buckets := Aggregate(txns)
		for _, date := range SortedDates(buckets) {
			result, submitted, err := o.submitDay(ctx, companyID, connectionID, buckets[date], mapping)
			if err != nil {
				return nil, err
			}
			if submitted {
				results = append(results, result)
			}
		}
	}

	log.Info().Int("days_synced", len(results)).Msg("Reconciliation sync finished")
	return results, nil
}

// submitDay builds and submits one day's journal. Empty entries are
// skipped without a submission.
func (o *Orchestrator) submitDay(ctx context.Context, companyID, connectionID string, bucket domain.DayBucket, mapping domain.AccountMapping) (domain.SyncResult, bool, error) {
	log := logger.FromContext(ctx)
	day := bucket.Date.Format(time.DateOnly)

	entry, err := o.builder.Build(bucket, mapping)
	if err != nil {
		return domain.SyncResult{}, false, err
	}
	if len(entry.Lines) == 0 {
		log.Debug().Str("date", day).Msg("No journal lines for day, skipping")
		return domain.SyncResult{}, false, nil
	}

	key, err := o.ledger.SubmitJournal(ctx, companyID, connectionID, entry)
	if err != nil {
		return domain.SyncResult{}, false, fmt.Errorf("submit journal for %s: %w", day, err)
	}

	poll := o.poller.Await(ctx, companyID, key)
	switch poll.Outcome {
	case PollSuccess:
		log.Info().
			Str("date", day).
			Str("journal_id", poll.RecordID).
			Int("lines", len(entry.Lines)).
			Msg("Journal posted")
		return domain.SyncResult{
			Date:           day,
			TotalAmount:    round2(bucket.GrossSales()),
			JournalEntryID: poll.RecordID,
		}, true, nil

	case PollTimeout:
		return domain.SyncResult{}, false, fmt.Errorf("journal for %s: %w", day, ErrPushTimeout)

	default:
		if poll.Err != nil {
			return domain.SyncResult{}, false, fmt.Errorf("journal for %s: %w", day, poll.Err)
		}
		return domain.SyncResult{}, false, fmt.Errorf("journal for %s failed: %s", day, poll.Message)
	}
}

// resolveCompany finds the company ID by exact name match, falling back to
// a case-insensitive match, over the paginated company list. The injected
// cache short-circuits the listing when it already knows the name.
func (o *Orchestrator) resolveCompany(ctx context.Context, name string) (string, error) {
	if o.cache != nil {
		if id, ok := o.cache.Get(ctx, name); ok {
			return id, nil
		}
	}

	var caseInsensitive string
	for page := 1; ; page++ {
		result, err := retry.Do(ctx, listRetry, isRateLimited, func(ctx context.Context) (CompanyPage, error) {
			return o.ledger.ListCompanies(ctx, page)
		})
		if err != nil {
			return "", fmt.Errorf("list companies page %d: %w", page, err)
		}

		for _, company := range result.Companies {
			if company.Name == name {
				return o.rememberCompany(ctx, name, company.ID), nil
			}
			if caseInsensitive == "" && strings.EqualFold(strings.TrimSpace(company.Name), strings.TrimSpace(name)) {
				caseInsensitive = company.ID
			}
		}
		if !result.HasMore {
			break
		}
	}

	if caseInsensitive != "" {
		return o.rememberCompany(ctx, name, caseInsensitive), nil
	}
	return "", fmt.Errorf("%w: %q", ErrCompanyNotFound, name)
}

func (o *Orchestrator) rememberCompany(ctx context.Context, name, id string) string {
	if o.cache != nil {
		o.cache.Put(ctx, name, id)
	}
	return id
}

// resolveConnection picks the company's first connection.
func (o *Orchestrator) resolveConnection(ctx context.Context, companyID string) (string, error) {
	connections, err := o.ledger.ListConnections(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("list connections: %w", err)
	}
	if len(connections) == 0 {
		return "", fmt.Errorf("%w: company %s", ErrConnectionNotFound, companyID)
	}
	return connections[0].ID, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+sign(v)*0.5)) / 100
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
