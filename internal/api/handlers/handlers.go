package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/spaops/ledgersync/internal/api/middleware"
	"github.com/spaops/ledgersync/internal/domain"
	"github.com/spaops/ledgersync/internal/infra/codat"
	"github.com/spaops/ledgersync/internal/infra/zenoti"
	"github.com/spaops/ledgersync/internal/logger"
	"github.com/spaops/ledgersync/internal/recon"
)

// Config carries the service-side configuration shared by all handlers.
// LedgerAPIKey is the LEDGER credential; the SOURCE credential arrives
// per-request.
type Config struct {
	LedgerAPIKey  string
	LedgerBaseURL string
	SourceBaseURL string
	Currency      string
	PlatformKey   string
	WindowDays    int
	Poll          recon.PollerConfig
}

const errLedgerKeyMissing = "LEDGER API key not configured"

// CenterLister lists SOURCE centers.
type CenterLister interface {
	ListCenters(ctx context.Context) ([]zenoti.Center, error)
}

// CompanyProvisioner creates LEDGER companies and connections.
type CompanyProvisioner interface {
	CreateCompany(ctx context.Context, name string) (domain.Company, error)
	CreateConnection(ctx context.Context, companyID, platformKey string) (domain.Connection, error)
}

// SyncHandler handles POST /api/sync, the reconciliation operation.
type SyncHandler struct {
	cfg       Config
	cache     recon.CompanyCache
	newSource func(apiKey string) recon.SourceClient
	newLedger func(apiKey string) recon.LedgerClient
	log       zerolog.Logger
}

// NewSyncHandler creates a sync handler backed by the real SOURCE and
// LEDGER clients.
func NewSyncHandler(cfg Config, cache recon.CompanyCache, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{
		cfg:   cfg,
		cache: cache,
		newSource: func(apiKey string) recon.SourceClient {
			return newSourceClient(cfg, apiKey)
		},
		newLedger: func(apiKey string) recon.LedgerClient {
			return newLedgerClient(cfg, apiKey)
		},
		log: log,
	}
}

// Sync handles POST /api/sync.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start, end, err := req.Validate()
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.cfg.LedgerAPIKey == "" {
		h.log.Error().Msg("Sync requested without a configured ledger credential")
		middleware.WriteError(w, http.StatusInternalServerError, errLedgerKeyMissing)
		return
	}

	ctx := logger.WithContext(r.Context(), h.log.With().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("company", req.CompanyName).
		Logger())

	orchestrator := recon.NewOrchestrator(
		h.newSource(req.APIKey),
		h.newLedger(h.cfg.LedgerAPIKey),
		h.cache,
		recon.Config{Currency: h.cfg.Currency, WindowDays: h.cfg.WindowDays, Poll: h.cfg.Poll},
	)

	results, err := orchestrator.Sync(ctx, recon.SyncParams{
		CompanyName: req.CompanyName,
		CenterID:    req.CenterID,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		h.log.Error().Err(err).Str("company", req.CompanyName).Msg("Sync failed")
		middleware.WriteError(w, syncStatus(err), "Sync failed: "+err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"syncedDetails": results,
	})
}

// syncStatus maps engine errors to HTTP status codes.
func syncStatus(err error) int {
	switch {
	case errors.Is(err, recon.ErrCompanyNotFound), errors.Is(err, recon.ErrConnectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, recon.ErrInvalidRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CentersHandler handles POST /api/centers.
type CentersHandler struct {
	newSource func(apiKey string) CenterLister
	log       zerolog.Logger
}

// NewCentersHandler creates a centers handler backed by the real SOURCE
// client.
func NewCentersHandler(cfg Config, log zerolog.Logger) *CentersHandler {
	return &CentersHandler{
		newSource: func(apiKey string) CenterLister {
			return newSourceClient(cfg, apiKey)
		},
		log: log,
	}
}

// ListCenters handles POST /api/centers.
func (h *CentersHandler) ListCenters(w http.ResponseWriter, r *http.Request) {
	var req CentersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	centers, err := h.newSource(req.APIKey).ListCenters(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list centers")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to fetch centers: "+err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"centers": centers,
	})
}

// AuthLinkHandler handles POST /api/auth-link: provision a LEDGER company
// and return the accounting-platform OAuth link.
type AuthLinkHandler struct {
	cfg       Config
	newLedger func(apiKey string) CompanyProvisioner
	log       zerolog.Logger
}

// NewAuthLinkHandler creates an auth-link handler backed by the real
// LEDGER client.
func NewAuthLinkHandler(cfg Config, log zerolog.Logger) *AuthLinkHandler {
	return &AuthLinkHandler{
		cfg: cfg,
		newLedger: func(apiKey string) CompanyProvisioner {
			return newLedgerClient(cfg, apiKey)
		},
		log: log,
	}
}

// AuthLink handles POST /api/auth-link.
func (h *AuthLinkHandler) AuthLink(w http.ResponseWriter, r *http.Request) {
	var req AuthLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.cfg.LedgerAPIKey == "" {
		middleware.WriteError(w, http.StatusInternalServerError, errLedgerKeyMissing)
		return
	}

	ledger := h.newLedger(h.cfg.LedgerAPIKey)

	company, err := ledger.CreateCompany(r.Context(), req.CompanyName)
	if err != nil {
		h.log.Error().Err(err).Str("company", req.CompanyName).Msg("Failed to create ledger company")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate auth link: "+err.Error())
		return
	}

	connection, err := ledger.CreateConnection(r.Context(), company.ID, h.cfg.PlatformKey)
	if err != nil {
		h.log.Error().Err(err).Str("company_id", company.ID).Msg("Failed to create connection")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate auth link: "+err.Error())
		return
	}

	h.log.Info().Str("company_id", company.ID).Msg("Auth link generated")
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"authUrl": connection.LinkURL,
	})
}

func newSourceClient(cfg Config, apiKey string) *zenoti.Client {
	var opts []zenoti.Option
	if cfg.SourceBaseURL != "" {
		opts = append(opts, zenoti.WithBaseURL(cfg.SourceBaseURL))
	}
	return zenoti.NewClient(apiKey, opts...)
}

func newLedgerClient(cfg Config, apiKey string) *codat.Client {
	var opts []codat.Option
	if cfg.LedgerBaseURL != "" {
		opts = append(opts, codat.WithBaseURL(cfg.LedgerBaseURL))
	}
	return codat.NewClient(apiKey, opts...)
}
