package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"namemarket/internal/platform/metrics"
	"namemarket/internal/platform/middleware"
	"namemarket/internal/registry/models"
	"namemarket/internal/registry/service"
	"namemarket/internal/transport/http/shared"
	id "namemarket/pkg/domain"
	dErrors "namemarket/pkg/domain-errors"
	"namemarket/pkg/requestcontext"
)

// Service defines the registry operations the HTTP layer depends on.
type Service interface {
	AllotIP(ctx context.Context, ip, websiteCode string, owner id.Principal) (*models.IPRecord, error)
	LookupIP(ctx context.Context, ip string) (*models.IPRecord, error)
	AssignDomain(ctx context.Context, domain, ip, websiteCode string, owner id.Principal, now time.Time) (*models.DomainRecord, error)
	ReadDomain(ctx context.Context, domain string, now time.Time) (service.DomainView, error)
	BuyDomain(ctx context.Context, domain string, payment id.Funds, buyer id.Principal) (id.Funds, error)
	TransferDomain(ctx context.Context, domain string, newOwner, caller id.Principal) (*models.DomainRecord, error)
	WithdrawFees(ctx context.Context, amount uint64, recipient, caller id.Principal) (id.Funds, error)
	FeeBalance(ctx context.Context, caller id.Principal) (uint64, error)
}

// Handler is the thin HTTP layer over the registry service. It parses
// requests, resolves the caller principal, and delegates; business rules
// live in the service.
type Handler struct {
	logger    *slog.Logger
	registry  Service
	metrics   *metrics.Metrics
	validator middleware.PrincipalValidator
}

// New creates a registry Handler.
func New(registry Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.PrincipalValidator) *Handler {
	return &Handler{
		logger:    logger,
		registry:  registry,
		metrics:   m,
		validator: validator,
	}
}

// Register mounts the registry routes on the given router.
func (h *Handler) Register(r chi.Router) {
	registryRouter := chi.NewRouter()
	registryRouter.Use(middleware.Recovery(h.logger))
	registryRouter.Use(middleware.RequestID)
	registryRouter.Use(middleware.RequestTime)
	registryRouter.Use(middleware.Logger(h.logger))
	registryRouter.Use(middleware.Timeout(30 * time.Second))
	registryRouter.Use(middleware.ContentTypeJSON)
	registryRouter.Use(middleware.Latency(h.metrics))
	registryRouter.Use(middleware.RequireAuth(h.validator, h.logger))

	registryRouter.Post("/registry/ips", h.handleAllotIP)
	registryRouter.Get("/registry/ips/{ip}", h.handleLookupIP)
	registryRouter.Post("/registry/domains", h.handleAssignDomain)
	registryRouter.Get("/registry/domains/{domain}", h.handleReadDomain)
	registryRouter.Post("/registry/domains/{domain}/buy", h.handleBuyDomain)
	registryRouter.Post("/registry/domains/{domain}/transfer", h.handleTransferDomain)
	registryRouter.Post("/registry/fees/withdraw", h.handleWithdrawFees)
	registryRouter.Get("/registry/fees", h.handleFeeBalance)

	r.Mount("/", registryRouter)
}

type allotIPRequest struct {
	IP          string `json:"ip"`
	WebsiteCode string `json:"website_code"`
	Owner       string `json:"owner,omitempty"`
}

type ipResponse struct {
	IP          string `json:"ip"`
	WebsiteCode string `json:"website_code"`
	Owner       string `json:"owner"`
}

func (h *Handler) handleAllotIP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req allotIPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	owner, err := h.ownerOrCaller(ctx, req.Owner)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.registry.AllotIP(ctx, req.IP, req.WebsiteCode, owner)
	if err != nil {
		h.logFailure(ctx, "allot ip failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, ipResponse{
		IP:          record.IP,
		WebsiteCode: record.WebsiteCode,
		Owner:       record.Owner.String(),
	})
}

func (h *Handler) handleLookupIP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := h.registry.LookupIP(ctx, chi.URLParam(r, "ip"))
	if err != nil {
		h.logFailure(ctx, "lookup ip failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ipResponse{
		IP:          record.IP,
		WebsiteCode: record.WebsiteCode,
		Owner:       record.Owner.String(),
	})
}

type assignDomainRequest struct {
	Domain      string `json:"domain"`
	IP          string `json:"ip"`
	WebsiteCode string `json:"website_code"`
	Owner       string `json:"owner,omitempty"`
}

type domainResponse struct {
	Domain      string `json:"domain"`
	IP          string `json:"ip,omitempty"`
	Owner       string `json:"owner"`
	WebsiteCode string `json:"website_code,omitempty"`
	ExpiresAt   string `json:"expires_at"`
	ExpiresAtMS int64  `json:"expires_at_ms"`
}

func (h *Handler) handleAssignDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req assignDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	owner, err := h.ownerOrCaller(ctx, req.Owner)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.registry.AssignDomain(ctx, req.Domain, req.IP, req.WebsiteCode, owner, requestcontext.Now(ctx))
	if err != nil {
		h.logFailure(ctx, "assign domain failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, domainResponse{
		Domain:      record.Name,
		IP:          record.IP,
		Owner:       record.Owner.String(),
		ExpiresAt:   record.ExpiresAt.Format(time.RFC3339Nano),
		ExpiresAtMS: record.ExpiresAt.UnixMilli(),
	})
}

func (h *Handler) handleReadDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.registry.ReadDomain(ctx, chi.URLParam(r, "domain"), requestcontext.Now(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, domainResponse{
		Domain:      chi.URLParam(r, "domain"),
		Owner:       view.Owner.String(),
		WebsiteCode: view.WebsiteCode,
		ExpiresAt:   view.ExpiresAt.Format(time.RFC3339Nano),
		ExpiresAtMS: view.ExpiresAt.UnixMilli(),
	})
}

type buyDomainRequest struct {
	Payment uint64 `json:"payment"`
}

type buyDomainResponse struct {
	Domain string `json:"domain"`
	Owner  string `json:"owner"`
	Price  uint64 `json:"price"`
	Refund uint64 `json:"refund"`
}

func (h *Handler) handleBuyDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyer := middleware.GetPrincipal(ctx)
	if buyer.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller principal is required"))
		return
	}

	var req buyDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	domain := chi.URLParam(r, "domain")
	refund, err := h.registry.BuyDomain(ctx, domain, id.NewFunds(req.Payment), buyer)
	if err != nil {
		h.logFailure(ctx, "buy domain failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, buyDomainResponse{
		Domain: domain,
		Owner:  buyer.String(),
		Price:  req.Payment - refund.Value(),
		Refund: refund.Value(),
	})
}

type transferDomainRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *Handler) handleTransferDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller := middleware.GetPrincipal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller principal is required"))
		return
	}

	var req transferDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	newOwner, err := id.ParsePrincipal(req.NewOwner)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.registry.TransferDomain(ctx, chi.URLParam(r, "domain"), newOwner, caller)
	if err != nil {
		h.logFailure(ctx, "transfer domain failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, domainResponse{
		Domain:      record.Name,
		IP:          record.IP,
		Owner:       record.Owner.String(),
		ExpiresAt:   record.ExpiresAt.Format(time.RFC3339Nano),
		ExpiresAtMS: record.ExpiresAt.UnixMilli(),
	})
}

type withdrawFeesRequest struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}

type withdrawFeesResponse struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`
}

func (h *Handler) handleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller := middleware.GetPrincipal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller principal is required"))
		return
	}

	var req withdrawFeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	recipient, err := id.ParsePrincipal(req.Recipient)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	payout, err := h.registry.WithdrawFees(ctx, req.Amount, recipient, caller)
	if err != nil {
		h.logFailure(ctx, "withdraw fees failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, withdrawFeesResponse{
		Amount:    payout.Value(),
		Recipient: recipient.String(),
	})
}

type feeBalanceResponse struct {
	Balance uint64 `json:"balance"`
}

func (h *Handler) handleFeeBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller := middleware.GetPrincipal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "caller principal is required"))
		return
	}

	balance, err := h.registry.FeeBalance(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, feeBalanceResponse{Balance: balance})
}

// ownerOrCaller resolves the record owner: an explicit owner field wins,
// otherwise the authenticated caller owns the record.
func (h *Handler) ownerOrCaller(ctx context.Context, explicit string) (id.Principal, error) {
	if explicit != "" {
		return id.ParsePrincipal(explicit)
	}
	caller := middleware.GetPrincipal(ctx)
	if caller.IsZero() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "caller principal is required")
	}
	return caller, nil
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
