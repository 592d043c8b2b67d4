// Package service implements the registry orchestrator. It is the only
// component that mutates the IP store, the domain store, and the fee ledger,
// and it composes their single-key operations under the registry invariants.
//
// Every operation runs as one unit of work: all checks precede all writes,
// and a failure aborts the call with no partial state change. Against
// Postgres the unit of work is a database transaction; against the memory
// stores it is a registry-wide critical section.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"namemarket/internal/platform/config"
	"namemarket/internal/registry/cache"
	regmetrics "namemarket/internal/registry/metrics"
	"namemarket/internal/registry/models"
	id "namemarket/pkg/domain"
	dErrors "namemarket/pkg/domain-errors"
	"namemarket/pkg/platform/events"
	"namemarket/pkg/platform/sentinel"
	"namemarket/pkg/platform/tx"
	"namemarket/pkg/requestcontext"
)

// IPStore is the keyed store of IP records.
type IPStore interface {
	CreateIfAbsent(ctx context.Context, record *models.IPRecord) error
	FindByIP(ctx context.Context, ip string) (*models.IPRecord, error)
}

// DomainStore is the keyed store of domain records. Execute runs a
// check-then-mutate sequence atomically against the named record.
type DomainStore interface {
	CreateIfAbsent(ctx context.Context, record *models.DomainRecord) error
	FindByName(ctx context.Context, name string) (*models.DomainRecord, error)
	Execute(
		ctx context.Context,
		name string,
		validate func(*models.DomainRecord) error,
		mutate func(*models.DomainRecord),
	) (*models.DomainRecord, error)
}

// LedgerStore is the fee accumulator.
type LedgerStore interface {
	Credit(ctx context.Context, amount uint64) error
	DebitIfAvailable(ctx context.Context, amount uint64) error
	Balance(ctx context.Context) (uint64, error)
}

// EventPublisher emits registry change notifications for external indexers.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
}

// DomainCache is the optional read-through cache for domain views.
type DomainCache interface {
	Get(ctx context.Context, name string) (cache.DomainView, bool)
	Set(ctx context.Context, name string, view cache.DomainView) error
	Invalidate(ctx context.Context, name string) error
}

// DomainView is what a successful domain read returns.
type DomainView = cache.DomainView

// Service orchestrates registry operations.
type Service struct {
	ips     IPStore
	domains DomainStore
	ledger  LedgerStore

	admin id.Principal
	price uint64
	term  time.Duration

	txr     tx.Runner
	events  EventPublisher
	cache   DomainCache
	logger  *slog.Logger
	metrics *regmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *regmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

func WithCache(c DomainCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		s.txr = r
	}
}

// New constructs the registry service. The admin principal and domain price
// come from configuration; neither is ever a literal in operation code.
func New(ips IPStore, domains DomainStore, ledger LedgerStore, admin id.Principal, price uint64, opts ...Option) *Service {
	s := &Service{
		ips:     ips,
		domains: domains,
		ledger:  ledger,
		admin:   admin,
		price:   price,
		term:    config.RegistrationTerm,
		txr:     tx.NewMemoryRunner(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DomainPrice returns the fixed purchase price in base units.
func (s *Service) DomainPrice() uint64 {
	return s.price
}

// AllotIP inserts a new IP record. No payment is required and any
// authenticated principal may call it; gating allotment behind the admin is
// deliberately out of scope.
func (s *Service) AllotIP(ctx context.Context, ipAddr, websiteCode string, owner id.Principal) (*models.IPRecord, error) {
	record, err := models.NewIPRecord(ipAddr, websiteCode, owner, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ips.CreateIfAbsent(txCtx, record); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "ip address already allotted")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allot ip")
		}
		return s.emit(txCtx, events.Event{
			Kind:  events.KindIPAllotted,
			IP:    record.IP,
			Owner: record.Owner,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IPsAllotted.Inc()
	}
	s.logger.InfoContext(ctx, "ip allotted",
		"ip", record.IP,
		"owner", record.Owner.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// LookupIP returns the record keyed by ip.
func (s *Service) LookupIP(ctx context.Context, ipAddr string) (*models.IPRecord, error) {
	normalized, err := models.NormalizeIP(ipAddr)
	if err != nil {
		return nil, err
	}
	record, err := s.ips.FindByIP(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "ip not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up ip")
	}
	return record, nil
}

// AssignDomain binds a domain name to an IP for the fixed registration term.
// An unknown IP is allotted as a side effect with the supplied content and
// owner; when the IP already exists those inputs are silently ignored.
func (s *Service) AssignDomain(ctx context.Context, domain, ipAddr, websiteCode string, owner id.Principal, now time.Time) (*models.DomainRecord, error) {
	record, err := models.NewDomainRecord(domain, ipAddr, owner, now, s.term)
	if err != nil {
		return nil, err
	}

	var allottedIP *models.IPRecord
	err = s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.domains.FindByName(txCtx, record.Name); err == nil {
			return dErrors.New(dErrors.CodeConflict, "domain already assigned")
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check domain")
		}

		// Composed sub-operation: allot the IP when absent. Its failure
		// aborts the whole assignment.
		if _, err := s.ips.FindByIP(txCtx, record.IP); err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check ip")
			}
			ipRecord, err := models.NewIPRecord(record.IP, websiteCode, owner, now)
			if err != nil {
				return err
			}
			if err := s.ips.CreateIfAbsent(txCtx, ipRecord); err != nil && !errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allot ip")
			} else if err == nil {
				allottedIP = ipRecord
				if err := s.emit(txCtx, events.Event{
					Kind:  events.KindIPAllotted,
					IP:    ipRecord.IP,
					Owner: ipRecord.Owner,
				}); err != nil {
					return err
				}
			}
		}

		if err := s.domains.CreateIfAbsent(txCtx, record); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "domain already assigned")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign domain")
		}
		return s.emit(txCtx, events.Event{
			Kind:      events.KindDomainAssigned,
			Domain:    record.Name,
			IP:        record.IP,
			Owner:     record.Owner,
			ExpiresAt: record.ExpiresAt,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DomainsAssigned.Inc()
		if allottedIP != nil {
			s.metrics.IPsAllotted.Inc()
		}
	}
	s.logger.InfoContext(ctx, "domain assigned",
		"domain", record.Name,
		"ip", record.IP,
		"owner", record.Owner.String(),
		"expires_at", record.ExpiresAt,
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// Read not-found causes. External callers see one opaque not-found; the cause
// shows up only in logs and metrics.
const (
	causeAbsent   = "absent"
	causeExpired  = "expired"
	causeDangling = "dangling_ip"
)

// ReadDomain resolves a domain to its owner, content, and expiry. It fails
// with not-found when the name is absent, when the record has logically
// expired, or when the bound IP no longer exists.
func (s *Service) ReadDomain(ctx context.Context, domain string, now time.Time) (DomainView, error) {
	name, err := models.NormalizeDomainName(domain)
	if err != nil {
		return DomainView{}, err
	}

	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, name); ok {
			if !now.Before(view.ExpiresAt) {
				return DomainView{}, s.readNotFound(ctx, name, causeExpired)
			}
			return view, nil
		}
	}

	record, err := s.domains.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return DomainView{}, s.readNotFound(ctx, name, causeAbsent)
		}
		return DomainView{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read domain")
	}
	if record.IsExpired(now) {
		return DomainView{}, s.readNotFound(ctx, name, causeExpired)
	}

	ipRecord, err := s.ips.FindByIP(ctx, record.IP)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return DomainView{}, s.readNotFound(ctx, name, causeDangling)
		}
		return DomainView{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read domain")
	}

	view := DomainView{
		Owner:       record.Owner,
		WebsiteCode: ipRecord.WebsiteCode,
		ExpiresAt:   record.ExpiresAt,
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, name, view); err != nil {
			s.logger.WarnContext(ctx, "failed to cache domain view",
				"domain", name,
				"error", err.Error(),
			)
		}
	}
	return view, nil
}

// readNotFound records the internal cause and returns the single external
// not-found error all three causes collapse into.
func (s *Service) readNotFound(ctx context.Context, name, cause string) error {
	if s.metrics != nil {
		s.metrics.ReadNotFound.WithLabelValues(cause).Inc()
	}
	s.logger.DebugContext(ctx, "domain read failed",
		"domain", name,
		"cause", cause,
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeNotFound, "domain not found")
}

// BuyDomain reassigns ownership to the buyer for the fixed price. Exactly the
// price is credited to the fee ledger; the rest of the payment comes back as
// the refund, which may legitimately be zero. Expiry is neither checked nor
// extended.
func (s *Service) BuyDomain(ctx context.Context, domain string, payment id.Funds, buyer id.Principal) (id.Funds, error) {
	name, err := models.NormalizeDomainName(domain)
	if err != nil {
		return id.Funds{}, err
	}
	if buyer.IsZero() {
		return id.Funds{}, dErrors.New(dErrors.CodeInvalidInput, "buyer principal cannot be empty")
	}

	var refund id.Funds
	err = s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		record, err := s.domains.Execute(txCtx, name,
			func(record *models.DomainRecord) error {
				if err := record.CanPurchase(buyer); err != nil {
					return err
				}
				if payment.Value() < s.price {
					return dErrors.New(dErrors.CodeInsufficientFunds, "payment below domain price")
				}
				return nil
			},
			func(record *models.DomainRecord) {
				record.ApplyPurchase(buyer)
			},
		)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "domain not found")
			}
			if dErrors.HasCode(err, dErrors.CodeAlreadyOwner) || dErrors.HasCode(err, dErrors.CodeInsufficientFunds) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to buy domain")
		}

		// Split cannot fail here: validation already proved payment >= price.
		fee, remainder, err := payment.Split(s.price)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "payment split failed")
		}
		if err := s.ledger.Credit(txCtx, fee.Value()); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect fee")
		}
		refund = remainder

		return s.emit(txCtx, events.Event{
			Kind:     events.KindDomainPurchased,
			Domain:   record.Name,
			NewOwner: buyer,
			Price:    s.price,
		})
	})
	if err != nil {
		return id.Funds{}, err
	}

	s.invalidateCachedDomain(ctx, name)
	if s.metrics != nil {
		s.metrics.DomainsPurchased.Inc()
		s.metrics.FeesCollected.Add(float64(s.price))
	}
	s.refreshBalanceGauge(ctx)
	s.logger.InfoContext(ctx, "domain purchased",
		"domain", name,
		"buyer", buyer.String(),
		"price", s.price,
		"refund", refund.Value(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return refund, nil
}

// TransferDomain hands ownership to newOwner. Only the current owner may
// call it. No payment, no expiry change, and no expiry check.
func (s *Service) TransferDomain(ctx context.Context, domain string, newOwner, caller id.Principal) (*models.DomainRecord, error) {
	name, err := models.NormalizeDomainName(domain)
	if err != nil {
		return nil, err
	}
	if newOwner.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "new owner principal cannot be empty")
	}
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller principal is required")
	}

	var record *models.DomainRecord
	err = s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		record, err = s.domains.Execute(txCtx, name,
			func(record *models.DomainRecord) error {
				return record.CanTransfer(caller)
			},
			func(record *models.DomainRecord) {
				record.ApplyTransfer(newOwner)
			},
		)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "domain not found")
			}
			if dErrors.HasCode(err, dErrors.CodeNotOwner) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to transfer domain")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCachedDomain(ctx, name)
	if s.metrics != nil {
		s.metrics.DomainsTransferred.Inc()
	}
	s.logger.InfoContext(ctx, "domain transferred",
		"domain", name,
		"new_owner", newOwner.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// WithdrawFees debits the fee ledger and returns the payout for the
// recipient. Admin only; a withdrawal above the balance fails and leaves the
// ledger unchanged.
func (s *Service) WithdrawFees(ctx context.Context, amount uint64, recipient, caller id.Principal) (id.Funds, error) {
	if caller != s.admin {
		return id.Funds{}, dErrors.New(dErrors.CodeNotAdmin, "caller is not the registry admin")
	}
	if recipient.IsZero() {
		return id.Funds{}, dErrors.New(dErrors.CodeInvalidInput, "recipient principal cannot be empty")
	}

	err := s.txr.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.DebitIfAvailable(txCtx, amount); err != nil {
			if errors.Is(err, sentinel.ErrInsufficient) {
				return dErrors.New(dErrors.CodeInsufficientFunds, "withdrawal exceeds fee balance")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw fees")
		}
		return s.emit(txCtx, events.Event{
			Kind:     events.KindFeesWithdrawn,
			NewOwner: recipient,
			Amount:   amount,
		})
	})
	if err != nil {
		return id.Funds{}, err
	}

	if s.metrics != nil {
		s.metrics.FeesWithdrawn.Add(float64(amount))
	}
	s.refreshBalanceGauge(ctx)
	s.logger.InfoContext(ctx, "fees withdrawn",
		"amount", amount,
		"recipient", recipient.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return id.NewFunds(amount), nil
}

// FeeBalance reports the current ledger balance. Admin only.
func (s *Service) FeeBalance(ctx context.Context, caller id.Principal) (uint64, error) {
	if caller != s.admin {
		return 0, dErrors.New(dErrors.CodeNotAdmin, "caller is not the registry admin")
	}
	balance, err := s.ledger.Balance(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read fee balance")
	}
	return balance, nil
}

func (s *Service) emit(ctx context.Context, event events.Event) error {
	if s.events == nil {
		return nil
	}
	event.At = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.events.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to emit event")
	}
	return nil
}

func (s *Service) invalidateCachedDomain(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, name); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate cached domain",
			"domain", name,
			"error", err.Error(),
		)
	}
}

func (s *Service) refreshBalanceGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if balance, err := s.ledger.Balance(ctx); err == nil {
		s.metrics.FeeBalance.Set(float64(balance))
	}
}
