package models

import (
	"net"
	"strings"
	"time"

	id "namemarket/pkg/domain"
	dErrors "namemarket/pkg/domain-errors"
)

// MaxDomainNameLen caps domain name keys. 253 matches the DNS limit even
// though this registry does not resolve names itself.
const MaxDomainNameLen = 253

// IPRecord binds an IP address to hosted content and an owner.
//
// Invariants:
//   - IP is a parseable IPv4/IPv6 address and unique within the store
//   - WebsiteCode is fixed at allocation time; no public mutator exists
//   - Owner is non-zero
type IPRecord struct {
	IP          string       `json:"ip"`
	WebsiteCode string       `json:"website_code"`
	Owner       id.Principal `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewIPRecord validates inputs and constructs an IP record.
func NewIPRecord(ip, websiteCode string, owner id.Principal, now time.Time) (*IPRecord, error) {
	normalized, err := NormalizeIP(ip)
	if err != nil {
		return nil, err
	}
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ip record owner cannot be empty")
	}
	return &IPRecord{
		IP:          normalized,
		WebsiteCode: websiteCode,
		Owner:       owner,
		CreatedAt:   now,
	}, nil
}

// NormalizeIP validates and canonicalizes an IP address key.
func NormalizeIP(ip string) (string, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid ip address")
	}
	return parsed.String(), nil
}

// DomainRecord binds a domain name to an IP address for a fixed term.
//
// Invariants:
//   - Name is unique within the store while the record exists
//   - ExpiresAt is always AssignedAt plus the fixed registration term
//   - Owner is non-zero
//
// Expiry is logical: an expired record stays stored and keeps its key. Reads
// refuse it; ownership changes do not consult it.
type DomainRecord struct {
	Name       string       `json:"name"`
	IP         string       `json:"ip"`
	Owner      id.Principal `json:"owner"`
	AssignedAt time.Time    `json:"assigned_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
}

// NewDomainRecord validates inputs and constructs a domain record whose
// expiry is exactly now plus term.
func NewDomainRecord(name, ip string, owner id.Principal, now time.Time, term time.Duration) (*DomainRecord, error) {
	normalizedName, err := NormalizeDomainName(name)
	if err != nil {
		return nil, err
	}
	normalizedIP, err := NormalizeIP(ip)
	if err != nil {
		return nil, err
	}
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "domain record owner cannot be empty")
	}
	return &DomainRecord{
		Name:       normalizedName,
		IP:         normalizedIP,
		Owner:      owner,
		AssignedAt: now,
		ExpiresAt:  now.Add(term),
	}, nil
}

// NormalizeDomainName validates and canonicalizes a domain name key.
func NormalizeDomainName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "domain name cannot be empty")
	}
	if len(name) > MaxDomainNameLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "domain name is too long")
	}
	if strings.ContainsAny(name, " \t\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "domain name cannot contain whitespace")
	}
	return name, nil
}

// IsExpired reports whether the record has logically expired at now.
// A record expires the instant now reaches ExpiresAt.
func (d *DomainRecord) IsExpired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// CanPurchase checks the self-purchase guard. Expiry is deliberately not
// checked here: purchases of expired records are allowed, matching the
// read/ownership asymmetry this registry preserves.
// Use with ApplyPurchase in Execute callbacks.
func (d *DomainRecord) CanPurchase(buyer id.Principal) error {
	if d.Owner == buyer {
		return dErrors.New(dErrors.CodeAlreadyOwner, "buyer already owns this domain")
	}
	return nil
}

// ApplyPurchase reassigns ownership to the buyer. Expiry is untouched; a
// purchase does not extend the registration term.
func (d *DomainRecord) ApplyPurchase(buyer id.Principal) {
	d.Owner = buyer
}

// CanTransfer checks that the caller owns the record. Expiry is deliberately
// not checked, as with CanPurchase.
func (d *DomainRecord) CanTransfer(caller id.Principal) error {
	if d.Owner != caller {
		return dErrors.New(dErrors.CodeNotOwner, "caller does not own this domain")
	}
	return nil
}

// ApplyTransfer hands ownership to the new owner. No payment, no expiry
// change.
func (d *DomainRecord) ApplyTransfer(newOwner id.Principal) {
	d.Owner = newOwner
}
