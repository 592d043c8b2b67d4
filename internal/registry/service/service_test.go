package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namemarket/internal/registry/service"
	domainstore "namemarket/internal/registry/store/domainrec"
	ipstore "namemarket/internal/registry/store/ip"
	ledgerstore "namemarket/internal/registry/store/ledger"
	id "namemarket/pkg/domain"
	dErrors "namemarket/pkg/domain-errors"
	"namemarket/pkg/platform/events"
	eventspublisher "namemarket/pkg/platform/events/publisher"
	eventsmemory "namemarket/pkg/platform/events/store/memory"
	"namemarket/pkg/platform/sentinel"
)

const testPrice uint64 = 1_000_000_000

var (
	admin  = id.Principal("registry-admin")
	ownerA = id.Principal("owner-a")
	buyerB = id.Principal("buyer-b")
)

type fixture struct {
	svc    *service.Service
	ips    *ipstore.InMemory
	doms   *domainstore.InMemory
	ledger *ledgerstore.InMemory
	events *eventsmemory.InMemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ips:    ipstore.NewInMemory(),
		doms:   domainstore.NewInMemory(),
		ledger: ledgerstore.NewInMemory(),
		events: eventsmemory.NewInMemoryStore(),
	}
	publisher := eventspublisher.NewPublisher(f.events)
	t.Cleanup(publisher.Close)
	f.svc = service.New(f.ips, f.doms, f.ledger, admin, testPrice,
		service.WithEventPublisher(publisher),
	)
	return f
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func (f *fixture) assign(t *testing.T, domain, ip, code string, owner id.Principal, now time.Time) {
	t.Helper()
	_, err := f.svc.AssignDomain(context.Background(), domain, ip, code, owner, now)
	require.NoError(t, err)
}

func TestAllotIP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.svc.AllotIP(ctx, "192.168.1.1", "<html>a</html>", ownerA)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.1", record.IP)
	assert.Equal(t, ownerA, record.Owner)

	t.Run("rejects duplicate ip", func(t *testing.T) {
		_, err := f.svc.AllotIP(ctx, "192.168.1.1", "other", buyerB)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("lookup returns the record", func(t *testing.T) {
		found, err := f.svc.LookupIP(ctx, "192.168.1.1")
		require.NoError(t, err)
		assert.Equal(t, "<html>a</html>", found.WebsiteCode)
	})

	t.Run("lookup of unknown ip fails", func(t *testing.T) {
		_, err := f.svc.LookupIP(ctx, "10.0.0.9")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("rejects malformed ip", func(t *testing.T) {
		_, err := f.svc.AllotIP(ctx, "not-an-ip", "x", ownerA)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("emits ip_allotted", func(t *testing.T) {
		emitted, err := f.events.ListBySubject(ctx, "192.168.1.1")
		require.NoError(t, err)
		require.Len(t, emitted, 1)
		assert.Equal(t, events.KindIPAllotted, emitted[0].Kind)
		assert.Equal(t, ownerA, emitted[0].Owner)
	})
}

func TestAssignDomain(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns with exact 365 day expiry", func(t *testing.T) {
		f := newFixture(t)
		record, err := f.svc.AssignDomain(ctx, "example.com", "192.168.1.1", "<html>test</html>", ownerA, t0)
		require.NoError(t, err)
		assert.Equal(t, t0.Add(365*24*time.Hour), record.ExpiresAt)
		assert.Equal(t, t0.UnixMilli()+31_536_000_000, record.ExpiresAt.UnixMilli())
	})

	t.Run("second assignment of the same name fails", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "a", ownerA, t0)
		_, err := f.svc.AssignDomain(ctx, "example.com", "10.0.0.1", "b", buyerB, t0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("unknown ip is allotted as a side effect", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "<html>test</html>", ownerA, t0)

		ipRecord, err := f.svc.LookupIP(ctx, "192.168.1.1")
		require.NoError(t, err)
		assert.Equal(t, "<html>test</html>", ipRecord.WebsiteCode)
		assert.Equal(t, ownerA, ipRecord.Owner)

		emitted, err := f.events.ListBySubject(ctx, "192.168.1.1")
		require.NoError(t, err)
		require.Len(t, emitted, 1)
		assert.Equal(t, events.KindIPAllotted, emitted[0].Kind)
	})

	t.Run("existing ip keeps its content and owner", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AllotIP(ctx, "192.168.1.1", "original", ownerA)
		require.NoError(t, err)

		f.assign(t, "example.com", "192.168.1.1", "ignored", buyerB, t0)

		ipRecord, err := f.svc.LookupIP(ctx, "192.168.1.1")
		require.NoError(t, err)
		assert.Equal(t, "original", ipRecord.WebsiteCode)
		assert.Equal(t, ownerA, ipRecord.Owner)

		view, err := f.svc.ReadDomain(ctx, "example.com", t0)
		require.NoError(t, err)
		assert.Equal(t, buyerB, view.Owner)
		assert.Equal(t, "original", view.WebsiteCode)
	})

	t.Run("losing a concurrent assignment leaves no partial state", func(t *testing.T) {
		f := newFixture(t)

		addrs := []string{"10.0.0.1", "10.0.0.2"}
		errs := make([]error, len(addrs))
		var wg sync.WaitGroup
		for i := range addrs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.AssignDomain(ctx, "example.com", addrs[i], "x", ownerA, t0)
			}(i)
		}
		wg.Wait()

		var conflicts int
		for _, err := range errs {
			if err != nil {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
				conflicts++
			}
		}
		require.Equal(t, 1, conflicts, "exactly one of the two assignments must lose")

		record, err := f.doms.FindByName(ctx, "example.com")
		require.NoError(t, err)

		// The losing call must not have allotted its IP or emitted anything.
		for _, addr := range addrs {
			if addr == record.IP {
				_, err := f.ips.FindByIP(ctx, addr)
				require.NoError(t, err)
				continue
			}
			_, err := f.ips.FindByIP(ctx, addr)
			require.ErrorIs(t, err, sentinel.ErrNotFound)
			emitted, err := f.events.ListBySubject(ctx, addr)
			require.NoError(t, err)
			assert.Empty(t, emitted)
		}
		emitted, err := f.events.ListBySubject(ctx, record.IP)
		require.NoError(t, err)
		require.Len(t, emitted, 1)
		assert.Equal(t, events.KindIPAllotted, emitted[0].Kind)
	})

	t.Run("emits domain_assigned", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)
		emitted, err := f.events.ListBySubject(ctx, "example.com")
		require.NoError(t, err)
		require.Len(t, emitted, 1)
		assert.Equal(t, events.KindDomainAssigned, emitted[0].Kind)
		assert.Equal(t, t0.Add(365*24*time.Hour), emitted[0].ExpiresAt)
	})
}

func TestReadDomain(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the exact assigned triple", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "<html>test</html>", ownerA, t0)

		view, err := f.svc.ReadDomain(ctx, "example.com", t0)
		require.NoError(t, err)
		assert.Equal(t, ownerA, view.Owner)
		assert.Equal(t, "<html>test</html>", view.WebsiteCode)
		assert.Equal(t, t0.Add(365*24*time.Hour), view.ExpiresAt)
	})

	t.Run("absent domain fails", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ReadDomain(ctx, "missing.com", t0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("succeeds until the expiry instant and fails from it", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)
		expiry := t0.Add(365 * 24 * time.Hour)

		_, err := f.svc.ReadDomain(ctx, "example.com", expiry.Add(-time.Millisecond))
		require.NoError(t, err)

		_, err = f.svc.ReadDomain(ctx, "example.com", expiry)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		_, err = f.svc.ReadDomain(ctx, "example.com", expiry.Add(time.Second))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("expired record stays stored", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		_, err := f.svc.ReadDomain(ctx, "example.com", t0.Add(366*24*time.Hour))
		require.Error(t, err)

		record, err := f.doms.FindByName(ctx, "example.com")
		require.NoError(t, err)
		assert.Equal(t, ownerA, record.Owner)
	})

	t.Run("dangling ip reference reads as not found", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)
		require.NoError(t, f.ips.Purge(ctx, "192.168.1.1"))

		_, err := f.svc.ReadDomain(ctx, "example.com", t0)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestBuyDomain(t *testing.T) {
	ctx := context.Background()

	t.Run("exact payment buys with zero refund", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		refund, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice), buyerB)
		require.NoError(t, err)
		assert.True(t, refund.IsZero())

		view, err := f.svc.ReadDomain(ctx, "example.com", t0)
		require.NoError(t, err)
		assert.Equal(t, buyerB, view.Owner)

		balance, err := f.ledger.Balance(ctx)
		require.NoError(t, err)
		assert.Equal(t, testPrice, balance)
	})

	t.Run("overpayment refunds the difference exactly", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		refund, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice+250), buyerB)
		require.NoError(t, err)
		assert.Equal(t, uint64(250), refund.Value())

		balance, err := f.ledger.Balance(ctx)
		require.NoError(t, err)
		assert.Equal(t, testPrice, balance, "ledger must gain exactly the price")
	})

	t.Run("underpayment fails and changes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		_, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice-1), buyerB)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

		view, err := f.svc.ReadDomain(ctx, "example.com", t0)
		require.NoError(t, err)
		assert.Equal(t, ownerA, view.Owner)

		balance, err := f.ledger.Balance(ctx)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("self purchase always fails and changes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		_, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice*2), ownerA)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyOwner))

		view, err := f.svc.ReadDomain(ctx, "example.com", t0)
		require.NoError(t, err)
		assert.Equal(t, ownerA, view.Owner)

		balance, err := f.ledger.Balance(ctx)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("absent domain fails not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.BuyDomain(ctx, "missing.com", id.NewFunds(testPrice), buyerB)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("purchase does not reset expiry", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		_, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice), buyerB)
		require.NoError(t, err)

		record, err := f.doms.FindByName(ctx, "example.com")
		require.NoError(t, err)
		assert.Equal(t, t0.Add(365*24*time.Hour), record.ExpiresAt)
	})

	t.Run("expired domain is still purchasable", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		// Reads refuse the expired record while ownership changes ignore
		// expiry entirely.
		afterExpiry := t0.Add(366 * 24 * time.Hour)
		_, err := f.svc.ReadDomain(ctx, "example.com", afterExpiry)
		require.Error(t, err)

		refund, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice), buyerB)
		require.NoError(t, err)
		assert.True(t, refund.IsZero())

		record, err := f.doms.FindByName(ctx, "example.com")
		require.NoError(t, err)
		assert.Equal(t, buyerB, record.Owner)
	})

	t.Run("emits domain_purchased with the fixed price", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		_, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice+7), buyerB)
		require.NoError(t, err)

		emitted, err := f.events.ListBySubject(ctx, "example.com")
		require.NoError(t, err)
		require.Len(t, emitted, 2)
		assert.Equal(t, events.KindDomainPurchased, emitted[1].Kind)
		assert.Equal(t, buyerB, emitted[1].NewOwner)
		assert.Equal(t, testPrice, emitted[1].Price)
	})
}

func TestTransferDomain(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can transfer", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		record, err := f.svc.TransferDomain(ctx, "example.com", buyerB, ownerA)
		require.NoError(t, err)
		assert.Equal(t, buyerB, record.Owner)
		assert.Equal(t, t0.Add(365*24*time.Hour), record.ExpiresAt, "transfer must not touch expiry")
	})

	t.Run("non-owner cannot transfer", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		_, err := f.svc.TransferDomain(ctx, "example.com", buyerB, buyerB)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotOwner))

		record, err := f.doms.FindByName(ctx, "example.com")
		require.NoError(t, err)
		assert.Equal(t, ownerA, record.Owner)
	})

	t.Run("absent domain fails not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.TransferDomain(ctx, "missing.com", buyerB, ownerA)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("expired domain is still transferable", func(t *testing.T) {
		f := newFixture(t)
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)

		// Prove the record is past expiry for reads before transferring it.
		afterExpiry := t0.Add(366 * 24 * time.Hour)
		_, err := f.svc.ReadDomain(ctx, "example.com", afterExpiry)
		require.Error(t, err)

		record, err := f.svc.TransferDomain(ctx, "example.com", buyerB, ownerA)
		require.NoError(t, err)
		assert.Equal(t, buyerB, record.Owner)
		assert.Equal(t, t0.Add(365*24*time.Hour), record.ExpiresAt)
	})
}

func TestWithdrawFees(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *fixture) {
		t.Helper()
		f.assign(t, "example.com", "192.168.1.1", "x", ownerA, t0)
		_, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice), buyerB)
		require.NoError(t, err)
	}

	t.Run("non-admin cannot withdraw", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		_, err := f.svc.WithdrawFees(ctx, 1, ownerA, ownerA)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAdmin))
	})

	t.Run("withdrawal above balance fails and leaves balance unchanged", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		_, err := f.svc.WithdrawFees(ctx, testPrice+1, admin, admin)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))

		balance, err := f.ledger.Balance(ctx)
		require.NoError(t, err)
		assert.Equal(t, testPrice, balance)
	})

	t.Run("admin withdraws up to the balance", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		payout, err := f.svc.WithdrawFees(ctx, testPrice, ownerA, admin)
		require.NoError(t, err)
		assert.Equal(t, testPrice, payout.Value())

		balance, err := f.ledger.Balance(ctx)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("balance is admin-gated", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		_, err := f.svc.FeeBalance(ctx, ownerA)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotAdmin))

		balance, err := f.svc.FeeBalance(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, testPrice, balance)
	})
}

// TestMarketplaceScenario walks the reference flow end to end: assignment,
// read-back, blocked self-purchase, exact-price purchase, and read after
// expiry.
func TestMarketplaceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.assign(t, "example.com", "192.168.1.1", "<html>test</html>", ownerA, t0)

	view, err := f.svc.ReadDomain(ctx, "example.com", t0)
	require.NoError(t, err)
	assert.Equal(t, ownerA, view.Owner)
	assert.Equal(t, "<html>test</html>", view.WebsiteCode)
	assert.Equal(t, t0.UnixMilli()+31_536_000_000, view.ExpiresAt.UnixMilli())

	_, err = f.svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice), ownerA)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyOwner))

	refund, err := f.svc.BuyDomain(ctx, "example.com", id.NewFunds(1_000_000_000), buyerB)
	require.NoError(t, err)
	assert.True(t, refund.IsZero())

	view, err = f.svc.ReadDomain(ctx, "example.com", t0)
	require.NoError(t, err)
	assert.Equal(t, buyerB, view.Owner)

	balance, err := f.ledger.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), balance)

	_, err = f.svc.ReadDomain(ctx, "example.com", t0.Add(31_536_001_000*time.Millisecond))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
