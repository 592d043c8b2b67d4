package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"namemarket/internal/registry/models"
	"namemarket/internal/registry/service"
	"namemarket/internal/registry/service/mocks"
	id "namemarket/pkg/domain"
	dErrors "namemarket/pkg/domain-errors"
	"namemarket/pkg/platform/sentinel"
)

// Failure-path coverage: the memory stores never fail, so store and publisher
// breakage is driven through mocks here.

type mockDeps struct {
	ips    *mocks.MockIPStore
	doms   *mocks.MockDomainStore
	ledger *mocks.MockLedgerStore
	events *mocks.MockEventPublisher
}

func newMockService(t *testing.T) (*service.Service, mockDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := mockDeps{
		ips:    mocks.NewMockIPStore(ctrl),
		doms:   mocks.NewMockDomainStore(ctrl),
		ledger: mocks.NewMockLedgerStore(ctrl),
		events: mocks.NewMockEventPublisher(ctrl),
	}
	svc := service.New(deps.ips, deps.doms, deps.ledger, admin, testPrice,
		service.WithEventPublisher(deps.events),
	)
	return svc, deps
}

func TestBuyDomainLedgerCreditFailure(t *testing.T) {
	svc, deps := newMockService(t)
	ctx := context.Background()

	record := &models.DomainRecord{
		Name:       "example.com",
		IP:         "192.168.1.1",
		Owner:      ownerA,
		AssignedAt: t0,
		ExpiresAt:  t0.Add(365 * 24 * time.Hour),
	}
	deps.doms.EXPECT().
		Execute(gomock.Any(), "example.com", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, validate func(*models.DomainRecord) error, mutate func(*models.DomainRecord)) (*models.DomainRecord, error) {
			if err := validate(record); err != nil {
				return nil, err
			}
			mutate(record)
			return record, nil
		})
	deps.ledger.EXPECT().
		Credit(gomock.Any(), testPrice).
		Return(errors.New("connection reset by peer"))
	// No Emit expectation: a purchase whose fee was not collected must not
	// announce itself.

	_, err := svc.BuyDomain(ctx, "example.com", id.NewFunds(testPrice), buyerB)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestAllotIPEmitFailure(t *testing.T) {
	svc, deps := newMockService(t)

	deps.ips.EXPECT().
		CreateIfAbsent(gomock.Any(), gomock.Any()).
		Return(nil)
	deps.events.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		Return(errors.New("event store unavailable"))

	_, err := svc.AllotIP(context.Background(), "192.168.1.1", "x", ownerA)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestAssignDomainEmitFailureStopsBeforeDomainInsert(t *testing.T) {
	svc, deps := newMockService(t)

	deps.doms.EXPECT().
		FindByName(gomock.Any(), "example.com").
		Return(nil, sentinel.ErrNotFound)
	deps.ips.EXPECT().
		FindByIP(gomock.Any(), "192.168.1.1").
		Return(nil, sentinel.ErrNotFound)
	deps.ips.EXPECT().
		CreateIfAbsent(gomock.Any(), gomock.Any()).
		Return(nil)
	deps.events.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		Return(errors.New("event store unavailable"))
	// No CreateIfAbsent expectation on the domain store: the failed emit
	// aborts the assignment before the domain row is written.

	_, err := svc.AssignDomain(context.Background(), "example.com", "192.168.1.1", "x", ownerA, t0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestReadDomainStoreFailure(t *testing.T) {
	svc, deps := newMockService(t)

	deps.doms.EXPECT().
		FindByName(gomock.Any(), "example.com").
		Return(nil, errors.New("connection reset by peer"))

	_, err := svc.ReadDomain(context.Background(), "example.com", t0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeNotFound), "a broken store must not read as not found")
}

func TestWithdrawFeesDebitFailure(t *testing.T) {
	svc, deps := newMockService(t)

	deps.ledger.EXPECT().
		DebitIfAvailable(gomock.Any(), uint64(10)).
		Return(errors.New("connection reset by peer"))

	_, err := svc.WithdrawFees(context.Background(), 10, ownerA, admin)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
}
