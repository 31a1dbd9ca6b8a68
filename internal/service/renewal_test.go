package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hallms-backend/internal/clock"
	"hallms-backend/internal/domain"
	"hallms-backend/internal/service"
)

var testPolicy = service.RenewalPolicy{
	WindowDays:          90,
	DefaultExtendMonths: 12,
	MaxExtendMonths:     60,
	ResidencyYears:      5,
}

func newRenewalFixture(now time.Time) (*MockRenewalRepo, *MockAllocationRepo, *MockUserRepo, *MockNotificationRepo, service.RenewalService) {
	renewRepo := new(MockRenewalRepo)
	allocRepo := new(MockAllocationRepo)
	userRepo := new(MockUserRepo)
	noteRepo := new(MockNotificationRepo)

	svc := service.NewRenewalService(stubTxManager{}, renewRepo, allocRepo, userRepo, noteRepo, clock.NewManual(now), testPolicy)
	return renewRepo, allocRepo, userRepo, noteRepo, svc
}

func seatedWithCohortExpiry(hallID int32) *domain.Allocation {
	start := time.Date(2022, time.March, 10, 0, 0, 0, 0, time.UTC)
	// No explicit end date: expiry derives from the 2021-2022 session,
	// landing on Jan 1, 2026.
	return &domain.Allocation{ID: 42, HallID: hallID, StudentID: 7, RoomID: 3,
		StartDate: &start, Status: domain.AllocationStatusSeated}
}

func TestRenewalService_Submit(t *testing.T) {
	ctx := context.Background()
	hallID := int32(1)
	student := &domain.User{ID: 7, Session: "2021-2022"}

	t.Run("AcceptedInsideWindow", func(t *testing.T) {
		// 61 days before the Jan 1, 2026 expiry.
		now := time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)
		renewRepo, allocRepo, userRepo, noteRepo, svc := newRenewalFixture(now)

		allocRepo.On("GetSeatedByStudent", ctx, int32(7)).Return(seatedWithCohortExpiry(hallID), nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(student, nil)
		renewRepo.On("GetDecidedByAllocationYear", ctx, int32(42), 2025).Return(nil, nil)
		renewRepo.On("GetOpenByAllocationYear", ctx, int32(42), 2025).Return(nil, nil)
		renewRepo.On("Create", ctx, mock.AnythingOfType("*domain.Renewal")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Renewal).ID = 9
		}).Return(nil)
		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == nil && n.HallID == hallID
		})).Return(nil)

		renewal, err := svc.Submit(ctx, 7, hallID, "2025-2026", "renewals/doc.pdf")
		require.NoError(t, err)
		assert.Equal(t, domain.RenewalStatusPending, renewal.Status)
		assert.Equal(t, 2025, renewal.YearStart)
		assert.Equal(t, 2026, renewal.YearEnd)
	})

	t.Run("RejectedOutsideWindow", func(t *testing.T) {
		// 95 days out: too early to file.
		now := time.Date(2025, time.September, 28, 10, 0, 0, 0, time.UTC)
		_, allocRepo, userRepo, _, svc := newRenewalFixture(now)

		allocRepo.On("GetSeatedByStudent", ctx, int32(7)).Return(seatedWithCohortExpiry(hallID), nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(student, nil)

		_, err := svc.Submit(ctx, 7, hallID, "2025-2026", "renewals/doc.pdf")
		assert.ErrorIs(t, err, service.ErrRenewalWindowClosed)
	})

	t.Run("RejectedAfterExpiry", func(t *testing.T) {
		now := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
		_, allocRepo, userRepo, _, svc := newRenewalFixture(now)

		allocRepo.On("GetSeatedByStudent", ctx, int32(7)).Return(seatedWithCohortExpiry(hallID), nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(student, nil)

		_, err := svc.Submit(ctx, 7, hallID, "2025-2026", "renewals/doc.pdf")
		assert.ErrorIs(t, err, service.ErrRenewalWindowClosed)
	})

	t.Run("AttachmentRequired", func(t *testing.T) {
		now := time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)
		_, _, _, _, svc := newRenewalFixture(now)

		_, err := svc.Submit(ctx, 7, hallID, "2025-2026", "  ")
		assert.ErrorIs(t, err, service.ErrAttachmentRequired)
	})

	t.Run("PriorDecisionBlocksResubmission", func(t *testing.T) {
		now := time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)
		renewRepo, allocRepo, userRepo, _, svc := newRenewalFixture(now)

		allocRepo.On("GetSeatedByStudent", ctx, int32(7)).Return(seatedWithCohortExpiry(hallID), nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(student, nil)
		decided := &domain.Renewal{ID: 8, Status: domain.RenewalStatusRejected}
		renewRepo.On("GetDecidedByAllocationYear", ctx, int32(42), 2025).Return(decided, nil)

		_, err := svc.Submit(ctx, 7, hallID, "2025-2026", "renewals/doc.pdf")
		assert.ErrorIs(t, err, service.ErrRenewalAlreadyDecided)
	})

	t.Run("OpenRequestIsSuperseded", func(t *testing.T) {
		now := time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)
		renewRepo, allocRepo, userRepo, noteRepo, svc := newRenewalFixture(now)

		allocRepo.On("GetSeatedByStudent", ctx, int32(7)).Return(seatedWithCohortExpiry(hallID), nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(student, nil)
		renewRepo.On("GetDecidedByAllocationYear", ctx, int32(42), 2025).Return(nil, nil)
		open := &domain.Renewal{ID: 9, AllocationID: 42, YearStart: 2025, YearEnd: 2026,
			Status: domain.RenewalStatusPending, AttachmentKey: "renewals/old.pdf"}
		renewRepo.On("GetOpenByAllocationYear", ctx, int32(42), 2025).Return(open, nil)
		renewRepo.On("Update", ctx, open).Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		renewal, err := svc.Submit(ctx, 7, hallID, "2025-2026", "renewals/new.pdf")
		require.NoError(t, err)
		assert.Equal(t, int32(9), renewal.ID)
		assert.Equal(t, "renewals/new.pdf", renewal.AttachmentKey)
		renewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("NoSeatNoRenewal", func(t *testing.T) {
		now := time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)
		_, allocRepo, _, _, svc := newRenewalFixture(now)

		allocRepo.On("GetSeatedByStudent", ctx, int32(7)).Return(nil, nil)

		_, err := svc.Submit(ctx, 7, hallID, "2025-2026", "renewals/doc.pdf")
		assert.ErrorIs(t, err, service.ErrAllocationNotFound)
	})
}

func TestRenewalService_Decide(t *testing.T) {
	ctx := context.Background()
	hallID := int32(1)
	now := time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC)
	student := &domain.User{ID: 7, Session: "2021-2022"}

	pendingRenewal := func() *domain.Renewal {
		return &domain.Renewal{ID: 9, HallID: hallID, StudentID: 7, AllocationID: 42,
			YearStart: 2025, YearEnd: 2026, Status: domain.RenewalStatusPending}
	}

	t.Run("ApprovalExtendsFromEffectiveExpiry", func(t *testing.T) {
		renewRepo, allocRepo, userRepo, noteRepo, svc := newRenewalFixture(now)

		renewal := pendingRenewal()
		alloc := seatedWithCohortExpiry(hallID)

		renewRepo.On("GetByID", ctx, hallID, int32(9)).Return(renewal, nil)
		allocRepo.On("GetByIDForUpdate", ctx, hallID, int32(42)).Return(alloc, nil)
		userRepo.On("GetByID", ctx, int32(7)).Return(student, nil)
		allocRepo.On("Update", ctx, alloc).Return(nil)
		renewRepo.On("Update", ctx, renewal).Return(nil)
		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID != nil && *n.UserID == int32(7)
		})).Return(nil)

		got, err := svc.Decide(ctx, hallID, 9, domain.RenewalStatusApproved, 99, "good standing", 0)
		require.NoError(t, err)

		assert.Equal(t, domain.RenewalStatusApproved, got.Status)
		require.NotNil(t, got.ApprovedAt)
		// Twelve months past the Jan 1, 2026 horizon.
		require.NotNil(t, alloc.EndDate)
		assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), *alloc.EndDate)
		assert.Contains(t, got.Remarks, "good standing")
	})

	t.Run("RejectionRecordsReason", func(t *testing.T) {
		renewRepo, _, _, noteRepo, svc := newRenewalFixture(now)

		renewal := pendingRenewal()
		renewRepo.On("GetByID", ctx, hallID, int32(9)).Return(renewal, nil)
		renewRepo.On("Update", ctx, renewal).Return(nil)
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		got, err := svc.Decide(ctx, hallID, 9, domain.RenewalStatusRejected, 99, "incomplete documents", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.RenewalStatusRejected, got.Status)
		assert.Equal(t, "incomplete documents", got.RejectionReason)
	})

	t.Run("ExtensionCapped", func(t *testing.T) {
		_, _, _, _, svc := newRenewalFixture(now)

		_, err := svc.Decide(ctx, hallID, 9, domain.RenewalStatusApproved, 99, "", 61)
		assert.ErrorIs(t, err, service.ErrExtendTooLarge)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, _, _, _, svc := newRenewalFixture(now)

		_, err := svc.Decide(ctx, hallID, 9, domain.RenewalStatus("PENDING"), 99, "", 0)
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		renewRepo, _, _, _, svc := newRenewalFixture(now)

		done := pendingRenewal()
		done.Status = domain.RenewalStatusApproved
		renewRepo.On("GetByID", ctx, hallID, int32(9)).Return(done, nil)

		_, err := svc.Decide(ctx, hallID, 9, domain.RenewalStatusRejected, 99, "", 0)
		assert.ErrorIs(t, err, service.ErrRenewalAlreadyDecided)
	})

	t.Run("ApprovalNeedsLiveSeat", func(t *testing.T) {
		renewRepo, allocRepo, _, _, svc := newRenewalFixture(now)

		renewal := pendingRenewal()
		vacated := seatedWithCohortExpiry(hallID)
		vacated.Status = domain.AllocationStatusVacated

		renewRepo.On("GetByID", ctx, hallID, int32(9)).Return(renewal, nil)
		allocRepo.On("GetByIDForUpdate", ctx, hallID, int32(42)).Return(vacated, nil)

		_, err := svc.Decide(ctx, hallID, 9, domain.RenewalStatusApproved, 99, "", 0)
		assert.ErrorIs(t, err, service.ErrAllocationNotModifiable)
	})
}
