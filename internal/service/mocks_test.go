package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/repository"
)

// stubTxManager runs fn directly; transactional composition is exercised in
// integration environments, not here.
type stubTxManager struct{}

func (stubTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockHallRepo
type MockHallRepo struct {
	mock.Mock
}

func (m *MockHallRepo) Create(ctx context.Context, hall *domain.Hall) error {
	args := m.Called(ctx, hall)
	return args.Error(0)
}
func (m *MockHallRepo) GetByID(ctx context.Context, id int32) (*domain.Hall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hall), args.Error(1)
}
func (m *MockHallRepo) List(ctx context.Context) ([]domain.Hall, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hall), args.Error(1)
}

// MockRoomRepo
type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepo) GetByID(ctx context.Context, hallID, id int32) (*domain.Room, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) GetByIDForUpdate(ctx context.Context, hallID, id int32) (*domain.Room, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) Update(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepo) List(ctx context.Context, hallID int32, page, pageSize int32) ([]domain.Room, int32, error) {
	args := m.Called(ctx, hallID, page, pageSize)
	return args.Get(0).([]domain.Room), args.Get(1).(int32), args.Error(2)
}
func (m *MockRoomRepo) Delete(ctx context.Context, hallID, id int32) error {
	args := m.Called(ctx, hallID, id)
	return args.Error(0)
}
func (m *MockRoomRepo) CountAllocations(ctx context.Context, roomID int32) (int32, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int32), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetStudentByRegistration(ctx context.Context, hallID int32, registrationNo string) (*domain.User, error) {
	args := m.Called(ctx, hallID, registrationNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, hallID, id int32) (*domain.Application, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetInterview(ctx context.Context, applicationID int32) (*domain.Interview, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id int32, status domain.ApplicationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetActiveForm(ctx context.Context, hallID int32) (*domain.AdmissionForm, error) {
	args := m.Called(ctx, hallID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdmissionForm), args.Error(1)
}
func (m *MockApplicationRepo) GetByStudentAndForm(ctx context.Context, studentID, formID int32) (*domain.Application, error) {
	args := m.Called(ctx, studentID, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

// MockAllocationRepo
type MockAllocationRepo struct {
	mock.Mock
}

func (m *MockAllocationRepo) Create(ctx context.Context, a *domain.Allocation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAllocationRepo) GetByID(ctx context.Context, hallID, id int32) (*domain.Allocation, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}
func (m *MockAllocationRepo) GetByIDForUpdate(ctx context.Context, hallID, id int32) (*domain.Allocation, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}
func (m *MockAllocationRepo) GetSeatedByStudent(ctx context.Context, studentID int32) (*domain.Allocation, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}
func (m *MockAllocationRepo) GetSeatedByApplication(ctx context.Context, applicationID int32) (*domain.Allocation, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}
func (m *MockAllocationRepo) Update(ctx context.Context, a *domain.Allocation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAllocationRepo) List(ctx context.Context, hallID int32, status domain.AllocationStatus, page, pageSize int32) ([]domain.Allocation, int32, error) {
	args := m.Called(ctx, hallID, status, page, pageSize)
	return args.Get(0).([]domain.Allocation), args.Get(1).(int32), args.Error(2)
}
func (m *MockAllocationRepo) ListSeated(ctx context.Context) ([]repository.SeatedAllocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.SeatedAllocation), args.Error(1)
}

// MockWaitlistRepo
type MockWaitlistRepo struct {
	mock.Mock
}

func (m *MockWaitlistRepo) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockWaitlistRepo) GetByID(ctx context.Context, hallID, id int32) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) GetActiveByApplication(ctx context.Context, applicationID int32) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) ListActiveForUpdate(ctx context.Context, hallID int32) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, hallID)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) UpdatePositions(ctx context.Context, hallID int32, orderedIDs []int32) error {
	args := m.Called(ctx, hallID, orderedIDs)
	return args.Error(0)
}
func (m *MockWaitlistRepo) Update(ctx context.Context, e *domain.WaitlistEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockWaitlistRepo) List(ctx context.Context, hallID int32, status domain.WaitlistStatus, page, pageSize int32) ([]domain.WaitlistEntry, int32, error) {
	args := m.Called(ctx, hallID, status, page, pageSize)
	return args.Get(0).([]domain.WaitlistEntry), args.Get(1).(int32), args.Error(2)
}

// MockRenewalRepo
type MockRenewalRepo struct {
	mock.Mock
}

func (m *MockRenewalRepo) Create(ctx context.Context, r *domain.Renewal) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRenewalRepo) GetByID(ctx context.Context, hallID, id int32) (*domain.Renewal, error) {
	args := m.Called(ctx, hallID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}
func (m *MockRenewalRepo) Update(ctx context.Context, r *domain.Renewal) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRenewalRepo) GetOpenByAllocationYear(ctx context.Context, allocationID int32, yearStart int) (*domain.Renewal, error) {
	args := m.Called(ctx, allocationID, yearStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}
func (m *MockRenewalRepo) GetDecidedByAllocationYear(ctx context.Context, allocationID int32, yearStart int) (*domain.Renewal, error) {
	args := m.Called(ctx, allocationID, yearStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}
func (m *MockRenewalRepo) LatestForCancelYear(ctx context.Context, allocationID int32, cancelYear int) (*domain.Renewal, error) {
	args := m.Called(ctx, allocationID, cancelYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renewal), args.Error(1)
}
func (m *MockRenewalRepo) ListByHall(ctx context.Context, hallID int32, status domain.RenewalStatus, page, pageSize int32) ([]domain.Renewal, int32, error) {
	args := m.Called(ctx, hallID, status, page, pageSize)
	return args.Get(0).([]domain.Renewal), args.Get(1).(int32), args.Error(2)
}
func (m *MockRenewalRepo) ListByStudent(ctx context.Context, studentID int32) ([]domain.Renewal, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]domain.Renewal), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListPending(ctx context.Context, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) MarkDelivered(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkFailed(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListForUser(ctx context.Context, userID, hallID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, hallID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
