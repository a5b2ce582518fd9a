package scheduledevent

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
	"github.com/photonworks/facility-scheduler-backend/internal/permission"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id int) (*ScheduledEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScheduledEvent), args.Error(1)
}

func (m *mockRepo) ListByFilter(ctx context.Context, filter Filter) ([]*ScheduledEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ScheduledEvent), args.Error(1)
}

func (m *mockRepo) ListByProposalBooking(ctx context.Context, proposalBookingID int, filter *ProposalBookingFilter) ([]*ScheduledEvent, error) {
	args := m.Called(ctx, proposalBookingID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ScheduledEvent), args.Error(1)
}

func (m *mockRepo) GetByProposalBookingAndEventID(ctx context.Context, proposalBookingID, scheduledEventID int) (*ScheduledEvent, error) {
	args := m.Called(ctx, proposalBookingID, scheduledEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScheduledEvent), args.Error(1)
}

func (m *mockRepo) ListByEquipment(ctx context.Context, equipmentIDs []int, startsAt, endsAt time.Time) ([]*ScheduledEvent, error) {
	args := m.Called(ctx, equipmentIDs, startsAt, endsAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ScheduledEvent), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, input NewScheduledEventInput) (*ScheduledEvent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ScheduledEvent), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) InstrumentScientistHasInstrument(ctx context.Context, user identity.UserContext, instrumentID int) (bool, error) {
	args := m.Called(ctx, user, instrumentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockChecker) InstrumentScientistHasAccess(ctx context.Context, user identity.UserContext, proposalBookingID int) (bool, error) {
	args := m.Called(ctx, user, proposalBookingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockChecker) UserHasAccess(ctx context.Context, user identity.UserContext, proposalBookingID int) (bool, error) {
	args := m.Called(ctx, user, proposalBookingID)
	return args.Bool(0), args.Error(1)
}

var (
	officer   = identity.UserContext{UserID: 1, Roles: []identity.Role{identity.RoleUserOfficer}}
	scientist = identity.UserContext{UserID: 2, Roles: []identity.Role{identity.RoleInstrumentScientist}}
	plainUser = identity.UserContext{UserID: 3, Roles: []identity.Role{identity.RoleUser}}
)

func newTestService(repo Repository, checks permission.Checker) Service {
	return NewService(repo, checks, zerolog.New(io.Discard))
}

func someEvent(id int) *ScheduledEvent {
	return &ScheduledEvent{
		ID:          id,
		BookingType: BookingTypeCommissioning,
		StartsAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC),
	}
}

func TestGetByID(t *testing.T) {
	t.Run("role gate rejects plain users", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockChecker))

		_, err := svc.GetByID(context.Background(), plainUser, 123)
		assert.ErrorIs(t, err, permission.ErrNotAuthorized)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("absence is not an error", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 999).Return(nil, nil)
		svc := newTestService(repo, new(mockChecker))

		ev, err := svc.GetByID(context.Background(), officer, 999)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("found", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByID", mock.Anything, 123).Return(someEvent(123), nil)
		svc := newTestService(repo, new(mockChecker))

		ev, err := svc.GetByID(context.Background(), scientist, 123)
		require.NoError(t, err)
		assert.Equal(t, 123, ev.ID)
	})
}

func TestListByFilter(t *testing.T) {
	t.Run("empty instrument set short-circuits", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockChecker))

		events, err := svc.ListByFilter(context.Background(), scientist, Filter{})
		require.NoError(t, err)
		assert.Empty(t, events)
		repo.AssertNotCalled(t, "ListByFilter", mock.Anything, mock.Anything)
	})

	t.Run("narrowing preserves input order", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 10).Return(true, nil)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 20).Return(false, nil)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 30).Return(true, nil)
		repo.On("ListByFilter", mock.Anything, mock.MatchedBy(func(f Filter) bool {
			return assert.ObjectsAreEqual([]int{10, 30}, f.InstrumentIDs)
		})).Return([]*ScheduledEvent{someEvent(1)}, nil)

		svc := newTestService(repo, checks)
		events, err := svc.ListByFilter(context.Background(), scientist, Filter{InstrumentIDs: []int{10, 20, 30}})
		require.NoError(t, err)
		assert.Len(t, events, 1)
		repo.AssertExpectations(t)
	})

	t.Run("all denied yields empty without data source", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, mock.Anything).Return(false, nil)

		svc := newTestService(repo, checks)
		events, err := svc.ListByFilter(context.Background(), scientist, Filter{InstrumentIDs: []int{10, 20}})
		require.NoError(t, err)
		assert.Empty(t, events)
		repo.AssertNotCalled(t, "ListByFilter", mock.Anything, mock.Anything)
	})

	t.Run("failed check narrows like a denial", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 10).Return(true, nil)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 20).Return(false, errors.New("assignment lookup timed out"))
		repo.On("ListByFilter", mock.Anything, mock.MatchedBy(func(f Filter) bool {
			return assert.ObjectsAreEqual([]int{10}, f.InstrumentIDs)
		})).Return([]*ScheduledEvent{}, nil)

		svc := newTestService(repo, checks)
		_, err := svc.ListByFilter(context.Background(), scientist, Filter{InstrumentIDs: []int{10, 20}})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("role gate rejects plain users", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockChecker))

		_, err := svc.ListByFilter(context.Background(), plainUser, Filter{InstrumentIDs: []int{10}})
		assert.ErrorIs(t, err, permission.ErrNotAuthorized)
	})

	t.Run("cancellation mid-narrowing never reaches the data source", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 10).
			Run(func(mock.Arguments) { cancel() }).Return(true, nil)

		svc := newTestService(repo, checks)
		_, err := svc.ListByFilter(ctx, scientist, Filter{InstrumentIDs: []int{10}})
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "ListByFilter", mock.Anything, mock.Anything)
	})

	t.Run("other filter fields pass through unchanged", func(t *testing.T) {
		bt := BookingTypeMaintenance
		start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 10).Return(true, nil)
		repo.On("ListByFilter", mock.Anything, mock.MatchedBy(func(f Filter) bool {
			return f.BookingType != nil && *f.BookingType == bt &&
				f.StartsAt != nil && f.StartsAt.Equal(start)
		})).Return([]*ScheduledEvent{}, nil)

		svc := newTestService(repo, checks)
		_, err := svc.ListByFilter(context.Background(), scientist, Filter{
			InstrumentIDs: []int{10},
			BookingType:   &bt,
			StartsAt:      &start,
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestListByProposalBooking(t *testing.T) {
	t.Run("participant access delegates with unmodified id", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, plainUser, 55).Return(false, nil)
		checks.On("UserHasAccess", mock.Anything, plainUser, 55).Return(true, nil)
		repo.On("ListByProposalBooking", mock.Anything, 55, (*ProposalBookingFilter)(nil)).
			Return([]*ScheduledEvent{someEvent(1), someEvent(2)}, nil)

		svc := newTestService(repo, checks)
		events, err := svc.ListByProposalBooking(context.Background(), plainUser, 55, nil)
		require.NoError(t, err)
		assert.Len(t, events, 2)
		repo.AssertExpectations(t)
	})

	t.Run("scientist access delegates with filter untouched", func(t *testing.T) {
		filter := &ProposalBookingFilter{}
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, scientist, 55).Return(true, nil)
		checks.On("UserHasAccess", mock.Anything, scientist, 55).Return(false, nil)
		repo.On("ListByProposalBooking", mock.Anything, 55, filter).Return([]*ScheduledEvent{}, nil)

		svc := newTestService(repo, checks)
		_, err := svc.ListByProposalBooking(context.Background(), scientist, 55, filter)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("both checks false yields empty without data source", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, plainUser, 55).Return(false, nil)
		checks.On("UserHasAccess", mock.Anything, plainUser, 55).Return(false, nil)

		svc := newTestService(repo, checks)
		events, err := svc.ListByProposalBooking(context.Background(), plainUser, 55, nil)
		require.NoError(t, err)
		assert.Empty(t, events)
		repo.AssertNotCalled(t, "ListByProposalBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed check counts as denial", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, plainUser, 55).Return(false, errors.New("lookup failed"))
		checks.On("UserHasAccess", mock.Anything, plainUser, 55).Return(false, nil)

		svc := newTestService(repo, checks)
		events, err := svc.ListByProposalBooking(context.Background(), plainUser, 55, nil)
		require.NoError(t, err)
		assert.Empty(t, events)
		repo.AssertNotCalled(t, "ListByProposalBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancellation mid-check never reaches the data source", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, plainUser, 55).
			Run(func(mock.Arguments) { cancel() }).Return(true, nil)
		checks.On("UserHasAccess", mock.Anything, plainUser, 55).Return(true, nil)

		svc := newTestService(repo, checks)
		_, err := svc.ListByProposalBooking(ctx, plainUser, 55, nil)
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "ListByProposalBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("role gate rejects callers with no known role", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockChecker))

		nobody := identity.UserContext{UserID: 99}
		_, err := svc.ListByProposalBooking(context.Background(), nobody, 55, nil)
		assert.ErrorIs(t, err, permission.ErrNotAuthorized)
	})
}

func TestGetByProposalBookingAndEventID(t *testing.T) {
	t.Run("denied is indistinguishable from absent", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, scientist, 77).Return(false, nil)

		svc := newTestService(repo, checks)
		ev, err := svc.GetByProposalBookingAndEventID(context.Background(), scientist, 77, 999)
		require.NoError(t, err)
		assert.Nil(t, ev)
		repo.AssertNotCalled(t, "GetByProposalBookingAndEventID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("granted delegates", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, scientist, 77).Return(true, nil)
		repo.On("GetByProposalBookingAndEventID", mock.Anything, 77, 999).Return(someEvent(999), nil)

		svc := newTestService(repo, checks)
		ev, err := svc.GetByProposalBookingAndEventID(context.Background(), scientist, 77, 999)
		require.NoError(t, err)
		assert.Equal(t, 999, ev.ID)
	})

	t.Run("granted but absent matches denied", func(t *testing.T) {
		repo := new(mockRepo)
		checks := new(mockChecker)
		checks.On("InstrumentScientistHasAccess", mock.Anything, scientist, 77).Return(true, nil)
		repo.On("GetByProposalBookingAndEventID", mock.Anything, 77, 999).Return(nil, nil)

		svc := newTestService(repo, checks)
		ev, err := svc.GetByProposalBookingAndEventID(context.Background(), scientist, 77, 999)
		require.NoError(t, err)
		assert.Nil(t, ev)
	})

	t.Run("role gate rejects plain users", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockChecker))

		_, err := svc.GetByProposalBookingAndEventID(context.Background(), plainUser, 77, 999)
		assert.ErrorIs(t, err, permission.ErrNotAuthorized)
	})
}

func TestListByEquipment(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("role gate only", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ListByEquipment", mock.Anything, []int{4, 5}, start, end).
			Return([]*ScheduledEvent{someEvent(1)}, nil)

		svc := newTestService(repo, new(mockChecker))
		events, err := svc.ListByEquipment(context.Background(), officer, []int{4, 5}, start, end)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("role gate rejects plain users", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockChecker))

		_, err := svc.ListByEquipment(context.Background(), plainUser, []int{4}, start, end)
		assert.ErrorIs(t, err, permission.ErrNotAuthorized)
		repo.AssertNotCalled(t, "ListByEquipment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreate(t *testing.T) {
	valid := NewScheduledEventInput{
		BookingType:   BookingTypeMaintenance,
		StartsAt:      time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		ScheduledByID: 2,
	}

	t.Run("creates", func(t *testing.T) {
		repo := new(mockRepo)
		created := someEvent(100)
		repo.On("Create", mock.Anything, valid).Return(created, nil)

		svc := newTestService(repo, new(mockChecker))
		ev, err := svc.Create(context.Background(), scientist, valid)
		require.NoError(t, err)
		assert.Equal(t, 100, ev.ID)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		input := valid
		input.StartsAt, input.EndsAt = input.EndsAt, input.StartsAt

		svc := newTestService(new(mockRepo), new(mockChecker))
		_, err := svc.Create(context.Background(), scientist, input)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("rejects unknown booking type", func(t *testing.T) {
		input := valid
		input.BookingType = BookingType("HOLIDAY")

		svc := newTestService(new(mockRepo), new(mockChecker))
		_, err := svc.Create(context.Background(), scientist, input)
		assert.ErrorIs(t, err, ErrInvalidBookingType)
	})

	t.Run("role gate rejects plain users", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockChecker))
		_, err := svc.Create(context.Background(), plainUser, valid)
		assert.ErrorIs(t, err, permission.ErrNotAuthorized)
	})
}

func TestDelete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Delete", mock.Anything, 123).Return(nil)

		svc := newTestService(repo, new(mockChecker))
		assert.NoError(t, svc.Delete(context.Background(), officer, 123))
	})

	t.Run("missing event propagates", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Delete", mock.Anything, 999).Return(ErrNotFound)

		svc := newTestService(repo, new(mockChecker))
		assert.ErrorIs(t, svc.Delete(context.Background(), officer, 999), ErrNotFound)
	})

	t.Run("role gate rejects plain users", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockChecker))
		assert.ErrorIs(t, svc.Delete(context.Background(), plainUser, 123), permission.ErrNotAuthorized)
	})
}

func TestDataSourceFailurePropagates(t *testing.T) {
	repoErr := errors.New("connection refused")

	repo := new(mockRepo)
	checks := new(mockChecker)
	checks.On("InstrumentScientistHasInstrument", mock.Anything, scientist, 10).Return(true, nil)
	repo.On("ListByFilter", mock.Anything, mock.Anything).Return(nil, repoErr)

	svc := newTestService(repo, checks)
	_, err := svc.ListByFilter(context.Background(), scientist, Filter{InstrumentIDs: []int{10}})
	assert.ErrorIs(t, err, repoErr)
}
