package scheduledevent

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/photonworks/facility-scheduler-backend/internal/identity"
	"github.com/photonworks/facility-scheduler-backend/internal/metrics"
	"github.com/photonworks/facility-scheduler-backend/internal/permission"
)

// Service is the authorization-gated scheduled-event query layer. Every
// operation takes the caller's identity, enforces a role gate, narrows the
// requested scope through permission checks, and only then touches the
// repository. Narrowing is exhaustive: results are never re-filtered per
// record on the way back up.
type Service interface {
	GetByID(ctx context.Context, user identity.UserContext, id int) (*ScheduledEvent, error)
	ListByFilter(ctx context.Context, user identity.UserContext, filter Filter) ([]*ScheduledEvent, error)
	ListByProposalBooking(ctx context.Context, user identity.UserContext, proposalBookingID int, filter *ProposalBookingFilter) ([]*ScheduledEvent, error)
	GetByProposalBookingAndEventID(ctx context.Context, user identity.UserContext, proposalBookingID, scheduledEventID int) (*ScheduledEvent, error)
	ListByEquipment(ctx context.Context, user identity.UserContext, equipmentIDs []int, startsAt, endsAt time.Time) ([]*ScheduledEvent, error)
	Create(ctx context.Context, user identity.UserContext, input NewScheduledEventInput) (*ScheduledEvent, error)
	Delete(ctx context.Context, user identity.UserContext, id int) error
}

type service struct {
	repo   Repository
	checks permission.Checker
	logger zerolog.Logger
}

// NewService creates the scheduled-event query service.
func NewService(repo Repository, checks permission.Checker, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		checks: checks,
		logger: logger.With().Str("component", "scheduledevent").Logger(),
	}
}

// gate enforces the coarse per-operation role gate. A failed gate is a hard
// authorization error, distinct from the empty results produced by narrowing.
func (s *service) gate(user identity.UserContext, operation string, allowed ...identity.Role) error {
	if err := permission.RequireRole(user, allowed...); err != nil {
		metrics.IncAuthzDenied(operation)
		s.logger.Debug().
			Int("user_id", user.UserID).
			Str("operation", operation).
			Msg("role gate denied")
		return err
	}
	return nil
}

// failClosed converts a permission-check outcome into a plain bool. A check
// that errored counts as denied, and is logged apart from a clean false.
func (s *service) failClosed(check string, ok bool, err error) bool {
	if err != nil {
		metrics.IncPermissionCheckFailure(check)
		s.logger.Warn().
			Err(err).
			Str("check", check).
			Msg("permission check failed, treating as denied")
		return false
	}
	return ok
}

func (s *service) GetByID(ctx context.Context, user identity.UserContext, id int) (*ScheduledEvent, error) {
	if err := s.gate(user, "get_by_id", identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByFilter(ctx context.Context, user identity.UserContext, filter Filter) ([]*ScheduledEvent, error) {
	if err := s.gate(user, "list_by_filter", identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		return nil, err
	}

	// An unscoped listing request is never satisfied broadly.
	if len(filter.InstrumentIDs) == 0 {
		metrics.IncScopeNarrowed("empty")
		return []*ScheduledEvent{}, nil
	}

	// One assignment check per requested instrument, issued concurrently.
	// Results land by index so the narrowed set keeps the caller's ordering.
	results := make([]bool, len(filter.InstrumentIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, instrumentID := range filter.InstrumentIDs {
		i, instrumentID := i, instrumentID
		g.Go(func() error {
			ok, err := s.checks.InstrumentScientistHasInstrument(gctx, user, instrumentID)
			results[i] = s.failClosed("instrument_scientist_has_instrument", ok, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// Cancelled mid-flight; a partially narrowed scope must not leak out.
		return nil, err
	}

	narrowed := make([]int, 0, len(filter.InstrumentIDs))
	for i, instrumentID := range filter.InstrumentIDs {
		if results[i] {
			narrowed = append(narrowed, instrumentID)
		}
	}

	if len(narrowed) == 0 {
		metrics.IncScopeNarrowed("empty")
		return []*ScheduledEvent{}, nil
	}
	if len(narrowed) < len(filter.InstrumentIDs) {
		metrics.IncScopeNarrowed("narrowed")
	} else {
		metrics.IncScopeNarrowed("full")
	}

	filter.InstrumentIDs = narrowed

	return s.repo.ListByFilter(ctx, filter)
}

func (s *service) ListByProposalBooking(ctx context.Context, user identity.UserContext, proposalBookingID int, filter *ProposalBookingFilter) ([]*ScheduledEvent, error) {
	if err := s.gate(user, "list_by_proposal_booking",
		identity.RoleUserOfficer, identity.RoleInstrumentScientist, identity.RoleUser); err != nil {
		return nil, err
	}

	// Access is granted at booking granularity: instrument-scientist
	// assignment OR proposal participation, checked concurrently.
	var scientistOK, participantOK bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ok, err := s.checks.InstrumentScientistHasAccess(gctx, user, proposalBookingID)
		scientistOK = s.failClosed("instrument_scientist_has_access", ok, err)
		return nil
	})
	g.Go(func() error {
		ok, err := s.checks.UserHasAccess(gctx, user, proposalBookingID)
		participantOK = s.failClosed("user_has_access", ok, err)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !scientistOK && !participantOK {
		return []*ScheduledEvent{}, nil
	}

	return s.repo.ListByProposalBooking(ctx, proposalBookingID, filter)
}

func (s *service) GetByProposalBookingAndEventID(ctx context.Context, user identity.UserContext, proposalBookingID, scheduledEventID int) (*ScheduledEvent, error) {
	if err := s.gate(user, "get_by_proposal_booking_and_id",
		identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		return nil, err
	}

	ok, err := s.checks.InstrumentScientistHasAccess(ctx, user, proposalBookingID)
	if !s.failClosed("instrument_scientist_has_access", ok, err) {
		// Denial and absence must stay indistinguishable to the caller.
		return nil, nil
	}

	return s.repo.GetByProposalBookingAndEventID(ctx, proposalBookingID, scheduledEventID)
}

func (s *service) ListByEquipment(ctx context.Context, user identity.UserContext, equipmentIDs []int, startsAt, endsAt time.Time) ([]*ScheduledEvent, error) {
	// TODO: scope the requested equipment ids per caller, the way
	// ListByFilter narrows instrument ids. The role gate alone is too coarse.
	if err := s.gate(user, "list_by_equipment", identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		return nil, err
	}

	return s.repo.ListByEquipment(ctx, equipmentIDs, startsAt, endsAt)
}

func (s *service) Create(ctx context.Context, user identity.UserContext, input NewScheduledEventInput) (*ScheduledEvent, error) {
	if err := s.gate(user, "create", identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		return nil, err
	}

	if !ValidBookingType(input.BookingType) {
		return nil, ErrInvalidBookingType
	}
	if input.EndsAt.Before(input.StartsAt) {
		return nil, ErrInvalidTimeRange
	}

	ev, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("scheduled_event_id", ev.ID).
		Str("booking_type", string(ev.BookingType)).
		Int("scheduled_by", ev.ScheduledByID).
		Msg("scheduled event created")

	return ev, nil
}

func (s *service) Delete(ctx context.Context, user identity.UserContext, id int) error {
	if err := s.gate(user, "delete", identity.RoleUserOfficer, identity.RoleInstrumentScientist); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Int("scheduled_event_id", id).
		Int("user_id", user.UserID).
		Msg("scheduled event deleted")

	return nil
}
