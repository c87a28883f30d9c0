package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
// Reads are gated on view rights and writes on edit rights via the
// resolver; deletion is owner-only. A trip the actor cannot view is
// reported as not found, never as forbidden, so that access checks do not
// leak which trips exist.
type TripService struct {
	trips    repo.TripRepo
	resolver *PermissionResolver
}

// NewTripService constructs a TripService backed by the provided repo and
// resolver.
func NewTripService(trips repo.TripRepo, resolver *PermissionResolver) *TripService {
	return &TripService{trips: trips, resolver: resolver}
}

// Create validates and persists a new trip owned by the acting user.
func (s *TripService) Create(ctx context.Context, actorID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.OwnerID = actorID
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID if the actor may view it.
func (s *TripService) GetByID(ctx context.Context, actorID, tripID uuid.UUID) (domain.Trip, error) {
	rights, err := s.resolver.TripRights(ctx, actorID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if !rights.CanView {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns the actor's own trips.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, actorID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and updates an existing trip if the actor may edit it.
func (s *TripService) Update(ctx context.Context, actorID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	rights, err := s.resolver.TripRights(ctx, actorID, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if !rights.CanView {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", domain.ErrNotFound)
	}
	if !rights.CanEdit {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", domain.ErrForbidden)
	}

	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip. Only the owner may delete; shared editors cannot.
func (s *TripService) Delete(ctx context.Context, actorID, tripID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if trip.OwnerID != actorID {
		rights, err := s.resolver.TripRights(ctx, actorID, tripID)
		if err != nil {
			return fmt.Errorf("service.TripService.Delete: %w", err)
		}
		if !rights.CanView {
			return fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("service.TripService.Delete: %w", domain.ErrForbidden)
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - EndDate, if set, must not be before StartDate.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.EndDate != nil && trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
