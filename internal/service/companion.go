package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// CompanionService manages companion records and trip membership. Membership
// changes are the cascade trigger points: adding a companion to a trip fans
// their grant out to every item, removing them sweeps the inherited grants
// back up, and a trip-level permission edit re-stamps the inherited rows.
//
// Demoting a trip permission only updates the cascaded rows; it never
// removes them. Removal is an explicit membership operation.
type CompanionService struct {
	companions repo.CompanionRepo
	tripLinks  repo.TripCompanionRepo
	resolver   *PermissionResolver
	cascade    *CascadeManager
}

// NewCompanionService constructs a CompanionService backed by the provided
// repos, resolver, and cascade manager.
func NewCompanionService(
	companions repo.CompanionRepo,
	tripLinks repo.TripCompanionRepo,
	resolver *PermissionResolver,
	cascade *CascadeManager,
) *CompanionService {
	return &CompanionService{
		companions: companions,
		tripLinks:  tripLinks,
		resolver:   resolver,
		cascade:    cascade,
	}
}

// CreateCompanion validates and persists a new companion record in the
// acting user's address book.
func (s *CompanionService) CreateCompanion(ctx context.Context, actorID uuid.UUID, c domain.TravelCompanion) (domain.TravelCompanion, error) {
	c.CreatedBy = actorID
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		return domain.TravelCompanion{}, fmt.Errorf("%w: a name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(c.Email) == "" {
		return domain.TravelCompanion{}, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	result, err := s.companions.Create(ctx, c)
	if err != nil {
		return domain.TravelCompanion{}, fmt.Errorf("service.CompanionService.CreateCompanion: %w", err)
	}
	return result, nil
}

// ListCompanions returns the actor's companion records.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CompanionService) ListCompanions(ctx context.Context, actorID uuid.UUID) ([]domain.TravelCompanion, error) {
	companions, err := s.companions.ListByCreator(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("service.CompanionService.ListCompanions: %w", err)
	}
	if companions == nil {
		return []domain.TravelCompanion{}, nil
	}
	return companions, nil
}

// AddToTrip puts a companion on a trip and cascades the grant to every
// item currently on it. perms is overlaid on the membership defaults
// (view on, the rest off). Returns the membership row and the number of
// items the cascade touched.
func (s *CompanionService) AddToTrip(ctx context.Context, actorID, tripID, companionID uuid.UUID, perms domain.PermissionUpdate) (domain.TripCompanion, int, error) {
	if err := s.requireManage(ctx, actorID, tripID); err != nil {
		return domain.TripCompanion{}, 0, fmt.Errorf("service.CompanionService.AddToTrip: %w", err)
	}
	if _, err := s.companions.GetByID(ctx, companionID); err != nil {
		return domain.TripCompanion{}, 0, fmt.Errorf("service.CompanionService.AddToTrip: companion: %w", err)
	}

	member, err := s.tripLinks.Create(ctx, domain.TripCompanion{
		TripID:           tripID,
		CompanionID:      companionID,
		Permissions:      perms.ApplyTo(domain.DefaultCascadeGrant()),
		AddedBy:          actorID,
		PermissionSource: domain.PermissionSourceExplicit,
	})
	if err != nil {
		return domain.TripCompanion{}, 0, fmt.Errorf("service.CompanionService.AddToTrip: %w", err)
	}

	affected, err := s.cascade.CascadeAddToAllItems(ctx, companionID, tripID, actorID, perms)
	if err != nil {
		return domain.TripCompanion{}, 0, fmt.Errorf("service.CompanionService.AddToTrip: %w", err)
	}
	return member, affected, nil
}

// RemoveFromTrip takes a companion off a trip and sweeps their inherited
// item grants. Item grants added independently of the trip survive.
// Returns the number of item rows removed by the cascade.
func (s *CompanionService) RemoveFromTrip(ctx context.Context, actorID, tripID, companionID uuid.UUID) (int, error) {
	if err := s.requireManage(ctx, actorID, tripID); err != nil {
		return 0, fmt.Errorf("service.CompanionService.RemoveFromTrip: %w", err)
	}

	deleted, err := s.tripLinks.Delete(ctx, tripID, companionID)
	if err != nil {
		return 0, fmt.Errorf("service.CompanionService.RemoveFromTrip: %w", err)
	}
	if deleted == 0 {
		return 0, fmt.Errorf("service.CompanionService.RemoveFromTrip: %w", domain.ErrNotFound)
	}

	removed, err := s.cascade.CascadeRemoveFromAllItems(ctx, companionID, tripID)
	if err != nil {
		return 0, fmt.Errorf("service.CompanionService.RemoveFromTrip: %w", err)
	}
	return removed, nil
}

// UpdateTripPermissions overlays perms onto the membership row and onto
// every inherited item grant the membership produced. A demotion stops
// here — it never removes inherited rows.
func (s *CompanionService) UpdateTripPermissions(ctx context.Context, actorID, tripID, companionID uuid.UUID, perms domain.PermissionUpdate) (int, error) {
	if err := s.requireManage(ctx, actorID, tripID); err != nil {
		return 0, fmt.Errorf("service.CompanionService.UpdateTripPermissions: %w", err)
	}

	updated, err := s.tripLinks.UpdatePermissions(ctx, tripID, companionID, perms)
	if err != nil {
		return 0, fmt.Errorf("service.CompanionService.UpdateTripPermissions: %w", err)
	}
	if updated == 0 {
		return 0, fmt.Errorf("service.CompanionService.UpdateTripPermissions: %w", domain.ErrNotFound)
	}

	cascaded, err := s.cascade.UpdateCascadedPermissions(ctx, companionID, tripID, perms)
	if err != nil {
		return 0, fmt.Errorf("service.CompanionService.UpdateTripPermissions: %w", err)
	}
	return cascaded, nil
}

// ListTripCompanions returns all membership rows on a trip the actor may view.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CompanionService) ListTripCompanions(ctx context.Context, actorID, tripID uuid.UUID) ([]domain.TripCompanion, error) {
	rights, err := s.resolver.TripRights(ctx, actorID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CompanionService.ListTripCompanions: %w", err)
	}
	if !rights.CanView {
		return nil, fmt.Errorf("service.CompanionService.ListTripCompanions: %w", domain.ErrNotFound)
	}

	members, err := s.tripLinks.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.CompanionService.ListTripCompanions: %w", err)
	}
	if members == nil {
		return []domain.TripCompanion{}, nil
	}
	return members, nil
}

// requireManage gates membership mutations on manage-companions rights.
// No view means not found; view without manage means forbidden.
func (s *CompanionService) requireManage(ctx context.Context, actorID, tripID uuid.UUID) error {
	rights, err := s.resolver.TripRights(ctx, actorID, tripID)
	if err != nil {
		return err
	}
	if !rights.CanView {
		return domain.ErrNotFound
	}
	if !rights.CanManageCompanions {
		return domain.ErrForbidden
	}
	return nil
}
