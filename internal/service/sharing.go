package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// SharingService handles grants made outside the trip cascade: direct
// per-item shares and the global account-to-account defaults. Rows written
// here carry inherited_from_trip = false, which is exactly what shields
// them from later cascade removals and updates.
type SharingService struct {
	companions repo.CompanionRepo
	itemLinks  repo.ItemCompanionRepo
	grants     repo.CompanionPermissionRepo
	resolver   *PermissionResolver
}

// NewSharingService constructs a SharingService backed by the provided
// repos and resolver.
func NewSharingService(
	companions repo.CompanionRepo,
	itemLinks repo.ItemCompanionRepo,
	grants repo.CompanionPermissionRepo,
	resolver *PermissionResolver,
) *SharingService {
	return &SharingService{
		companions: companions,
		itemLinks:  itemLinks,
		grants:     grants,
		resolver:   resolver,
	}
}

// ShareItem writes a direct, independent grant for the companion on the
// item, with perms overlaid on the share defaults (view on, the rest off).
// Sharing over an existing inherited row converts it to an independent one:
// from that point on the grant no longer follows the trip relationship.
func (s *SharingService) ShareItem(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID, companionID uuid.UUID, perms domain.PermissionUpdate) (domain.ItemCompanion, error) {
	if err := s.requireManageItem(ctx, actorID, typ, itemID); err != nil {
		return domain.ItemCompanion{}, fmt.Errorf("service.SharingService.ShareItem: %w", err)
	}
	if _, err := s.companions.GetByID(ctx, companionID); err != nil {
		return domain.ItemCompanion{}, fmt.Errorf("service.SharingService.ShareItem: companion: %w", err)
	}

	grant, err := s.itemLinks.Upsert(ctx, domain.ItemCompanion{
		ItemType:          typ,
		ItemID:            itemID,
		CompanionID:       companionID,
		Permissions:       perms.ApplyTo(domain.DefaultCascadeGrant()),
		Status:            domain.StatusAttending,
		AddedBy:           actorID,
		InheritedFromTrip: false,
	})
	if err != nil {
		return domain.ItemCompanion{}, fmt.Errorf("service.SharingService.ShareItem: %w", err)
	}
	return grant, nil
}

// UpdateItemPermissions overlays perms onto the companion's existing grant
// row on the item, inherited or not. A missing row is a silent no-op per
// the resolver's mutator contract.
func (s *SharingService) UpdateItemPermissions(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID, companionID uuid.UUID, perms domain.PermissionUpdate) error {
	if err := s.requireManageItem(ctx, actorID, typ, itemID); err != nil {
		return fmt.Errorf("service.SharingService.UpdateItemPermissions: %w", err)
	}
	if err := s.resolver.UpdateItemCompanionPermissions(ctx, typ, itemID, companionID, perms); err != nil {
		return fmt.Errorf("service.SharingService.UpdateItemPermissions: %w", err)
	}
	return nil
}

// UnshareItem removes the companion's grant row on the item, whether it
// was inherited or direct.
func (s *SharingService) UnshareItem(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID, companionID uuid.UUID) error {
	if err := s.requireManageItem(ctx, actorID, typ, itemID); err != nil {
		return fmt.Errorf("service.SharingService.UnshareItem: %w", err)
	}

	deleted, err := s.itemLinks.Delete(ctx, typ, itemID, companionID)
	if err != nil {
		return fmt.Errorf("service.SharingService.UnshareItem: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("service.SharingService.UnshareItem: %w", domain.ErrNotFound)
	}
	return nil
}

// ListItemCompanions returns all grant rows on an item the actor may view.
// Always returns a non-nil slice so callers can safely range over it.
func (s *SharingService) ListItemCompanions(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) ([]domain.ItemCompanion, error) {
	rights, err := s.resolver.ItemRights(ctx, actorID, typ, itemID)
	if err != nil {
		return nil, fmt.Errorf("service.SharingService.ListItemCompanions: %w", err)
	}
	if !rights.CanView {
		return nil, fmt.Errorf("service.SharingService.ListItemCompanions: %w", domain.ErrNotFound)
	}

	grants, err := s.itemLinks.ListByItem(ctx, typ, itemID)
	if err != nil {
		return nil, fmt.Errorf("service.SharingService.ListItemCompanions: %w", err)
	}
	if grants == nil {
		return []domain.ItemCompanion{}, nil
	}
	return grants, nil
}

// GrantAccountPermission sets the cross-trip default rights the acting user
// gives a companion from their own address book. The row is find-or-create
// keyed on (actor, companion); cascades never touch it.
func (s *SharingService) GrantAccountPermission(ctx context.Context, actorID, companionID uuid.UUID, perms domain.PermissionUpdate) (domain.CompanionPermission, error) {
	companion, err := s.companions.GetByID(ctx, companionID)
	if err != nil {
		return domain.CompanionPermission{}, fmt.Errorf("service.SharingService.GrantAccountPermission: %w", err)
	}
	if companion.CreatedBy != actorID {
		return domain.CompanionPermission{}, fmt.Errorf("service.SharingService.GrantAccountPermission: %w", domain.ErrForbidden)
	}

	grant, err := s.resolver.UpdateCompanionPermissions(ctx, actorID, companionID, perms)
	if err != nil {
		return domain.CompanionPermission{}, fmt.Errorf("service.SharingService.GrantAccountPermission: %w", err)
	}
	return grant, nil
}

// RevokeAccountPermission deletes the actor's cross-trip grant for the
// companion. Existing trip and item rows are untouched; revocation only
// stops the global fallback.
func (s *SharingService) RevokeAccountPermission(ctx context.Context, actorID, companionID uuid.UUID) error {
	deleted, err := s.grants.Delete(ctx, actorID, companionID)
	if err != nil {
		return fmt.Errorf("service.SharingService.RevokeAccountPermission: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("service.SharingService.RevokeAccountPermission: %w", domain.ErrNotFound)
	}
	return nil
}

// requireManageItem gates item grant mutations on manage-companions rights.
func (s *SharingService) requireManageItem(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) error {
	rights, err := s.resolver.ItemRights(ctx, actorID, typ, itemID)
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
