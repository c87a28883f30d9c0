// Package service contains the business logic for the trip sharing API.
// Services validate inputs, enforce permission rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// PermissionResolver answers "can user U do action A on entity E" across the
// three grant scopes, walking the hierarchy item → trip → owner, with a
// separate global scope for cross-trip account-to-account defaults.
//
// Resolution rules, in order:
//   - Owners have full rights over their own trips and items; no join row
//     is ever consulted or required.
//   - An item-level grant row, when present, is authoritative — the trip is
//     not consulted at all, so an explicit item-level denial overrides a
//     trip-level grant.
//   - Only in the absence of an item row does an item on a trip fall back
//     to the trip-level membership row.
//   - A missing target (trip or item) resolves to no access, never an
//     error: permission checks must not leak existence information.
type PermissionResolver struct {
	trips      repo.TripRepo
	items      repo.ItemRepo
	companions repo.CompanionRepo
	tripLinks  repo.TripCompanionRepo
	itemLinks  repo.ItemCompanionRepo
	grants     repo.CompanionPermissionRepo
}

// NewPermissionResolver constructs a PermissionResolver backed by the
// provided repos.
func NewPermissionResolver(
	trips repo.TripRepo,
	items repo.ItemRepo,
	companions repo.CompanionRepo,
	tripLinks repo.TripCompanionRepo,
	itemLinks repo.ItemCompanionRepo,
	grants repo.CompanionPermissionRepo,
) *PermissionResolver {
	return &PermissionResolver{
		trips:      trips,
		items:      items,
		companions: companions,
		tripLinks:  tripLinks,
		itemLinks:  itemLinks,
		grants:     grants,
	}
}

// AccountRights resolves the global scope: the default rights user holds
// over targetUser's trips via a CompanionPermission grant. There is no
// ownership short-circuit here — this is a pure peer grant between two
// accounts, and absence of a grant row means no rights.
func (r *PermissionResolver) AccountRights(ctx context.Context, userID, targetUserID uuid.UUID) (domain.PermissionSet, error) {
	ids, err := r.companions.IDsForUser(ctx, targetUserID)
	if err != nil {
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.AccountRights: %w", err)
	}

	grant, err := r.grants.GetForAny(ctx, userID, ids)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.PermissionSet{}, nil
		}
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.AccountRights: %w", err)
	}
	return grant.Permissions, nil
}

// TripRights resolves the trip scope: load the trip, short-circuit for the
// owner, then check the membership row for any companion record linking the
// user to the trip owner. A missing trip is indistinguishable from no access.
func (r *PermissionResolver) TripRights(ctx context.Context, userID, tripID uuid.UUID) (domain.PermissionSet, error) {
	trip, err := r.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.PermissionSet{}, nil
		}
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.TripRights: %w", err)
	}
	if trip.OwnerID == userID {
		return domain.FullAccess(), nil
	}

	ids, err := r.companions.IDsLinkingUser(ctx, trip.OwnerID, userID)
	if err != nil {
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.TripRights: %w", err)
	}

	member, err := r.tripLinks.GetForAny(ctx, tripID, ids)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.PermissionSet{}, nil
		}
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.TripRights: %w", err)
	}
	return member.Permissions, nil
}

// ItemRights resolves the item scope with the full fallback chain:
// owner, then the item-level grant row (authoritative when present), then —
// only when no item row exists and the item belongs to a trip — the
// trip-level membership. A missing item is indistinguishable from no
// access; an unknown item type is a caller defect and propagates as an error.
func (r *PermissionResolver) ItemRights(ctx context.Context, userID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) (domain.PermissionSet, error) {
	item, err := r.items.GetRef(ctx, typ, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.PermissionSet{}, nil
		}
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.ItemRights: %w", err)
	}
	if item.OwnerID == userID {
		return domain.FullAccess(), nil
	}

	ids, err := r.companions.IDsLinkingUser(ctx, item.OwnerID, userID)
	if err != nil {
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.ItemRights: %w", err)
	}

	grant, err := r.itemLinks.GetForAny(ctx, typ, itemID, ids)
	if err == nil {
		// An item row exists: its values win, the trip is not consulted.
		return grant.Permissions, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.ItemRights: %w", err)
	}

	if item.TripID == nil {
		return domain.PermissionSet{}, nil
	}
	rights, err := r.TripRights(ctx, userID, *item.TripID)
	if err != nil {
		return domain.PermissionSet{}, fmt.Errorf("service.PermissionResolver.ItemRights: %w", err)
	}
	return rights, nil
}

// CanViewTripsOf reports whether user holds a global view grant over
// targetUser's trips.
func (r *PermissionResolver) CanViewTripsOf(ctx context.Context, userID, targetUserID uuid.UUID) (bool, error) {
	rights, err := r.AccountRights(ctx, userID, targetUserID)
	return rights.CanView, err
}

// CanEditTripsOf reports whether user holds a global edit grant over
// targetUser's trips.
func (r *PermissionResolver) CanEditTripsOf(ctx context.Context, userID, targetUserID uuid.UUID) (bool, error) {
	rights, err := r.AccountRights(ctx, userID, targetUserID)
	return rights.CanEdit, err
}

// CanManageCompanionsOf reports whether user holds a global
// manage-companions grant over targetUser's trips.
func (r *PermissionResolver) CanManageCompanionsOf(ctx context.Context, userID, targetUserID uuid.UUID) (bool, error) {
	rights, err := r.AccountRights(ctx, userID, targetUserID)
	return rights.CanManageCompanions, err
}

// CanViewTrip reports whether user may view the trip.
func (r *PermissionResolver) CanViewTrip(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	rights, err := r.TripRights(ctx, userID, tripID)
	return rights.CanView, err
}

// CanEditTrip reports whether user may edit the trip.
func (r *PermissionResolver) CanEditTrip(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	rights, err := r.TripRights(ctx, userID, tripID)
	return rights.CanEdit, err
}

// CanManageCompanionsOnTrip reports whether user may add, remove, or
// re-permission companions on the trip.
func (r *PermissionResolver) CanManageCompanionsOnTrip(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	rights, err := r.TripRights(ctx, userID, tripID)
	return rights.CanManageCompanions, err
}

// CanViewItem reports whether user may view the item.
func (r *PermissionResolver) CanViewItem(ctx context.Context, userID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) (bool, error) {
	rights, err := r.ItemRights(ctx, userID, typ, itemID)
	return rights.CanView, err
}

// CanEditItem reports whether user may edit the item.
func (r *PermissionResolver) CanEditItem(ctx context.Context, userID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) (bool, error) {
	rights, err := r.ItemRights(ctx, userID, typ, itemID)
	return rights.CanEdit, err
}

// CanManageCompanionsOnItem reports whether user may add, remove, or
// re-permission companions on the item.
func (r *PermissionResolver) CanManageCompanionsOnItem(ctx context.Context, userID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) (bool, error) {
	rights, err := r.ItemRights(ctx, userID, typ, itemID)
	return rights.CanManageCompanions, err
}

// UpdateCompanionPermissions finds or creates the global grant keyed by
// (grantingUser, companion) and overlays the given permission changes.
func (r *PermissionResolver) UpdateCompanionPermissions(ctx context.Context, grantingUserID, companionID uuid.UUID, upd domain.PermissionUpdate) (domain.CompanionPermission, error) {
	grant, _, err := r.grants.FindOrCreate(ctx, grantingUserID, companionID)
	if err != nil {
		return domain.CompanionPermission{}, fmt.Errorf("service.PermissionResolver.UpdateCompanionPermissions: %w", err)
	}
	if !upd.IsZero() {
		if _, err := r.grants.UpdatePermissions(ctx, grantingUserID, companionID, upd); err != nil {
			return domain.CompanionPermission{}, fmt.Errorf("service.PermissionResolver.UpdateCompanionPermissions: %w", err)
		}
	}
	grant.Permissions = upd.ApplyTo(grant.Permissions)
	return grant, nil
}

// UpdateTripCompanionPermissions overlays permission changes onto an
// existing trip membership row. A missing row is a silent no-op: callers
// are expected to have added the companion to the trip first.
func (r *PermissionResolver) UpdateTripCompanionPermissions(ctx context.Context, tripID, companionID uuid.UUID, upd domain.PermissionUpdate) error {
	if _, err := r.tripLinks.UpdatePermissions(ctx, tripID, companionID, upd); err != nil {
		return fmt.Errorf("service.PermissionResolver.UpdateTripCompanionPermissions: %w", err)
	}
	return nil
}

// UpdateItemCompanionPermissions overlays permission changes onto an
// existing item grant row. A missing row is a silent no-op: callers are
// expected to have created the row via the cascade manager or a direct
// share action first.
func (r *PermissionResolver) UpdateItemCompanionPermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) error {
	if _, err := r.itemLinks.UpdatePermissions(ctx, typ, itemID, companionID, upd); err != nil {
		return fmt.Errorf("service.PermissionResolver.UpdateItemCompanionPermissions: %w", err)
	}
	return nil
}
