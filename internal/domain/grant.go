package domain

import (
	"time"

	"github.com/google/uuid"
)

// PermissionSet is the triple of independently settable rights the engine
// resolves. No boolean implies another: edit without manage-companions is a
// legal and common state.
type PermissionSet struct {
	CanView             bool `json:"can_view"`
	CanEdit             bool `json:"can_edit"`
	CanManageCompanions bool `json:"can_manage_companions"`
}

// FullAccess is the implicit right of an owner over their own trip or item.
func FullAccess() PermissionSet {
	return PermissionSet{CanView: true, CanEdit: true, CanManageCompanions: true}
}

// DefaultCascadeGrant is the permission set applied when a companion is
// newly cascaded onto an item and the caller supplied no override:
// viewing is on, everything else is off.
func DefaultCascadeGrant() PermissionSet {
	return PermissionSet{CanView: true}
}

// PermissionUpdate is a partial permission change. Nil fields are left
// untouched so that granting one right never silently clears another.
type PermissionUpdate struct {
	CanView             *bool `json:"can_view,omitempty"`
	CanEdit             *bool `json:"can_edit,omitempty"`
	CanManageCompanions *bool `json:"can_manage_companions,omitempty"`
}

// ApplyTo returns base with the update's non-nil fields overlaid.
func (u PermissionUpdate) ApplyTo(base PermissionSet) PermissionSet {
	if u.CanView != nil {
		base.CanView = *u.CanView
	}
	if u.CanEdit != nil {
		base.CanEdit = *u.CanEdit
	}
	if u.CanManageCompanions != nil {
		base.CanManageCompanions = *u.CanManageCompanions
	}
	return base
}

// IsZero reports whether the update changes nothing.
func (u PermissionUpdate) IsZero() bool {
	return u.CanView == nil && u.CanEdit == nil && u.CanManageCompanions == nil
}

// Values recorded in TripCompanion.PermissionSource. The tag is free-form at
// the storage layer; these are the two origins the services stamp.
const (
	// PermissionSourceExplicit marks a membership created by a direct
	// add-companion action on the trip.
	PermissionSourceExplicit = "explicit"

	// PermissionSourceAccountDefault marks a membership derived from a
	// cross-trip CompanionPermission between the two accounts.
	PermissionSourceAccountDefault = "account_default"
)

// StatusAttending is the participation status stamped on item grants
// created by the cascade. The engine carries it but never interprets it.
const StatusAttending = "attending"

// TripCompanion is the trip-level membership row: one companion's presence
// and rights on one trip. (TripID, CompanionID) is unique.
type TripCompanion struct {
	ID               uuid.UUID     `json:"id"`
	TripID           uuid.UUID     `json:"trip_id"`
	CompanionID      uuid.UUID     `json:"companion_id"`
	Permissions      PermissionSet `json:"permissions"`
	AddedBy          uuid.UUID     `json:"added_by"`
	PermissionSource string        `json:"permission_source"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// ItemCompanion is the item-level grant row: one companion's presence and
// rights on one travel item. (ItemType, ItemID, CompanionID) is unique.
//
// InheritedFromTrip is the load-bearing flag: true marks rows written by the
// cascade as a side effect of trip membership, and only such rows are ever
// removed or updated by later cascades. Rows with the flag false are
// independent per-item grants and survive trip-level removal.
type ItemCompanion struct {
	ID                uuid.UUID     `json:"id"`
	ItemType          ItemType      `json:"item_type"`
	ItemID            uuid.UUID     `json:"item_id"`
	CompanionID       uuid.UUID     `json:"companion_id"`
	Permissions       PermissionSet `json:"permissions"`
	Status            string        `json:"status"`
	AddedBy           uuid.UUID     `json:"added_by"`
	InheritedFromTrip bool          `json:"inherited_from_trip"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// CompanionPermission is a global grant between two accounts: the granting
// user gives a companion (and thereby the account behind it) default rights
// across all of the granter's trips. (GrantedBy, CompanionID) is unique.
// These rows are never touched by cascades.
type CompanionPermission struct {
	ID          uuid.UUID     `json:"id"`
	GrantedBy   uuid.UUID     `json:"granted_by"`
	CompanionID uuid.UUID     `json:"companion_id"`
	Permissions PermissionSet `json:"permissions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
