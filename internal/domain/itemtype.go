package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemType identifies which of the five travel item variants an item is.
// Item identity is the (ItemType, item id) pair; the type also selects the
// storage collection the item lives in.
type ItemType string

// The closed set of supported item types. Anything else is a caller defect
// and is rejected with ErrUnknownItemType.
const (
	ItemTypeFlight         ItemType = "flight"
	ItemTypeHotel          ItemType = "hotel"
	ItemTypeTransportation ItemType = "transportation"
	ItemTypeCarRental      ItemType = "car_rental"
	ItemTypeEvent          ItemType = "event"
)

// AllItemTypes lists every supported item type in a stable order.
// Cascade operations iterate this slice to enumerate a trip's items.
var AllItemTypes = []ItemType{
	ItemTypeFlight,
	ItemTypeHotel,
	ItemTypeTransportation,
	ItemTypeCarRental,
	ItemTypeEvent,
}

// String returns the string representation of the item type.
func (t ItemType) String() string {
	return string(t)
}

// IsValid reports whether the item type belongs to the closed set.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeFlight, ItemTypeHotel, ItemTypeTransportation, ItemTypeCarRental, ItemTypeEvent:
		return true
	}
	return false
}

// ParseItemType converts a raw tag into an ItemType.
// Returns ErrUnknownItemType for any tag outside the closed set.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownItemType, s)
	}
	return t, nil
}

// ItemRef is the slice of a travel item the sharing engine needs: identity,
// owner, and the trip the item belongs to (nil for standalone items).
// Type-specific fields (flight numbers, room counts, ...) never enter the
// engine.
type ItemRef struct {
	Type    ItemType   `json:"item_type"`
	ID      uuid.UUID  `json:"id"`
	OwnerID uuid.UUID  `json:"owner_id"`
	TripID  *uuid.UUID `json:"trip_id,omitempty"`
}
