package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// ItemService implements the minimal travel item surface the sharing engine
// needs: creating items on (or off) a trip and reading their references.
// Type-specific editing lives with each item feature and is out of scope here.
type ItemService struct {
	items    repo.ItemRepo
	resolver *PermissionResolver
}

// NewItemService constructs an ItemService backed by the provided repo and
// resolver.
func NewItemService(items repo.ItemRepo, resolver *PermissionResolver) *ItemService {
	return &ItemService{items: items, resolver: resolver}
}

// Create persists a new item owned by the acting user. When tripID is set
// the actor needs edit rights on that trip; a nil tripID creates a
// standalone item.
//
// Companions already on the trip do not automatically gain a grant on the
// new item — cascades fire on membership changes, not item creation.
func (s *ItemService) Create(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, tripID *uuid.UUID, name string) (domain.ItemRef, error) {
	if !typ.IsValid() {
		return domain.ItemRef{}, fmt.Errorf("%w: %q", domain.ErrUnknownItemType, typ)
	}
	if strings.TrimSpace(name) == "" {
		return domain.ItemRef{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	if tripID != nil {
		rights, err := s.resolver.TripRights(ctx, actorID, *tripID)
		if err != nil {
			return domain.ItemRef{}, fmt.Errorf("service.ItemService.Create: %w", err)
		}
		if !rights.CanView {
			return domain.ItemRef{}, fmt.Errorf("service.ItemService.Create: trip: %w", domain.ErrNotFound)
		}
		if !rights.CanEdit {
			return domain.ItemRef{}, fmt.Errorf("service.ItemService.Create: %w", domain.ErrForbidden)
		}
	}

	ref, err := s.items.Create(ctx, typ, actorID, tripID, name)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}
	return ref, nil
}

// Get returns an item reference if the actor may view the item.
func (s *ItemService) Get(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) (domain.ItemRef, error) {
	rights, err := s.resolver.ItemRights(ctx, actorID, typ, itemID)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("service.ItemService.Get: %w", err)
	}
	if !rights.CanView {
		return domain.ItemRef{}, fmt.Errorf("service.ItemService.Get: %w", domain.ErrNotFound)
	}

	ref, err := s.items.GetRef(ctx, typ, itemID)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("service.ItemService.Get: %w", err)
	}
	return ref, nil
}
