package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/service"
)

func newItemService(items *mockItemRepo, d resolverDeps) *service.ItemService {
	if d.items == nil {
		d.items = items
	}
	return service.NewItemService(items, newResolver(d))
}

func TestItemCreate_RejectsUnknownType(t *testing.T) {
	svc := newItemService(&mockItemRepo{}, resolverDeps{})

	_, err := svc.Create(context.Background(), uuid.New(), domain.ItemType("cruise"), nil, "QE2")
	require.ErrorIs(t, err, domain.ErrUnknownItemType)
}

func TestItemCreate_RejectsBlankName(t *testing.T) {
	svc := newItemService(&mockItemRepo{}, resolverDeps{})

	_, err := svc.Create(context.Background(), uuid.New(), domain.ItemTypeFlight, nil, "  ")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestItemCreate_StandaloneNeedsNoTripRights(t *testing.T) {
	actor := uuid.New()
	items := &mockItemRepo{
		create: func(_ context.Context, typ domain.ItemType, ownerID uuid.UUID, tripID *uuid.UUID, name string) (domain.ItemRef, error) {
			assert.Nil(t, tripID)
			return domain.ItemRef{Type: typ, ID: uuid.New(), OwnerID: ownerID}, nil
		},
	}

	svc := newItemService(items, resolverDeps{})
	ref, err := svc.Create(context.Background(), actor, domain.ItemTypeHotel, nil, "Grand Hotel")
	require.NoError(t, err)
	assert.Equal(t, actor, ref.OwnerID)
}

func TestItemCreate_OnTripRequiresEditRights(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}
	companionID := uuid.New()

	svc := newItemService(&mockItemRepo{}, resolverDeps{
		trips:      ownedTripRepo(trip),
		companions: linkingCompanions(companionID),
		tripLinks: &mockTripCompanionRepo{
			getForAny: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) (domain.TripCompanion, error) {
				return domain.TripCompanion{
					TripID:      trip.ID,
					CompanionID: companionID,
					Permissions: domain.PermissionSet{CanView: true},
				}, nil
			},
		},
	})

	_, err := svc.Create(context.Background(), uuid.New(), domain.ItemTypeEvent, &trip.ID, "Concert")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestItemGet_ViewerSeesRef(t *testing.T) {
	owner := uuid.New()
	item := domain.ItemRef{Type: domain.ItemTypeCarRental, ID: uuid.New(), OwnerID: owner}

	svc := newItemService(ownedItemRepo(item), resolverDeps{})
	got, err := svc.Get(context.Background(), owner, item.Type, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
}

func TestItemGet_StrangerGetsNotFound(t *testing.T) {
	item := domain.ItemRef{Type: domain.ItemTypeCarRental, ID: uuid.New(), OwnerID: uuid.New()}

	svc := newItemService(ownedItemRepo(item), resolverDeps{
		companions: linkingCompanions(),
		itemLinks:  notFoundItemCompanions(),
	})

	_, err := svc.Get(context.Background(), uuid.New(), item.Type, item.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
