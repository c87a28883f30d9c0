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

// companionFixture is a companion record in owner's address book.
func companionFixture(owner uuid.UUID) domain.TravelCompanion {
	return domain.TravelCompanion{
		ID:        uuid.New(),
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		CreatedBy: owner,
	}
}

// knownCompanions stubs GetByID for the given records.
func knownCompanions(records ...domain.TravelCompanion) *mockCompanionRepo {
	return &mockCompanionRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.TravelCompanion, error) {
			for _, c := range records {
				if c.ID == id {
					return c, nil
				}
			}
			return domain.TravelCompanion{}, domain.ErrNotFound
		},
	}
}

func newCompanionService(companions *mockCompanionRepo, tripLinks *mockTripCompanionRepo, items *mockItemRepo, itemLinks *mockItemCompanionRepo, d resolverDeps) *service.CompanionService {
	// The resolver shares the service's mocks unless a test overrides one.
	if d.companions == nil {
		d.companions = companions
	}
	if d.tripLinks == nil {
		d.tripLinks = tripLinks
	}
	if d.items == nil {
		d.items = items
	}
	if d.itemLinks == nil {
		d.itemLinks = itemLinks
	}
	resolver := newResolver(d)
	cascade := service.NewCascadeManager(items, itemLinks)
	return service.NewCompanionService(companions, tripLinks, resolver, cascade)
}

func TestCreateCompanion_RequiresNameAndEmail(t *testing.T) {
	svc := newCompanionService(&mockCompanionRepo{}, &mockTripCompanionRepo{}, &mockItemRepo{}, &mockItemCompanionRepo{}, resolverDeps{})

	_, err := svc.CreateCompanion(context.Background(), uuid.New(), domain.TravelCompanion{Email: "x@example.com"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateCompanion(context.Background(), uuid.New(), domain.TravelCompanion{FirstName: "Grace"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

// Adding a companion to a trip writes the membership row and fans the grant
// out to every item on the trip in one operation.
func TestAddToTrip_CascadesToEveryItem(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner, Name: "Alps"}
	companion := companionFixture(owner)
	items, all := tripItemsFixture(owner, trip.ID)

	companions := knownCompanions(companion)
	var memberRow domain.TripCompanion
	tripLinks := &mockTripCompanionRepo{
		create: func(_ context.Context, tc domain.TripCompanion) (domain.TripCompanion, error) {
			tc.ID = uuid.New()
			memberRow = tc
			return tc, nil
		},
	}
	var inserted []domain.ItemCompanion
	itemLinks := &mockItemCompanionRepo{
		bulkCreate: func(_ context.Context, rows []domain.ItemCompanion) error {
			inserted = rows
			return nil
		},
	}

	svc := newCompanionService(companions, tripLinks, items, itemLinks, resolverDeps{
		trips: ownedTripRepo(trip),
	})

	member, cascaded, err := svc.AddToTrip(context.Background(), owner, trip.ID, companion.ID,
		domain.PermissionUpdate{CanEdit: boolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, len(all), cascaded)
	assert.Len(t, inserted, len(all))
	assert.Equal(t, memberRow.ID, member.ID)
	assert.Equal(t, domain.PermissionSourceExplicit, member.PermissionSource)
	assert.True(t, member.Permissions.CanView)
	assert.True(t, member.Permissions.CanEdit)

	for _, row := range inserted {
		assert.True(t, row.InheritedFromTrip)
		assert.Equal(t, companion.ID, row.CompanionID)
		assert.True(t, row.Permissions.CanEdit)
	}
}

func TestAddToTrip_UnknownCompanionFails(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}

	svc := newCompanionService(knownCompanions(), &mockTripCompanionRepo{}, &mockItemRepo{}, &mockItemCompanionRepo{}, resolverDeps{
		trips: ownedTripRepo(trip),
	})

	_, _, err := svc.AddToTrip(context.Background(), owner, trip.ID, uuid.New(), domain.PermissionUpdate{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// A shared viewer without manage-companions rights cannot change membership.
func TestAddToTrip_ViewerGetsForbidden(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}
	companionID := uuid.New()

	tripLinks := &mockTripCompanionRepo{
		getForAny: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) (domain.TripCompanion, error) {
			return domain.TripCompanion{
				TripID:      trip.ID,
				CompanionID: companionID,
				Permissions: domain.PermissionSet{CanView: true},
			}, nil
		},
	}

	svc := newCompanionService(knownCompanions(), tripLinks, &mockItemRepo{}, &mockItemCompanionRepo{}, resolverDeps{
		trips:      ownedTripRepo(trip),
		companions: linkingCompanions(companionID),
	})

	_, _, err := svc.AddToTrip(context.Background(), uuid.New(), trip.ID, uuid.New(), domain.PermissionUpdate{})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

// Removing membership sweeps inherited item grants and reports how many
// went; independent grants stay behind.
func TestRemoveFromTrip_SweepsInheritedGrantsOnly(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}
	companionID := uuid.New()
	items, all := tripItemsFixture(owner, trip.ID)

	tripLinks := &mockTripCompanionRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) (int64, error) { return 1, nil },
	}
	independent := all[0].ID
	itemLinks := &mockItemCompanionRepo{
		deleteInherited: func(_ context.Context, _ domain.ItemType, itemID, _ uuid.UUID) (int64, error) {
			if itemID == independent {
				return 0, nil
			}
			return 1, nil
		},
	}

	svc := newCompanionService(knownCompanions(), tripLinks, items, itemLinks, resolverDeps{
		trips: ownedTripRepo(trip),
	})

	removed, err := svc.RemoveFromTrip(context.Background(), owner, trip.ID, companionID)
	require.NoError(t, err)
	assert.Equal(t, len(all)-1, removed)
}

func TestRemoveFromTrip_NotAMemberIsNotFound(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}

	tripLinks := &mockTripCompanionRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) (int64, error) { return 0, nil },
	}

	svc := newCompanionService(knownCompanions(), tripLinks, &mockItemRepo{}, &mockItemCompanionRepo{}, resolverDeps{
		trips: ownedTripRepo(trip),
	})

	_, err := svc.RemoveFromTrip(context.Background(), owner, trip.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// Demoting a trip permission re-stamps the inherited item rows; it never
// deletes them.
func TestUpdateTripPermissions_DemotionUpdatesButNeverRemoves(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}
	companionID := uuid.New()
	items, all := tripItemsFixture(owner, trip.ID)

	tripLinks := &mockTripCompanionRepo{
		updatePermissions: func(_ context.Context, _, _ uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
			require.NotNil(t, upd.CanEdit)
			assert.False(t, *upd.CanEdit)
			return 1, nil
		},
	}
	updates := 0
	itemLinks := &mockItemCompanionRepo{
		updateInheritedPerms: func(_ context.Context, _ domain.ItemType, _, _ uuid.UUID, _ domain.PermissionUpdate) (int64, error) {
			updates++
			return 1, nil
		},
		// deleteInherited deliberately unstubbed: a demotion that deletes
		// rows panics the test.
	}

	svc := newCompanionService(knownCompanions(), tripLinks, items, itemLinks, resolverDeps{
		trips: ownedTripRepo(trip),
	})

	cascaded, err := svc.UpdateTripPermissions(context.Background(), owner, trip.ID, companionID,
		domain.PermissionUpdate{CanEdit: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, len(all), cascaded)
	assert.Equal(t, len(all), updates)
}

func TestListTripCompanions_NeverReturnsNil(t *testing.T) {
	owner := uuid.New()
	trip := domain.Trip{ID: uuid.New(), OwnerID: owner}

	tripLinks := &mockTripCompanionRepo{
		listByTrip: func(_ context.Context, _ uuid.UUID) ([]domain.TripCompanion, error) { return nil, nil },
	}

	svc := newCompanionService(knownCompanions(), tripLinks, &mockItemRepo{}, &mockItemCompanionRepo{}, resolverDeps{
		trips: ownedTripRepo(trip),
	})

	members, err := svc.ListTripCompanions(context.Background(), owner, trip.ID)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)
}
