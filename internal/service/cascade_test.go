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

// tripItemsFixture stubs item enumeration: two flights and one hotel on the
// trip, nothing of the other types.
func tripItemsFixture(owner, tripID uuid.UUID) (*mockItemRepo, []domain.ItemRef) {
	flights := []domain.ItemRef{
		{Type: domain.ItemTypeFlight, ID: uuid.New(), OwnerID: owner, TripID: &tripID},
		{Type: domain.ItemTypeFlight, ID: uuid.New(), OwnerID: owner, TripID: &tripID},
	}
	hotels := []domain.ItemRef{
		{Type: domain.ItemTypeHotel, ID: uuid.New(), OwnerID: owner, TripID: &tripID},
	}

	repo := &mockItemRepo{
		listRefsByTrip: func(_ context.Context, typ domain.ItemType, _ uuid.UUID) ([]domain.ItemRef, error) {
			switch typ {
			case domain.ItemTypeFlight:
				return flights, nil
			case domain.ItemTypeHotel:
				return hotels, nil
			default:
				return nil, nil
			}
		},
	}
	return repo, append(append([]domain.ItemRef{}, flights...), hotels...)
}

func TestCascadeAdd_GrantsEveryItemOnTheTrip(t *testing.T) {
	owner := uuid.New()
	tripID := uuid.New()
	companionID := uuid.New()
	items, all := tripItemsFixture(owner, tripID)

	var inserted []domain.ItemCompanion
	links := &mockItemCompanionRepo{
		bulkCreate: func(_ context.Context, rows []domain.ItemCompanion) error {
			inserted = rows
			return nil
		},
	}

	m := service.NewCascadeManager(items, links)
	count, err := m.CascadeAddToAllItems(context.Background(), companionID, tripID, owner, domain.PermissionUpdate{})
	require.NoError(t, err)
	assert.Equal(t, len(all), count)
	require.Len(t, inserted, 3)

	for _, row := range inserted {
		assert.Equal(t, companionID, row.CompanionID)
		assert.True(t, row.InheritedFromTrip)
		assert.Equal(t, domain.StatusAttending, row.Status)
		// Cascade default: view on, everything else off.
		assert.Equal(t, domain.DefaultCascadeGrant(), row.Permissions)
	}
}

func TestCascadeAdd_PermissionOverrideAppliesToEveryRow(t *testing.T) {
	owner := uuid.New()
	tripID := uuid.New()
	items, _ := tripItemsFixture(owner, tripID)

	var inserted []domain.ItemCompanion
	links := &mockItemCompanionRepo{
		bulkCreate: func(_ context.Context, rows []domain.ItemCompanion) error {
			inserted = rows
			return nil
		},
	}

	m := service.NewCascadeManager(items, links)
	_, err := m.CascadeAddToAllItems(context.Background(), uuid.New(), tripID, owner,
		domain.PermissionUpdate{CanEdit: boolPtr(true)})
	require.NoError(t, err)

	for _, row := range inserted {
		assert.True(t, row.Permissions.CanView)
		assert.True(t, row.Permissions.CanEdit)
		assert.False(t, row.Permissions.CanManageCompanions)
	}
}

func TestCascadeAdd_EmptyTripWritesNothing(t *testing.T) {
	items := &mockItemRepo{
		listRefsByTrip: func(_ context.Context, _ domain.ItemType, _ uuid.UUID) ([]domain.ItemRef, error) {
			return nil, nil
		},
	}
	// bulkCreate deliberately unstubbed: any insert attempt panics the test.
	links := &mockItemCompanionRepo{}

	m := service.NewCascadeManager(items, links)
	count, err := m.CascadeAddToAllItems(context.Background(), uuid.New(), uuid.New(), uuid.New(), domain.PermissionUpdate{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

// Re-adding a companion is idempotent at the storage layer (duplicates are
// skipped) and the reported count still covers every item on the trip.
func TestCascadeAdd_RerunReportsFullCount(t *testing.T) {
	owner := uuid.New()
	tripID := uuid.New()
	items, all := tripItemsFixture(owner, tripID)

	calls := 0
	links := &mockItemCompanionRepo{
		bulkCreate: func(_ context.Context, _ []domain.ItemCompanion) error {
			calls++
			return nil
		},
	}

	m := service.NewCascadeManager(items, links)
	companionID := uuid.New()

	first, err := m.CascadeAddToAllItems(context.Background(), companionID, tripID, owner, domain.PermissionUpdate{})
	require.NoError(t, err)
	second, err := m.CascadeAddToAllItems(context.Background(), companionID, tripID, owner, domain.PermissionUpdate{})
	require.NoError(t, err)

	assert.Equal(t, len(all), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, calls)
}

func TestCascadeRemove_OnlyInheritedRowsCounted(t *testing.T) {
	owner := uuid.New()
	tripID := uuid.New()
	companionID := uuid.New()
	items, all := tripItemsFixture(owner, tripID)

	// One of the three items holds an independent grant; DeleteInherited
	// reports 0 for it and the cascade must leave it alone.
	independent := all[1].ID
	links := &mockItemCompanionRepo{
		deleteInherited: func(_ context.Context, _ domain.ItemType, itemID, _ uuid.UUID) (int64, error) {
			if itemID == independent {
				return 0, nil
			}
			return 1, nil
		},
	}

	m := service.NewCascadeManager(items, links)
	removed, err := m.CascadeRemoveFromAllItems(context.Background(), companionID, tripID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestUpdateCascadedPermissions_TouchesOnlyInheritedRows(t *testing.T) {
	owner := uuid.New()
	tripID := uuid.New()
	companionID := uuid.New()
	items, all := tripItemsFixture(owner, tripID)

	var touched []uuid.UUID
	links := &mockItemCompanionRepo{
		updateInheritedPerms: func(_ context.Context, _ domain.ItemType, itemID, _ uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
			require.NotNil(t, upd.CanEdit)
			assert.Nil(t, upd.CanView)
			touched = append(touched, itemID)
			return 1, nil
		},
	}

	m := service.NewCascadeManager(items, links)
	updated, err := m.UpdateCascadedPermissions(context.Background(), companionID, tripID,
		domain.PermissionUpdate{CanEdit: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, len(all), updated)
	assert.Len(t, touched, len(all))
}
