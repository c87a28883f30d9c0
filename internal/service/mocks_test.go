package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// Function-field test doubles for every repo interface. Set only the fields
// a test needs; an unset field that gets called panics, which points straight
// at the missing stub.

type mockTripRepo struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockItemRepo struct {
	create         func(ctx context.Context, typ domain.ItemType, ownerID uuid.UUID, tripID *uuid.UUID, name string) (domain.ItemRef, error)
	getRef         func(ctx context.Context, typ domain.ItemType, id uuid.UUID) (domain.ItemRef, error)
	listRefsByTrip func(ctx context.Context, typ domain.ItemType, tripID uuid.UUID) ([]domain.ItemRef, error)
}

func (m *mockItemRepo) Create(ctx context.Context, typ domain.ItemType, ownerID uuid.UUID, tripID *uuid.UUID, name string) (domain.ItemRef, error) {
	return m.create(ctx, typ, ownerID, tripID, name)
}
func (m *mockItemRepo) GetRef(ctx context.Context, typ domain.ItemType, id uuid.UUID) (domain.ItemRef, error) {
	return m.getRef(ctx, typ, id)
}
func (m *mockItemRepo) ListRefsByTrip(ctx context.Context, typ domain.ItemType, tripID uuid.UUID) ([]domain.ItemRef, error) {
	return m.listRefsByTrip(ctx, typ, tripID)
}

var _ repo.ItemRepo = (*mockItemRepo)(nil)

type mockCompanionRepo struct {
	create         func(ctx context.Context, c domain.TravelCompanion) (domain.TravelCompanion, error)
	getByID        func(ctx context.Context, id uuid.UUID) (domain.TravelCompanion, error)
	listByCreator  func(ctx context.Context, creatorID uuid.UUID) ([]domain.TravelCompanion, error)
	idsForUser     func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	idsLinkingUser func(ctx context.Context, ownerID, userID uuid.UUID) ([]uuid.UUID, error)
}

func (m *mockCompanionRepo) Create(ctx context.Context, c domain.TravelCompanion) (domain.TravelCompanion, error) {
	return m.create(ctx, c)
}
func (m *mockCompanionRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TravelCompanion, error) {
	return m.getByID(ctx, id)
}
func (m *mockCompanionRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.TravelCompanion, error) {
	return m.listByCreator(ctx, creatorID)
}
func (m *mockCompanionRepo) IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.idsForUser(ctx, userID)
}
func (m *mockCompanionRepo) IDsLinkingUser(ctx context.Context, ownerID, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.idsLinkingUser(ctx, ownerID, userID)
}

var _ repo.CompanionRepo = (*mockCompanionRepo)(nil)

type mockTripCompanionRepo struct {
	create            func(ctx context.Context, tc domain.TripCompanion) (domain.TripCompanion, error)
	get               func(ctx context.Context, tripID, companionID uuid.UUID) (domain.TripCompanion, error)
	getForAny         func(ctx context.Context, tripID uuid.UUID, companionIDs []uuid.UUID) (domain.TripCompanion, error)
	listByTrip        func(ctx context.Context, tripID uuid.UUID) ([]domain.TripCompanion, error)
	updatePermissions func(ctx context.Context, tripID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)
	delete            func(ctx context.Context, tripID, companionID uuid.UUID) (int64, error)
}

func (m *mockTripCompanionRepo) Create(ctx context.Context, tc domain.TripCompanion) (domain.TripCompanion, error) {
	return m.create(ctx, tc)
}
func (m *mockTripCompanionRepo) Get(ctx context.Context, tripID, companionID uuid.UUID) (domain.TripCompanion, error) {
	return m.get(ctx, tripID, companionID)
}
func (m *mockTripCompanionRepo) GetForAny(ctx context.Context, tripID uuid.UUID, companionIDs []uuid.UUID) (domain.TripCompanion, error) {
	return m.getForAny(ctx, tripID, companionIDs)
}
func (m *mockTripCompanionRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripCompanion, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockTripCompanionRepo) UpdatePermissions(ctx context.Context, tripID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	return m.updatePermissions(ctx, tripID, companionID, upd)
}
func (m *mockTripCompanionRepo) Delete(ctx context.Context, tripID, companionID uuid.UUID) (int64, error) {
	return m.delete(ctx, tripID, companionID)
}

var _ repo.TripCompanionRepo = (*mockTripCompanionRepo)(nil)

type mockItemCompanionRepo struct {
	bulkCreate           func(ctx context.Context, rows []domain.ItemCompanion) error
	get                  func(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (domain.ItemCompanion, error)
	getForAny            func(ctx context.Context, typ domain.ItemType, itemID uuid.UUID, companionIDs []uuid.UUID) (domain.ItemCompanion, error)
	listByItem           func(ctx context.Context, typ domain.ItemType, itemID uuid.UUID) ([]domain.ItemCompanion, error)
	upsert               func(ctx context.Context, ic domain.ItemCompanion) (domain.ItemCompanion, error)
	updatePermissions    func(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)
	updateInheritedPerms func(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)
	delete               func(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error)
	deleteInherited      func(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error)
}

func (m *mockItemCompanionRepo) BulkCreate(ctx context.Context, rows []domain.ItemCompanion) error {
	return m.bulkCreate(ctx, rows)
}
func (m *mockItemCompanionRepo) Get(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (domain.ItemCompanion, error) {
	return m.get(ctx, typ, itemID, companionID)
}
func (m *mockItemCompanionRepo) GetForAny(ctx context.Context, typ domain.ItemType, itemID uuid.UUID, companionIDs []uuid.UUID) (domain.ItemCompanion, error) {
	return m.getForAny(ctx, typ, itemID, companionIDs)
}
func (m *mockItemCompanionRepo) ListByItem(ctx context.Context, typ domain.ItemType, itemID uuid.UUID) ([]domain.ItemCompanion, error) {
	return m.listByItem(ctx, typ, itemID)
}
func (m *mockItemCompanionRepo) Upsert(ctx context.Context, ic domain.ItemCompanion) (domain.ItemCompanion, error) {
	return m.upsert(ctx, ic)
}
func (m *mockItemCompanionRepo) UpdatePermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	return m.updatePermissions(ctx, typ, itemID, companionID, upd)
}
func (m *mockItemCompanionRepo) UpdateInheritedPermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	return m.updateInheritedPerms(ctx, typ, itemID, companionID, upd)
}
func (m *mockItemCompanionRepo) Delete(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error) {
	return m.delete(ctx, typ, itemID, companionID)
}
func (m *mockItemCompanionRepo) DeleteInherited(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error) {
	return m.deleteInherited(ctx, typ, itemID, companionID)
}

var _ repo.ItemCompanionRepo = (*mockItemCompanionRepo)(nil)

type mockCompanionPermissionRepo struct {
	findOrCreate      func(ctx context.Context, grantedBy, companionID uuid.UUID) (domain.CompanionPermission, bool, error)
	getForAny         func(ctx context.Context, grantedBy uuid.UUID, companionIDs []uuid.UUID) (domain.CompanionPermission, error)
	updatePermissions func(ctx context.Context, grantedBy, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)
	delete            func(ctx context.Context, grantedBy, companionID uuid.UUID) (int64, error)
}

func (m *mockCompanionPermissionRepo) FindOrCreate(ctx context.Context, grantedBy, companionID uuid.UUID) (domain.CompanionPermission, bool, error) {
	return m.findOrCreate(ctx, grantedBy, companionID)
}
func (m *mockCompanionPermissionRepo) GetForAny(ctx context.Context, grantedBy uuid.UUID, companionIDs []uuid.UUID) (domain.CompanionPermission, error) {
	return m.getForAny(ctx, grantedBy, companionIDs)
}
func (m *mockCompanionPermissionRepo) UpdatePermissions(ctx context.Context, grantedBy, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	return m.updatePermissions(ctx, grantedBy, companionID, upd)
}
func (m *mockCompanionPermissionRepo) Delete(ctx context.Context, grantedBy, companionID uuid.UUID) (int64, error) {
	return m.delete(ctx, grantedBy, companionID)
}

var _ repo.CompanionPermissionRepo = (*mockCompanionPermissionRepo)(nil)

// boolPtr is a shorthand for building PermissionUpdate literals.
func boolPtr(b bool) *bool { return &b }

// notFoundTripCompanions returns a TripCompanionRepo whose lookups all miss.
func notFoundTripCompanions() *mockTripCompanionRepo {
	return &mockTripCompanionRepo{
		getForAny: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) (domain.TripCompanion, error) {
			return domain.TripCompanion{}, domain.ErrNotFound
		},
	}
}

// notFoundItemCompanions returns an ItemCompanionRepo whose lookups all miss.
func notFoundItemCompanions() *mockItemCompanionRepo {
	return &mockItemCompanionRepo{
		getForAny: func(_ context.Context, _ domain.ItemType, _ uuid.UUID, _ []uuid.UUID) (domain.ItemCompanion, error) {
			return domain.ItemCompanion{}, domain.ErrNotFound
		},
	}
}
