package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripshare/backend/internal/domain"
)

// itemTables maps each item type to the table that stores that variant.
// Built once at init and never mutated — the registry is static configuration.
var itemTables = map[domain.ItemType]string{
	domain.ItemTypeFlight:         "flights",
	domain.ItemTypeHotel:          "hotels",
	domain.ItemTypeTransportation: "transportations",
	domain.ItemTypeCarRental:      "car_rentals",
	domain.ItemTypeEvent:          "events",
}

// tableFor resolves the storage table for an item type.
// Returns domain.ErrUnknownItemType for tags outside the closed set.
func tableFor(t domain.ItemType) (string, error) {
	table, ok := itemTables[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownItemType, t)
	}
	return table, nil
}

// ItemRepo defines the persistence operations for travel items, uniformly
// across the five item tables. Only the engine-relevant columns (id, owner,
// trip) are surfaced; type-specific fields belong to their own feature areas.
type ItemRepo interface {
	// Create inserts a new item of the given type and returns its reference.
	Create(ctx context.Context, typ domain.ItemType, ownerID uuid.UUID, tripID *uuid.UUID, name string) (domain.ItemRef, error)

	// GetRef retrieves an item's reference by type and primary key.
	// Returns domain.ErrNotFound if the item does not exist, and
	// domain.ErrUnknownItemType for a tag outside the closed set.
	GetRef(ctx context.Context, typ domain.ItemType, id uuid.UUID) (domain.ItemRef, error)

	// ListRefsByTrip returns references for every item of the given type
	// currently belonging to the trip.
	ListRefsByTrip(ctx context.Context, typ domain.ItemType, tripID uuid.UUID) ([]domain.ItemRef, error)
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

// Create inserts a new item row into the table registered for typ.
func (r *pgItemRepo) Create(ctx context.Context, typ domain.ItemType, ownerID uuid.UUID, tripID *uuid.UUID, name string) (domain.ItemRef, error) {
	table, err := tableFor(typ)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}

	// table comes from the static registry, never from input.
	q := fmt.Sprintf(`
		INSERT INTO %s (user_id, trip_id, name)
		VALUES (@user_id, @trip_id, @name)
		RETURNING id, user_id, trip_id`, table)

	args := pgx.NamedArgs{
		"user_id": ownerID,
		"trip_id": tripID, // nil becomes NULL: standalone item
		"name":    name,
	}

	row := r.db.QueryRow(ctx, q, args)
	ref, err := scanItemRef(row, typ)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return ref, nil
}

// GetRef retrieves an item reference by type and primary key.
func (r *pgItemRepo) GetRef(ctx context.Context, typ domain.ItemType, id uuid.UUID) (domain.ItemRef, error) {
	table, err := tableFor(typ)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("repo.ItemRepo.GetRef: %w", err)
	}

	q := fmt.Sprintf(`SELECT id, user_id, trip_id FROM %s WHERE id = @id`, table)

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	ref, err := scanItemRef(row, typ)
	if err != nil {
		return domain.ItemRef{}, fmt.Errorf("repo.ItemRepo.GetRef: %w", err)
	}
	return ref, nil
}

// ListRefsByTrip returns references for all items of one type on a trip.
func (r *pgItemRepo) ListRefsByTrip(ctx context.Context, typ domain.ItemType, tripID uuid.UUID) ([]domain.ItemRef, error) {
	table, err := tableFor(typ)
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListRefsByTrip: %w", err)
	}

	q := fmt.Sprintf(`SELECT id, user_id, trip_id FROM %s WHERE trip_id = @trip_id`, table)

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListRefsByTrip: %w", err)
	}
	defer rows.Close()

	var refs []domain.ItemRef
	for rows.Next() {
		ref, err := scanItemRef(rows, typ)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListRefsByTrip: scan: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListRefsByTrip: rows: %w", err)
	}
	return refs, nil
}

// scanItemRef maps an (id, user_id, trip_id) row into a domain.ItemRef.
func scanItemRef(s scanner, typ domain.ItemType) (domain.ItemRef, error) {
	var (
		id     pgtype.UUID
		owner  pgtype.UUID
		tripID pgtype.UUID
	)
	if err := s.Scan(&id, &owner, &tripID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItemRef{}, domain.ErrNotFound
		}
		return domain.ItemRef{}, err
	}

	ref := domain.ItemRef{
		Type:    typ,
		ID:      uuid.UUID(id.Bytes),
		OwnerID: uuid.UUID(owner.Bytes),
	}
	if tripID.Valid {
		tid := uuid.UUID(tripID.Bytes)
		ref.TripID = &tid
	}
	return ref, nil
}
