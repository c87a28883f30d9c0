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

// TripCompanionRepo defines the persistence operations for trip-level
// membership rows. (trip_id, companion_id) is unique.
type TripCompanionRepo interface {
	// Create inserts a membership row, or returns the existing row when the
	// companion is already on the trip. Re-adding never overwrites the
	// permissions of an existing membership.
	Create(ctx context.Context, tc domain.TripCompanion) (domain.TripCompanion, error)

	// Get retrieves the membership row for one companion on one trip.
	// Returns domain.ErrNotFound if the companion is not on the trip.
	Get(ctx context.Context, tripID, companionID uuid.UUID) (domain.TripCompanion, error)

	// GetForAny retrieves the membership row matching any of the candidate
	// companion ids. The resolver passes every companion record that links
	// the acting user to the trip owner; grants are additive across records,
	// so any matching row answers the lookup.
	// Returns domain.ErrNotFound when no candidate has a row.
	GetForAny(ctx context.Context, tripID uuid.UUID, companionIDs []uuid.UUID) (domain.TripCompanion, error)

	// ListByTrip returns all membership rows for a trip.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripCompanion, error)

	// UpdatePermissions overlays the non-nil fields of upd onto the
	// membership row and returns the number of rows touched (0 or 1).
	// A missing row is not an error — the caller decides whether 0 matters.
	UpdatePermissions(ctx context.Context, tripID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)

	// Delete removes the membership row and returns the number of rows
	// deleted (0 or 1).
	Delete(ctx context.Context, tripID, companionID uuid.UUID) (int64, error)
}

// pgTripCompanionRepo is the Postgres implementation of TripCompanionRepo.
type pgTripCompanionRepo struct {
	db db
}

// NewTripCompanionRepo constructs a TripCompanionRepo backed by the provided
// db connection.
func NewTripCompanionRepo(db db) TripCompanionRepo {
	return &pgTripCompanionRepo{db: db}
}

// tripCompanionColumns is the column list every query in this file returns.
const tripCompanionColumns = `id, trip_id, companion_id, can_view, can_edit,
	can_manage_companions, added_by, permission_source, created_at, updated_at`

// Create inserts a membership row. The DO UPDATE SET trick forces RETURNING
// to fire even when the row already exists, without clobbering its
// permissions — only updated_at moves.
func (r *pgTripCompanionRepo) Create(ctx context.Context, tc domain.TripCompanion) (domain.TripCompanion, error) {
	const q = `
		INSERT INTO trip_companions
			(trip_id, companion_id, can_view, can_edit, can_manage_companions, added_by, permission_source)
		VALUES
			(@trip_id, @companion_id, @can_view, @can_edit, @can_manage_companions, @added_by, @permission_source)
		ON CONFLICT (trip_id, companion_id) DO UPDATE SET updated_at = now()
		RETURNING ` + tripCompanionColumns

	args := pgx.NamedArgs{
		"trip_id":               tc.TripID,
		"companion_id":          tc.CompanionID,
		"can_view":              tc.Permissions.CanView,
		"can_edit":              tc.Permissions.CanEdit,
		"can_manage_companions": tc.Permissions.CanManageCompanions,
		"added_by":              tc.AddedBy,
		"permission_source":     tc.PermissionSource,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTripCompanion(row)
	if err != nil {
		return domain.TripCompanion{}, fmt.Errorf("repo.TripCompanionRepo.Create: %w", err)
	}
	return result, nil
}

// Get retrieves one membership row by its unique pair.
func (r *pgTripCompanionRepo) Get(ctx context.Context, tripID, companionID uuid.UUID) (domain.TripCompanion, error) {
	const q = `
		SELECT ` + tripCompanionColumns + `
		FROM trip_companions
		WHERE trip_id = @trip_id AND companion_id = @companion_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "companion_id": companionID})
	result, err := scanTripCompanion(row)
	if err != nil {
		return domain.TripCompanion{}, fmt.Errorf("repo.TripCompanionRepo.Get: %w", err)
	}
	return result, nil
}

// GetForAny retrieves the membership row for any of the candidate companion ids.
func (r *pgTripCompanionRepo) GetForAny(ctx context.Context, tripID uuid.UUID, companionIDs []uuid.UUID) (domain.TripCompanion, error) {
	if len(companionIDs) == 0 {
		return domain.TripCompanion{}, fmt.Errorf("repo.TripCompanionRepo.GetForAny: %w", domain.ErrNotFound)
	}

	const q = `
		SELECT ` + tripCompanionColumns + `
		FROM trip_companions
		WHERE trip_id = @trip_id AND companion_id = ANY(@companion_ids)
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "companion_ids": companionIDs})
	result, err := scanTripCompanion(row)
	if err != nil {
		return domain.TripCompanion{}, fmt.Errorf("repo.TripCompanionRepo.GetForAny: %w", err)
	}
	return result, nil
}

// ListByTrip returns all membership rows for a trip.
func (r *pgTripCompanionRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripCompanion, error) {
	const q = `
		SELECT ` + tripCompanionColumns + `
		FROM trip_companions
		WHERE trip_id = @trip_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripCompanionRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	members := []domain.TripCompanion{}
	for rows.Next() {
		tc, err := scanTripCompanion(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripCompanionRepo.ListByTrip: scan: %w", err)
		}
		members = append(members, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripCompanionRepo.ListByTrip: rows: %w", err)
	}
	return members, nil
}

// UpdatePermissions overlays non-nil fields via COALESCE so that a partial
// update never clears a boolean the caller did not mention.
func (r *pgTripCompanionRepo) UpdatePermissions(ctx context.Context, tripID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	const q = `
		UPDATE trip_companions
		SET can_view              = COALESCE(@can_view, can_view),
		    can_edit              = COALESCE(@can_edit, can_edit),
		    can_manage_companions = COALESCE(@can_manage_companions, can_manage_companions),
		    updated_at            = now()
		WHERE trip_id = @trip_id AND companion_id = @companion_id`

	args := pgx.NamedArgs{
		"trip_id":               tripID,
		"companion_id":          companionID,
		"can_view":              upd.CanView, // nil becomes NULL, COALESCE keeps the old value
		"can_edit":              upd.CanEdit,
		"can_manage_companions": upd.CanManageCompanions,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("repo.TripCompanionRepo.UpdatePermissions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the membership row for one companion on one trip.
func (r *pgTripCompanionRepo) Delete(ctx context.Context, tripID, companionID uuid.UUID) (int64, error) {
	const q = `
		DELETE FROM trip_companions
		WHERE trip_id = @trip_id AND companion_id = @companion_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "companion_id": companionID})
	if err != nil {
		return 0, fmt.Errorf("repo.TripCompanionRepo.Delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanTripCompanion maps a single database row into a domain.TripCompanion.
func scanTripCompanion(s scanner) (domain.TripCompanion, error) {
	var (
		tc      domain.TripCompanion
		id      pgtype.UUID
		tripID  pgtype.UUID
		compID  pgtype.UUID
		addedBy pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &compID,
		&tc.Permissions.CanView, &tc.Permissions.CanEdit, &tc.Permissions.CanManageCompanions,
		&addedBy, &tc.PermissionSource, &tc.CreatedAt, &tc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripCompanion{}, domain.ErrNotFound
		}
		return domain.TripCompanion{}, err
	}
	tc.ID = uuid.UUID(id.Bytes)
	tc.TripID = uuid.UUID(tripID.Bytes)
	tc.CompanionID = uuid.UUID(compID.Bytes)
	tc.AddedBy = uuid.UUID(addedBy.Bytes)
	return tc, nil
}
