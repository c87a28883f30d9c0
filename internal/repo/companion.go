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

// CompanionRepo defines the persistence operations for TravelCompanions.
//
// The two id-listing methods exist because the permission resolver never
// matches users to companions itself — it asks for the candidate companion
// id set and checks grant rows against any of them.
type CompanionRepo interface {
	// Create inserts a new companion and returns the persisted record.
	Create(ctx context.Context, c domain.TravelCompanion) (domain.TravelCompanion, error)

	// GetByID retrieves a companion by primary key.
	// Returns domain.ErrNotFound if no companion with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TravelCompanion, error)

	// ListByCreator returns all companions created by the given user,
	// ordered by last name then first name.
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.TravelCompanion, error)

	// IDsForUser returns the ids of every companion associated with the
	// user — records the user created plus records linked to their account.
	// Used by the global (account-to-account) permission scope.
	IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// IDsLinkingUser returns the ids of the owner's companion records that
	// are linked to the given user's account. Used by the trip and item
	// scopes, where grants live in the trip owner's address book.
	IDsLinkingUser(ctx context.Context, ownerID, userID uuid.UUID) ([]uuid.UUID, error)
}

// pgCompanionRepo is the Postgres implementation of CompanionRepo.
type pgCompanionRepo struct {
	db db
}

// NewCompanionRepo constructs a CompanionRepo backed by the provided db connection.
func NewCompanionRepo(db db) CompanionRepo {
	return &pgCompanionRepo{db: db}
}

// Create inserts a new companion row and returns the full persisted record.
func (r *pgCompanionRepo) Create(ctx context.Context, c domain.TravelCompanion) (domain.TravelCompanion, error) {
	const q = `
		INSERT INTO travel_companions (first_name, last_name, email, linked_user_id, created_by)
		VALUES (@first_name, @last_name, @email, @linked_user_id, @created_by)
		RETURNING id, first_name, last_name, email, linked_user_id, created_by, created_at, updated_at`

	args := pgx.NamedArgs{
		"first_name":     c.FirstName,
		"last_name":      c.LastName,
		"email":          c.Email,
		"linked_user_id": c.LinkedUserID, // nil becomes NULL
		"created_by":     c.CreatedBy,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCompanion(row)
	if err != nil {
		return domain.TravelCompanion{}, fmt.Errorf("repo.CompanionRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a companion by primary key.
func (r *pgCompanionRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TravelCompanion, error) {
	const q = `
		SELECT id, first_name, last_name, email, linked_user_id, created_by, created_at, updated_at
		FROM travel_companions
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCompanion(row)
	if err != nil {
		return domain.TravelCompanion{}, fmt.Errorf("repo.CompanionRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByCreator returns the user's companion records ordered by name.
func (r *pgCompanionRepo) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]domain.TravelCompanion, error) {
	const q = `
		SELECT id, first_name, last_name, email, linked_user_id, created_by, created_at, updated_at
		FROM travel_companions
		WHERE created_by = @created_by
		ORDER BY last_name, first_name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"created_by": creatorID})
	if err != nil {
		return nil, fmt.Errorf("repo.CompanionRepo.ListByCreator: %w", err)
	}
	defer rows.Close()

	companions := []domain.TravelCompanion{}
	for rows.Next() {
		c, err := scanCompanion(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CompanionRepo.ListByCreator: scan: %w", err)
		}
		companions = append(companions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CompanionRepo.ListByCreator: rows: %w", err)
	}
	return companions, nil
}

// IDsForUser returns ids of companions the user created or is linked to.
func (r *pgCompanionRepo) IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT id
		FROM travel_companions
		WHERE created_by = @user_id OR linked_user_id = @user_id`

	ids, err := r.queryIDs(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.CompanionRepo.IDsForUser: %w", err)
	}
	return ids, nil
}

// IDsLinkingUser returns ids of the owner's companion records linked to the user.
func (r *pgCompanionRepo) IDsLinkingUser(ctx context.Context, ownerID, userID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT id
		FROM travel_companions
		WHERE created_by = @owner_id AND linked_user_id = @user_id`

	ids, err := r.queryIDs(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.CompanionRepo.IDsLinkingUser: %w", err)
	}
	return ids, nil
}

// queryIDs runs a single-column uuid query and collects the results.
func (r *pgCompanionRepo) queryIDs(ctx context.Context, q string, args pgx.NamedArgs) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, uuid.UUID(id.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return ids, nil
}

// scanCompanion maps a single database row into a domain.TravelCompanion.
func scanCompanion(s scanner) (domain.TravelCompanion, error) {
	var (
		c      domain.TravelCompanion
		id     pgtype.UUID
		linked pgtype.UUID
		by     pgtype.UUID
	)
	err := s.Scan(&id, &c.FirstName, &c.LastName, &c.Email, &linked, &by, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelCompanion{}, domain.ErrNotFound
		}
		return domain.TravelCompanion{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.CreatedBy = uuid.UUID(by.Bytes)
	if linked.Valid {
		lu := uuid.UUID(linked.Bytes)
		c.LinkedUserID = &lu
	}
	return c, nil
}
