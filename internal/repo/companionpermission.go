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

// CompanionPermissionRepo defines the persistence operations for global
// account-to-account grants. (granted_by, companion_id) is unique. These
// rows are only written by explicit grant/revoke actions, never by cascades.
type CompanionPermissionRepo interface {
	// FindOrCreate returns the grant row for the pair, creating it with
	// all-false permissions when absent. The second result reports whether
	// a new row was created.
	FindOrCreate(ctx context.Context, grantedBy, companionID uuid.UUID) (domain.CompanionPermission, bool, error)

	// GetForAny retrieves the grant row matching any of the candidate
	// companion ids. Returns domain.ErrNotFound when no candidate has a row.
	GetForAny(ctx context.Context, grantedBy uuid.UUID, companionIDs []uuid.UUID) (domain.CompanionPermission, error)

	// UpdatePermissions overlays the non-nil fields of upd onto the grant
	// row and returns the number of rows touched (0 or 1).
	UpdatePermissions(ctx context.Context, grantedBy, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)

	// Delete removes the grant row and returns rows deleted (0 or 1).
	Delete(ctx context.Context, grantedBy, companionID uuid.UUID) (int64, error)
}

// pgCompanionPermissionRepo is the Postgres implementation of CompanionPermissionRepo.
type pgCompanionPermissionRepo struct {
	db db
}

// NewCompanionPermissionRepo constructs a CompanionPermissionRepo backed by
// the provided db connection.
func NewCompanionPermissionRepo(db db) CompanionPermissionRepo {
	return &pgCompanionPermissionRepo{db: db}
}

// companionPermissionColumns is the column list every query in this file returns.
const companionPermissionColumns = `id, granted_by, companion_id, can_view,
	can_edit, can_manage_companions, created_at, updated_at`

// FindOrCreate inserts an all-false grant row or returns the existing one.
// The xmax = 0 system column is true only for freshly inserted rows, which
// is how a single round trip can report "was created".
func (r *pgCompanionPermissionRepo) FindOrCreate(ctx context.Context, grantedBy, companionID uuid.UUID) (domain.CompanionPermission, bool, error) {
	const q = `
		INSERT INTO companion_permissions (granted_by, companion_id)
		VALUES (@granted_by, @companion_id)
		ON CONFLICT (granted_by, companion_id) DO UPDATE SET companion_id = EXCLUDED.companion_id
		RETURNING ` + companionPermissionColumns + `, (xmax = 0) AS was_created`

	var (
		cp      domain.CompanionPermission
		id      pgtype.UUID
		granter pgtype.UUID
		compID  pgtype.UUID
		created bool
	)
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"granted_by": grantedBy, "companion_id": companionID})
	err := row.Scan(&id, &granter, &compID,
		&cp.Permissions.CanView, &cp.Permissions.CanEdit, &cp.Permissions.CanManageCompanions,
		&cp.CreatedAt, &cp.UpdatedAt, &created)
	if err != nil {
		return domain.CompanionPermission{}, false, fmt.Errorf("repo.CompanionPermissionRepo.FindOrCreate: %w", err)
	}
	cp.ID = uuid.UUID(id.Bytes)
	cp.GrantedBy = uuid.UUID(granter.Bytes)
	cp.CompanionID = uuid.UUID(compID.Bytes)
	return cp, created, nil
}

// GetForAny retrieves the grant row for any of the candidate companion ids.
func (r *pgCompanionPermissionRepo) GetForAny(ctx context.Context, grantedBy uuid.UUID, companionIDs []uuid.UUID) (domain.CompanionPermission, error) {
	if len(companionIDs) == 0 {
		return domain.CompanionPermission{}, fmt.Errorf("repo.CompanionPermissionRepo.GetForAny: %w", domain.ErrNotFound)
	}

	const q = `
		SELECT ` + companionPermissionColumns + `
		FROM companion_permissions
		WHERE granted_by = @granted_by AND companion_id = ANY(@companion_ids)
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"granted_by": grantedBy, "companion_ids": companionIDs})
	result, err := scanCompanionPermission(row)
	if err != nil {
		return domain.CompanionPermission{}, fmt.Errorf("repo.CompanionPermissionRepo.GetForAny: %w", err)
	}
	return result, nil
}

// UpdatePermissions overlays non-nil fields via COALESCE so that a partial
// update never clears a boolean the caller did not mention.
func (r *pgCompanionPermissionRepo) UpdatePermissions(ctx context.Context, grantedBy, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	const q = `
		UPDATE companion_permissions
		SET can_view              = COALESCE(@can_view, can_view),
		    can_edit              = COALESCE(@can_edit, can_edit),
		    can_manage_companions = COALESCE(@can_manage_companions, can_manage_companions),
		    updated_at            = now()
		WHERE granted_by = @granted_by AND companion_id = @companion_id`

	args := pgx.NamedArgs{
		"granted_by":            grantedBy,
		"companion_id":          companionID,
		"can_view":              upd.CanView,
		"can_edit":              upd.CanEdit,
		"can_manage_companions": upd.CanManageCompanions,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("repo.CompanionPermissionRepo.UpdatePermissions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the grant row for one granter/companion pair.
func (r *pgCompanionPermissionRepo) Delete(ctx context.Context, grantedBy, companionID uuid.UUID) (int64, error) {
	const q = `
		DELETE FROM companion_permissions
		WHERE granted_by = @granted_by AND companion_id = @companion_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"granted_by": grantedBy, "companion_id": companionID})
	if err != nil {
		return 0, fmt.Errorf("repo.CompanionPermissionRepo.Delete: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanCompanionPermission maps a single database row into a domain.CompanionPermission.
func scanCompanionPermission(s scanner) (domain.CompanionPermission, error) {
	var (
		cp      domain.CompanionPermission
		id      pgtype.UUID
		granter pgtype.UUID
		compID  pgtype.UUID
	)
	err := s.Scan(&id, &granter, &compID,
		&cp.Permissions.CanView, &cp.Permissions.CanEdit, &cp.Permissions.CanManageCompanions,
		&cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CompanionPermission{}, domain.ErrNotFound
		}
		return domain.CompanionPermission{}, err
	}
	cp.ID = uuid.UUID(id.Bytes)
	cp.GrantedBy = uuid.UUID(granter.Bytes)
	cp.CompanionID = uuid.UUID(compID.Bytes)
	return cp, nil
}
