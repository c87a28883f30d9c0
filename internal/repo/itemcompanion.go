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

// ItemCompanionRepo defines the persistence operations for item-level grant
// rows. (item_type, item_id, companion_id) is unique.
//
// Methods come in two flavours: the *Inherited variants carry the mandatory
// inherited_from_trip predicate and are what the cascade manager calls;
// the plain variants touch any row and back direct per-item sharing.
type ItemCompanionRepo interface {
	// BulkCreate inserts all rows in one multi-row statement. Rows that
	// would violate the uniqueness constraint are silently skipped, which
	// is what makes cascade re-runs idempotent under races.
	BulkCreate(ctx context.Context, rows []domain.ItemCompanion) error

	// Get retrieves the grant row for one companion on one item.
	// Returns domain.ErrNotFound if no row exists.
	Get(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (domain.ItemCompanion, error)

	// GetForAny retrieves the grant row matching any of the candidate
	// companion ids. Returns domain.ErrNotFound when no candidate has a row.
	GetForAny(ctx context.Context, typ domain.ItemType, itemID uuid.UUID, companionIDs []uuid.UUID) (domain.ItemCompanion, error)

	// ListByItem returns all grant rows on one item.
	ListByItem(ctx context.Context, typ domain.ItemType, itemID uuid.UUID) ([]domain.ItemCompanion, error)

	// Upsert writes a grant row, overwriting permissions, status, and the
	// inherited flag if the row already exists. Direct sharing uses this:
	// a direct grant over an inherited row converts it to an independent one.
	Upsert(ctx context.Context, ic domain.ItemCompanion) (domain.ItemCompanion, error)

	// UpdatePermissions overlays the non-nil fields of upd onto the grant
	// row regardless of its inherited flag. Returns rows touched (0 or 1).
	UpdatePermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)

	// UpdateInheritedPermissions is UpdatePermissions restricted to rows
	// with inherited_from_trip = true. Independent grants are never touched.
	UpdateInheritedPermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error)

	// Delete removes the grant row regardless of its inherited flag.
	// Returns rows deleted (0 or 1).
	Delete(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error)

	// DeleteInherited removes the grant row only when inherited_from_trip =
	// true, preserving independent grants for the same companion on the
	// same item. Returns rows deleted (0 or 1).
	DeleteInherited(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error)
}

// pgItemCompanionRepo is the Postgres implementation of ItemCompanionRepo.
type pgItemCompanionRepo struct {
	db db
}

// NewItemCompanionRepo constructs an ItemCompanionRepo backed by the
// provided db connection.
func NewItemCompanionRepo(db db) ItemCompanionRepo {
	return &pgItemCompanionRepo{db: db}
}

// itemCompanionColumns is the column list every query in this file returns.
const itemCompanionColumns = `id, item_type, item_id, companion_id, can_view,
	can_edit, can_manage_companions, status, added_by, inherited_from_trip,
	created_at, updated_at`

// BulkCreate inserts all rows with a single INSERT ... SELECT unnest(...)
// statement. ON CONFLICT DO NOTHING makes duplicate keys a no-op rather
// than an error, so re-running a cascade is always safe.
func (r *pgItemCompanionRepo) BulkCreate(ctx context.Context, rows []domain.ItemCompanion) error {
	if len(rows) == 0 {
		return nil
	}

	const q = `
		INSERT INTO item_companions
			(item_type, item_id, companion_id, can_view, can_edit,
			 can_manage_companions, status, added_by, inherited_from_trip)
		SELECT * FROM unnest(
			@item_types::text[], @item_ids::uuid[], @companion_ids::uuid[],
			@can_views::boolean[], @can_edits::boolean[], @can_manages::boolean[],
			@statuses::text[], @added_bys::uuid[], @inheriteds::boolean[])
		ON CONFLICT (item_type, item_id, companion_id) DO NOTHING`

	n := len(rows)
	args := pgx.NamedArgs{
		"item_types":    make([]string, 0, n),
		"item_ids":      make([]uuid.UUID, 0, n),
		"companion_ids": make([]uuid.UUID, 0, n),
		"can_views":     make([]bool, 0, n),
		"can_edits":     make([]bool, 0, n),
		"can_manages":   make([]bool, 0, n),
		"statuses":      make([]string, 0, n),
		"added_bys":     make([]uuid.UUID, 0, n),
		"inheriteds":    make([]bool, 0, n),
	}
	for _, ic := range rows {
		args["item_types"] = append(args["item_types"].([]string), ic.ItemType.String())
		args["item_ids"] = append(args["item_ids"].([]uuid.UUID), ic.ItemID)
		args["companion_ids"] = append(args["companion_ids"].([]uuid.UUID), ic.CompanionID)
		args["can_views"] = append(args["can_views"].([]bool), ic.Permissions.CanView)
		args["can_edits"] = append(args["can_edits"].([]bool), ic.Permissions.CanEdit)
		args["can_manages"] = append(args["can_manages"].([]bool), ic.Permissions.CanManageCompanions)
		args["statuses"] = append(args["statuses"].([]string), ic.Status)
		args["added_bys"] = append(args["added_bys"].([]uuid.UUID), ic.AddedBy)
		args["inheriteds"] = append(args["inheriteds"].([]bool), ic.InheritedFromTrip)
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ItemCompanionRepo.BulkCreate: %w", err)
	}
	return nil
}

// Get retrieves one grant row by its unique triple.
func (r *pgItemCompanionRepo) Get(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (domain.ItemCompanion, error) {
	const q = `
		SELECT ` + itemCompanionColumns + `
		FROM item_companions
		WHERE item_type = @item_type AND item_id = @item_id AND companion_id = @companion_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"item_type":    typ.String(),
		"item_id":      itemID,
		"companion_id": companionID,
	})
	result, err := scanItemCompanion(row)
	if err != nil {
		return domain.ItemCompanion{}, fmt.Errorf("repo.ItemCompanionRepo.Get: %w", err)
	}
	return result, nil
}

// GetForAny retrieves the grant row for any of the candidate companion ids.
func (r *pgItemCompanionRepo) GetForAny(ctx context.Context, typ domain.ItemType, itemID uuid.UUID, companionIDs []uuid.UUID) (domain.ItemCompanion, error) {
	if len(companionIDs) == 0 {
		return domain.ItemCompanion{}, fmt.Errorf("repo.ItemCompanionRepo.GetForAny: %w", domain.ErrNotFound)
	}

	const q = `
		SELECT ` + itemCompanionColumns + `
		FROM item_companions
		WHERE item_type = @item_type AND item_id = @item_id AND companion_id = ANY(@companion_ids)
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"item_type":     typ.String(),
		"item_id":       itemID,
		"companion_ids": companionIDs,
	})
	result, err := scanItemCompanion(row)
	if err != nil {
		return domain.ItemCompanion{}, fmt.Errorf("repo.ItemCompanionRepo.GetForAny: %w", err)
	}
	return result, nil
}

// ListByItem returns all grant rows on one item.
func (r *pgItemCompanionRepo) ListByItem(ctx context.Context, typ domain.ItemType, itemID uuid.UUID) ([]domain.ItemCompanion, error) {
	const q = `
		SELECT ` + itemCompanionColumns + `
		FROM item_companions
		WHERE item_type = @item_type AND item_id = @item_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"item_type": typ.String(), "item_id": itemID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemCompanionRepo.ListByItem: %w", err)
	}
	defer rows.Close()

	grants := []domain.ItemCompanion{}
	for rows.Next() {
		ic, err := scanItemCompanion(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemCompanionRepo.ListByItem: scan: %w", err)
		}
		grants = append(grants, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemCompanionRepo.ListByItem: rows: %w", err)
	}
	return grants, nil
}

// Upsert writes a grant row, overwriting the permission columns and the
// inherited flag on conflict.
func (r *pgItemCompanionRepo) Upsert(ctx context.Context, ic domain.ItemCompanion) (domain.ItemCompanion, error) {
	const q = `
		INSERT INTO item_companions
			(item_type, item_id, companion_id, can_view, can_edit,
			 can_manage_companions, status, added_by, inherited_from_trip)
		VALUES
			(@item_type, @item_id, @companion_id, @can_view, @can_edit,
			 @can_manage_companions, @status, @added_by, @inherited_from_trip)
		ON CONFLICT (item_type, item_id, companion_id) DO UPDATE SET
			can_view              = EXCLUDED.can_view,
			can_edit              = EXCLUDED.can_edit,
			can_manage_companions = EXCLUDED.can_manage_companions,
			status                = EXCLUDED.status,
			inherited_from_trip   = EXCLUDED.inherited_from_trip,
			updated_at            = now()
		RETURNING ` + itemCompanionColumns

	args := pgx.NamedArgs{
		"item_type":             ic.ItemType.String(),
		"item_id":               ic.ItemID,
		"companion_id":          ic.CompanionID,
		"can_view":              ic.Permissions.CanView,
		"can_edit":              ic.Permissions.CanEdit,
		"can_manage_companions": ic.Permissions.CanManageCompanions,
		"status":                ic.Status,
		"added_by":              ic.AddedBy,
		"inherited_from_trip":   ic.InheritedFromTrip,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanItemCompanion(row)
	if err != nil {
		return domain.ItemCompanion{}, fmt.Errorf("repo.ItemCompanionRepo.Upsert: %w", err)
	}
	return result, nil
}

// UpdatePermissions overlays non-nil fields of upd onto the grant row.
func (r *pgItemCompanionRepo) UpdatePermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	count, err := r.updatePermissions(ctx, typ, itemID, companionID, upd, false)
	if err != nil {
		return 0, fmt.Errorf("repo.ItemCompanionRepo.UpdatePermissions: %w", err)
	}
	return count, nil
}

// UpdateInheritedPermissions overlays non-nil fields of upd onto the grant
// row, restricted to inherited rows.
func (r *pgItemCompanionRepo) UpdateInheritedPermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate) (int64, error) {
	count, err := r.updatePermissions(ctx, typ, itemID, companionID, upd, true)
	if err != nil {
		return 0, fmt.Errorf("repo.ItemCompanionRepo.UpdateInheritedPermissions: %w", err)
	}
	return count, nil
}

func (r *pgItemCompanionRepo) updatePermissions(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, upd domain.PermissionUpdate, inheritedOnly bool) (int64, error) {
	const q = `
		UPDATE item_companions
		SET can_view              = COALESCE(@can_view, can_view),
		    can_edit              = COALESCE(@can_edit, can_edit),
		    can_manage_companions = COALESCE(@can_manage_companions, can_manage_companions),
		    updated_at            = now()
		WHERE item_type = @item_type
		  AND item_id = @item_id
		  AND companion_id = @companion_id
		  AND (NOT @inherited_only OR inherited_from_trip)`

	args := pgx.NamedArgs{
		"item_type":             typ.String(),
		"item_id":               itemID,
		"companion_id":          companionID,
		"can_view":              upd.CanView, // nil becomes NULL, COALESCE keeps the old value
		"can_edit":              upd.CanEdit,
		"can_manage_companions": upd.CanManageCompanions,
		"inherited_only":        inheritedOnly,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes the grant row regardless of its inherited flag.
func (r *pgItemCompanionRepo) Delete(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error) {
	count, err := r.delete(ctx, typ, itemID, companionID, false)
	if err != nil {
		return 0, fmt.Errorf("repo.ItemCompanionRepo.Delete: %w", err)
	}
	return count, nil
}

// DeleteInherited removes the grant row only when it was created by a cascade.
func (r *pgItemCompanionRepo) DeleteInherited(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID) (int64, error) {
	count, err := r.delete(ctx, typ, itemID, companionID, true)
	if err != nil {
		return 0, fmt.Errorf("repo.ItemCompanionRepo.DeleteInherited: %w", err)
	}
	return count, nil
}

func (r *pgItemCompanionRepo) delete(ctx context.Context, typ domain.ItemType, itemID, companionID uuid.UUID, inheritedOnly bool) (int64, error) {
	const q = `
		DELETE FROM item_companions
		WHERE item_type = @item_type
		  AND item_id = @item_id
		  AND companion_id = @companion_id
		  AND (NOT @inherited_only OR inherited_from_trip)`

	args := pgx.NamedArgs{
		"item_type":      typ.String(),
		"item_id":        itemID,
		"companion_id":   companionID,
		"inherited_only": inheritedOnly,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// scanItemCompanion maps a single database row into a domain.ItemCompanion.
func scanItemCompanion(s scanner) (domain.ItemCompanion, error) {
	var (
		ic      domain.ItemCompanion
		id      pgtype.UUID
		itemID  pgtype.UUID
		compID  pgtype.UUID
		addedBy pgtype.UUID
		rawType string
	)
	err := s.Scan(&id, &rawType, &itemID, &compID,
		&ic.Permissions.CanView, &ic.Permissions.CanEdit, &ic.Permissions.CanManageCompanions,
		&ic.Status, &addedBy, &ic.InheritedFromTrip, &ic.CreatedAt, &ic.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItemCompanion{}, domain.ErrNotFound
		}
		return domain.ItemCompanion{}, err
	}
	ic.ID = uuid.UUID(id.Bytes)
	ic.ItemType = domain.ItemType(rawType)
	ic.ItemID = uuid.UUID(itemID.Bytes)
	ic.CompanionID = uuid.UUID(compID.Bytes)
	ic.AddedBy = uuid.UUID(addedBy.Bytes)
	return ic, nil
}
