package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

// TxBeginner opens database transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CascadeManager propagates trip-level companion membership changes to
// every item currently belonging to the trip. Rows it creates are tagged
// inherited_from_trip = true, and later cascade operations only ever touch
// rows carrying that tag — item grants added independently of the trip
// relationship are never removed or updated here.
//
// By default cascades are best-effort: the bulk add is a single atomic
// insert, but remove and update issue one write per item, so a storage
// failure partway leaves earlier writes committed. All writes respect the
// uniqueness constraints, so a failed cascade is always safe to re-run.
// Construct with WithTransactions to instead wrap every cascade operation
// in a single transaction that rolls back cleanly on failure.
type CascadeManager struct {
	items repo.ItemRepo
	links repo.ItemCompanionRepo
	tx    TxBeginner // nil in best-effort mode
}

// NewCascadeManager constructs a best-effort CascadeManager backed by the
// provided repos.
func NewCascadeManager(items repo.ItemRepo, links repo.ItemCompanionRepo) *CascadeManager {
	return &CascadeManager{items: items, links: links}
}

// WithTransactions returns a copy of the manager that runs each cascade
// operation inside one transaction begun on tx.
func (m *CascadeManager) WithTransactions(tx TxBeginner) *CascadeManager {
	return &CascadeManager{items: m.items, links: m.links, tx: tx}
}

// CascadeAddToAllItems grants the companion presence on every item of the
// trip, with perms overlaid on the cascade defaults (view on, the rest
// off). All rows go in with one bulk insert that silently skips duplicates,
// so repeating the call is idempotent. Returns the number of items on the
// trip, which the second run of an identical call still reports in full.
func (m *CascadeManager) CascadeAddToAllItems(ctx context.Context, companionID, tripID, actingUserID uuid.UUID, perms domain.PermissionUpdate) (int, error) {
	count, err := m.run(ctx, func(items repo.ItemRepo, links repo.ItemCompanionRepo) (int, error) {
		refs, err := listTripItems(ctx, items, tripID)
		if err != nil {
			return 0, err
		}
		if len(refs) == 0 {
			return 0, nil
		}

		grant := perms.ApplyTo(domain.DefaultCascadeGrant())
		rows := make([]domain.ItemCompanion, 0, len(refs))
		for _, ref := range refs {
			rows = append(rows, domain.ItemCompanion{
				ItemType:          ref.Type,
				ItemID:            ref.ID,
				CompanionID:       companionID,
				Permissions:       grant,
				Status:            domain.StatusAttending,
				AddedBy:           actingUserID,
				InheritedFromTrip: true,
			})
		}
		if err := links.BulkCreate(ctx, rows); err != nil {
			return 0, err
		}
		return len(refs), nil
	})
	if err != nil {
		return 0, fmt.Errorf("service.CascadeManager.CascadeAddToAllItems: %w", err)
	}
	return count, nil
}

// CascadeRemoveFromAllItems removes the companion's inherited grant from
// every item of the trip and returns the total number of rows deleted.
// The inherited_from_trip predicate on each delete is what preserves
// independently granted rows for the same companion on the same item.
func (m *CascadeManager) CascadeRemoveFromAllItems(ctx context.Context, companionID, tripID uuid.UUID) (int, error) {
	count, err := m.run(ctx, func(items repo.ItemRepo, links repo.ItemCompanionRepo) (int, error) {
		refs, err := listTripItems(ctx, items, tripID)
		if err != nil {
			return 0, err
		}

		removed := 0
		for _, ref := range refs {
			n, err := links.DeleteInherited(ctx, ref.Type, ref.ID, companionID)
			if err != nil {
				return 0, err
			}
			removed += int(n)
		}
		return removed, nil
	})
	if err != nil {
		return 0, fmt.Errorf("service.CascadeManager.CascadeRemoveFromAllItems: %w", err)
	}
	return count, nil
}

// UpdateCascadedPermissions overlays perms onto the companion's inherited
// grant on every item of the trip and returns the number of rows updated.
// Independent grants are untouched even when they belong to the same
// companion on the same trip's items — only a direct item-level edit
// changes those.
func (m *CascadeManager) UpdateCascadedPermissions(ctx context.Context, companionID, tripID uuid.UUID, perms domain.PermissionUpdate) (int, error) {
	count, err := m.run(ctx, func(items repo.ItemRepo, links repo.ItemCompanionRepo) (int, error) {
		refs, err := listTripItems(ctx, items, tripID)
		if err != nil {
			return 0, err
		}

		updated := 0
		for _, ref := range refs {
			n, err := links.UpdateInheritedPermissions(ctx, ref.Type, ref.ID, companionID, perms)
			if err != nil {
				return 0, err
			}
			updated += int(n)
		}
		return updated, nil
	})
	if err != nil {
		return 0, fmt.Errorf("service.CascadeManager.UpdateCascadedPermissions: %w", err)
	}
	return count, nil
}

// run executes fn against the manager's repos, wrapped in a single
// transaction when the manager was constructed with one.
func (m *CascadeManager) run(ctx context.Context, fn func(repo.ItemRepo, repo.ItemCompanionRepo) (int, error)) (int, error) {
	if m.tx == nil {
		return fn(m.items, m.links)
	}

	tx, err := m.tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	count, err := fn(repo.NewItemRepo(tx), repo.NewItemCompanionRepo(tx))
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// listTripItems enumerates every item of every type currently on the trip.
// Types are visited in the registry's stable order; each per-type query
// failure aborts the whole enumeration.
func listTripItems(ctx context.Context, items repo.ItemRepo, tripID uuid.UUID) ([]domain.ItemRef, error) {
	var refs []domain.ItemRef
	for _, typ := range domain.AllItemTypes {
		typed, err := items.ListRefsByTrip(ctx, typ, tripID)
		if err != nil {
			return nil, err
		}
		refs = append(refs, typed...)
	}
	return refs, nil
}
