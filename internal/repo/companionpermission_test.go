package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
)

func TestCompanionPermissionRepo_FindOrCreate(t *testing.T) {
	tx := testTx(t)
	r := repo.NewCompanionPermissionRepo(tx)
	ctx := context.Background()

	owner := createUser(t, tx)
	companion := createCompanion(t, tx, owner)

	grant, created, err := r.FindOrCreate(ctx, owner.ID, companion.ID)
	require.NoError(t, err)
	assert.True(t, created, "first call creates the row")
	assert.Equal(t, domain.PermissionSet{}, grant.Permissions, "new grants start all-false")

	again, created, err := r.FindOrCreate(ctx, owner.ID, companion.ID)
	require.NoError(t, err)
	assert.False(t, created, "second call finds the existing row")
	assert.Equal(t, grant.ID, again.ID)
}

func TestCompanionPermissionRepo_UpdatePermissions_Partial(t *testing.T) {
	tx := testTx(t)
	r := repo.NewCompanionPermissionRepo(tx)
	ctx := context.Background()

	owner := createUser(t, tx)
	companion := createCompanion(t, tx, owner)

	_, _, err := r.FindOrCreate(ctx, owner.ID, companion.ID)
	require.NoError(t, err)

	v := true
	_, err = r.UpdatePermissions(ctx, owner.ID, companion.ID, domain.PermissionUpdate{CanView: &v})
	require.NoError(t, err)
	_, err = r.UpdatePermissions(ctx, owner.ID, companion.ID, domain.PermissionUpdate{CanEdit: &v})
	require.NoError(t, err)

	got, err := r.GetForAny(ctx, owner.ID, []uuid.UUID{companion.ID})
	require.NoError(t, err)
	assert.True(t, got.Permissions.CanView, "first grant must survive the second update")
	assert.True(t, got.Permissions.CanEdit)
	assert.False(t, got.Permissions.CanManageCompanions)
}

func TestCompanionPermissionRepo_GetForAny_NoCandidates(t *testing.T) {
	tx := testTx(t)
	r := repo.NewCompanionPermissionRepo(tx)

	_, err := r.GetForAny(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanionPermissionRepo_Delete(t *testing.T) {
	tx := testTx(t)
	r := repo.NewCompanionPermissionRepo(tx)
	ctx := context.Background()

	owner := createUser(t, tx)
	companion := createCompanion(t, tx, owner)

	_, _, err := r.FindOrCreate(ctx, owner.ID, companion.ID)
	require.NoError(t, err)

	n, err := r.Delete(ctx, owner.ID, companion.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.Delete(ctx, owner.ID, companion.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
