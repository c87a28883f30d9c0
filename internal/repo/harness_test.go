package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/repo"
	"github.com/pkordes/tripshare/backend/testutil"
)

// testTx opens a transaction against the test database and rolls it back
// when the test finishes, giving free per-test isolation. All repos built on
// the returned transaction see each other's writes.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func testTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// createUser inserts a user with a unique email and returns it.
func createUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()
	user, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Email:        fmt.Sprintf("user-%s@example.com", uuid.NewString()),
		DisplayName:  "Test User",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return user
}

// createCompanion inserts a companion record into creator's address book.
func createCompanion(t *testing.T, tx pgx.Tx, creator domain.User) domain.TravelCompanion {
	t.Helper()
	c, err := repo.NewCompanionRepo(tx).Create(context.Background(), domain.TravelCompanion{
		FirstName: "Test",
		LastName:  "Companion",
		Email:     fmt.Sprintf("companion-%s@example.com", uuid.NewString()),
		CreatedBy: creator.ID,
	})
	require.NoError(t, err)
	return c
}

// createTrip inserts a trip owned by owner.
func createTrip(t *testing.T, tx pgx.Tx, owner domain.User) domain.Trip {
	t.Helper()
	trip := tripFixture()
	trip.OwnerID = owner.ID
	created, err := repo.NewTripRepo(tx).Create(context.Background(), trip)
	require.NoError(t, err)
	return created
}

// createItem inserts an item of the given type on the trip (nil for a
// standalone item).
func createItem(t *testing.T, tx pgx.Tx, typ domain.ItemType, owner domain.User, tripID *uuid.UUID) domain.ItemRef {
	t.Helper()
	ref, err := repo.NewItemRepo(tx).Create(context.Background(), typ, owner.ID, tripID, "Test Item")
	require.NoError(t, err)
	return ref
}
