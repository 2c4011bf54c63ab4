package user

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/database"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateAndVerifyLogin(t *testing.T) {
	db := setupDB(t)

	u, err := Create(db, "alice", "Anders", "alice@example.com", "lead", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "lead", u.Role)

	got, err := VerifyLogin(db, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "alice", got.Username)

	_, err = VerifyLogin(db, "alice@example.com", "wrong")
	assert.Error(t, err)

	_, err = VerifyLogin(db, "nobody@example.com", "s3cret")
	assert.Error(t, err)
}

func TestCreateDefaultsRoleToStudent(t *testing.T) {
	db := setupDB(t)

	u, err := Create(db, "bob", "Berg", "bob@example.com", "", "pw")
	require.NoError(t, err)
	assert.Equal(t, "student", u.Role)
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := setupDB(t)

	_, err := Create(db, "alice", "Anders", "alice@example.com", "student", "pw")
	require.NoError(t, err)
	_, err = Create(db, "alice2", "Other", "alice@example.com", "student", "pw")
	assert.Error(t, err)
}

// Presence round-trip: the display fields the tracker reads back match what
// was stored, across an active/inactive cycle.
func TestStoreRoundTripPresenceFields(t *testing.T) {
	db := setupDB(t)
	store := Store{DB: db}

	u, err := Create(db, "cora", "Clark", "cora@example.com", "student", "pw")
	require.NoError(t, err)

	require.NoError(t, store.SetActive(u.ID, true))
	got, err := store.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "cora", got.Username)
	assert.Equal(t, "Clark", got.Surname)
	assert.Equal(t, "student", got.Role)
	assert.True(t, got.Active)

	require.NoError(t, store.SetActive(u.ID, false))
	got, err = store.GetByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestResetActiveClearsEveryone(t *testing.T) {
	db := setupDB(t)

	a, err := Create(db, "a", "A", "a@example.com", "student", "pw")
	require.NoError(t, err)
	b, err := Create(db, "b", "B", "b@example.com", "student", "pw")
	require.NoError(t, err)

	require.NoError(t, SetActive(db, a.ID, true))
	require.NoError(t, SetActive(db, b.ID, true))
	require.NoError(t, ResetActive(db))

	for _, id := range []string{a.ID, b.ID} {
		u, err := GetByID(db, id)
		require.NoError(t, err)
		assert.False(t, u.Active)
	}
}
