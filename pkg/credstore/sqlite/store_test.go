package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/lyftrides/pkg/credstore"
	"github.com/aussiebroadwan/lyftrides/pkg/ridesdk"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.ApplyMigrations())
	return store
}

func testRecord(clientID string) *ridesdk.CredentialRecord {
	return &ridesdk.CredentialRecord{
		ClientID:         clientID,
		ClientSecret:     "secret-1",
		AccessToken:      "access-1",
		ExpiresInSeconds: 3600,
		Scopes:           []string{"public", "rides.read"},
		GrantType:        ridesdk.GrantAuthorizationCode,
		RefreshToken:     "refresh-1",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("client-1")))

	loaded, err := store.Load(ctx, "client-1")
	require.NoError(t, err)
	require.Equal(t, testRecord("client-1"), loaded)
}

func TestStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Load(context.Background(), "nobody")
	require.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestStoreUpsert(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("client-1")))

	updated := testRecord("client-1")
	updated.AccessToken = "access-2"
	updated.Scopes = []string{"public"}
	updated.RefreshToken = ""
	require.NoError(t, store.Save(ctx, updated))

	loaded, err := store.Load(ctx, "client-1")
	require.NoError(t, err)
	require.Equal(t, "access-2", loaded.AccessToken)
	require.Equal(t, []string{"public"}, loaded.Scopes)
	require.Empty(t, loaded.RefreshToken)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("client-1")))
	require.NoError(t, store.Delete(ctx, "client-1"))

	_, err := store.Load(ctx, "client-1")
	require.ErrorIs(t, err, credstore.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "client-1"))
}

func TestStoreKeepsRecordsSeparate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := testRecord("client-1")
	second := testRecord("client-2")
	second.GrantType = ridesdk.GrantClientCredentials
	second.RefreshToken = ""

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx, "client-2")
	require.NoError(t, err)
	require.Equal(t, ridesdk.GrantClientCredentials, loaded.GrantType)

	require.NoError(t, store.Ping(ctx))
}
