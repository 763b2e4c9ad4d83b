package session_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jot/internal/service"
	"jot/internal/session"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"), nil)

	_, err := store.Load(context.Background())
	assert.True(t, errors.Is(err, session.ErrNoSession))
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewFileStore(path, nil)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	in := session.FromIdentity(service.Identity{
		Email:        "ann@example.com",
		DisplayName:  "ann",
		IDToken:      "id-token",
		RefreshToken: "refresh",
		Expiry:       expiry,
	})
	require.NoError(t, store.Save(ctx, in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", out.Email)
	assert.Equal(t, "ann", out.DisplayName)
	require.NotNil(t, out.Token)
	assert.Equal(t, "id-token", out.Token.AccessToken)
	assert.Equal(t, "refresh", out.Token.RefreshToken)
	assert.True(t, out.Token.Expiry.Equal(expiry))
	assert.True(t, out.TokenValid())

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.True(t, errors.Is(err, session.ErrNoSession))

	// Clearing twice is fine.
	assert.NoError(t, store.Clear(ctx))
}

func TestFileStore_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"), nil)

	require.NoError(t, store.Save(ctx, session.Session{Email: "first@example.com"}))
	require.NoError(t, store.Save(ctx, session.Session{Email: "second@example.com"}))

	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", s.Email)
}

func TestFileStore_ConcurrentStoresSamePath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	stores := []*session.FileStore{
		session.NewFileStore(path, nil),
		session.NewFileStore(path, nil),
	}

	const saves = 100
	errs := make(chan error, len(stores)*saves)
	var wg sync.WaitGroup
	for i, store := range stores {
		wg.Add(1)
		go func(i int, store *session.FileStore) {
			defer wg.Done()
			for n := 0; n < saves; n++ {
				errs <- store.Save(ctx, session.Session{Email: fmt.Sprintf("user%d@example.com", i)})
			}
		}(i, store)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	s, err := stores[0].Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, []string{"user0@example.com", "user1@example.com"}, s.Email)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files left behind")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_EmptyEmailIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email":"  "}`), 0600))

	_, err := session.NewFileStore(path, nil).Load(context.Background())
	assert.True(t, errors.Is(err, session.ErrNoSession))
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

	_, err := session.NewFileStore(path, nil).Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, session.ErrNoSession))
}

func TestFileStore_SaveRequiresEmail(t *testing.T) {
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"), nil)
	assert.Error(t, store.Save(context.Background(), session.Session{}))
}

func TestFromIdentity_NoToken(t *testing.T) {
	s := session.FromIdentity(service.Identity{Email: "a@b.co"})
	assert.Nil(t, s.Token)
	assert.False(t, s.TokenValid())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := session.NewMemoryStore(nil)

	_, err := m.Load(ctx)
	assert.True(t, errors.Is(err, session.ErrNoSession))

	require.NoError(t, m.Save(ctx, session.Session{Email: "a@b.co"}))
	s, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", s.Email)
	assert.Equal(t, 2, m.Loads)
}
