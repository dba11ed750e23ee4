package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastline/console/internal/api"
	"github.com/blastline/console/internal/logging"
)

type fakeBackend struct {
	mu        sync.Mutex
	token     string
	user      *api.User
	userErr   error
	logoutErr error

	logoutCalls int
}

func (f *fakeBackend) CurrentUser(ctx context.Context) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	u := *f.user
	return &u, nil
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeBackend) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeBackend) ClearToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
}

func (f *fakeBackend) installedToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

type memTokenStore struct {
	mu      sync.Mutex
	token   string
	saveErr error
}

func (m *memTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func newTestStore(backend *fakeBackend, tokens *memTokenStore) *Store {
	return NewStore(backend, tokens, logging.NewTestLogger(nil))
}

func TestInitializeNoCredential(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(backend, &memTokenStore{})

	loading, user := store.Snapshot()
	require.True(t, loading, "store must report loading before Initialize")
	require.Nil(t, user)

	outcome := store.Initialize(context.Background())
	assert.Equal(t, InitNoCredential, outcome)

	loading, user = store.Snapshot()
	assert.False(t, loading)
	assert.Nil(t, user)
	assert.Empty(t, backend.installedToken())
}

func TestInitializeAuthenticated(t *testing.T) {
	backend := &fakeBackend{user: &api.User{ID: 7, Email: "jane@acme.io", OnboardingCompleted: true}}
	tokens := &memTokenStore{token: "tok-123"}
	store := newTestStore(backend, tokens)

	outcome := store.Initialize(context.Background())
	require.Equal(t, InitAuthenticated, outcome)

	loading, user := store.Snapshot()
	assert.False(t, loading)
	require.NotNil(t, user)
	assert.Equal(t, "jane@acme.io", user.Email)
	assert.Equal(t, "tok-123", backend.installedToken())
}

func TestInitializeCredentialRejected(t *testing.T) {
	backend := &fakeBackend{userErr: &api.Error{StatusCode: 401, Message: "token expired"}}
	tokens := &memTokenStore{token: "stale"}
	store := newTestStore(backend, tokens)

	outcome := store.Initialize(context.Background())
	assert.Equal(t, InitCredentialRejected, outcome)

	loading, user := store.Snapshot()
	assert.False(t, loading)
	assert.Nil(t, user)

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, stored, "rejected token must be cleared from disk")
	assert.Empty(t, backend.installedToken(), "rejected token must be removed from the client")
}

func TestInitializeUnreachable(t *testing.T) {
	backend := &fakeBackend{userErr: errors.New("dial tcp: connection refused")}
	tokens := &memTokenStore{token: "tok"}
	store := newTestStore(backend, tokens)

	outcome := store.Initialize(context.Background())
	assert.Equal(t, InitUnreachable, outcome)

	_, user := store.Snapshot()
	assert.Nil(t, user)
}

func TestInitializeRunsOnce(t *testing.T) {
	backend := &fakeBackend{user: &api.User{ID: 1}}
	tokens := &memTokenStore{token: "tok"}
	store := newTestStore(backend, tokens)

	require.Equal(t, InitAuthenticated, store.Initialize(context.Background()))
	assert.Equal(t, InitNoCredential, store.Initialize(context.Background()))

	// The second call must not have torn down the session.
	_, user := store.Snapshot()
	assert.NotNil(t, user)
}

func TestLoginIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	tokens := &memTokenStore{}
	store := newTestStore(backend, tokens)
	user := &api.User{ID: 4, Email: "a@b.c"}

	require.NoError(t, store.Login("tok-a", user))
	require.NoError(t, store.Login("tok-a", user))

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-a", stored)
	assert.Equal(t, "tok-a", backend.installedToken())

	_, got := store.Snapshot()
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.ID)
}

func TestLoginSaveFailureLeavesSessionUnchanged(t *testing.T) {
	backend := &fakeBackend{}
	tokens := &memTokenStore{saveErr: errors.New("disk full")}
	store := newTestStore(backend, tokens)

	err := store.Login("tok", &api.User{ID: 1})
	require.Error(t, err)

	_, user := store.Snapshot()
	assert.Nil(t, user, "failed persist must not install a profile")
	assert.Empty(t, backend.installedToken())
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	backend := &fakeBackend{logoutErr: errors.New("503 service unavailable")}
	tokens := &memTokenStore{}
	store := newTestStore(backend, tokens)
	require.NoError(t, store.Login("tok", &api.User{ID: 2}))

	store.Logout(context.Background())

	assert.Equal(t, 1, backend.logoutCalls)
	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, backend.installedToken())
	_, user := store.Snapshot()
	assert.Nil(t, user)
}

func TestUpdateUserCopies(t *testing.T) {
	store := newTestStore(&fakeBackend{}, &memTokenStore{})
	u := &api.User{ID: 9, OnboardingCompleted: false}
	store.UpdateUser(u)

	// Mutating the caller's struct must not leak into the store.
	u.OnboardingCompleted = true
	_, got := store.Snapshot()
	require.NotNil(t, got)
	assert.False(t, got.OnboardingCompleted)

	// And mutating the snapshot must not leak back.
	got.OnboardingCompleted = true
	_, again := store.Snapshot()
	assert.False(t, again.OnboardingCompleted)
}

func TestSnapshotCopiesBusiness(t *testing.T) {
	store := newTestStore(&fakeBackend{}, &memTokenStore{})
	store.UpdateUser(&api.User{ID: 1, Business: &api.Business{Name: "Acme Retail"}})

	_, got := store.Snapshot()
	require.NotNil(t, got.Business)
	got.Business.Name = "mutated"

	_, again := store.Snapshot()
	assert.Equal(t, "Acme Retail", again.Business.Name, "snapshot must not share the business pointer")
}

func TestConcurrentMutations(t *testing.T) {
	backend := &fakeBackend{}
	tokens := &memTokenStore{}
	store := newTestStore(backend, tokens)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			_ = store.Login("tok", &api.User{ID: n})
		}(int64(i))
		go func() {
			defer wg.Done()
			_, _ = store.Snapshot()
		}()
	}
	wg.Wait()

	// Whichever login won, token and profile must agree with a full write.
	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", stored)
	_, user := store.Snapshot()
	assert.NotNil(t, user)
}
