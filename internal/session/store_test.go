package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberdesk/kiosk/internal/domain"
	"github.com/barberdesk/kiosk/internal/events"
)

func testSession(token string) *domain.StaffSession {
	return &domain.StaffSession{
		StaffID:      "staff-1",
		Name:         "Marco",
		Role:         domain.StaffRoleBarber,
		ShopID:       "shop-1",
		Phone:        "555-0101",
		IsActive:     true,
		Shop:         domain.Shop{ID: "shop-1", Name: "Downtown", Location: "12 Main St"},
		SessionToken: token,
	}
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type countingStorage struct {
	Storage
	loads   int
	loadErr error
}

func (c *countingStorage) Load(ctx context.Context) ([]byte, error) {
	c.loads++
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return c.Storage.Load(ctx)
}

func TestStoreReadsThroughOnce(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	seed := NewStore(mem, nil, nil)
	require.NoError(t, seed.Set(ctx, testSession("tok-1")))

	storage := &countingStorage{Storage: mem}
	store := NewStore(storage, nil, nil)

	got, ok := store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, testSession("tok-1"), got)

	_, ok = store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 1, storage.loads)
}

func TestStoreRetriesAfterTransientLoadError(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	require.NoError(t, NewStore(mem, nil, nil).Set(ctx, testSession("tok-1")))

	storage := &countingStorage{Storage: mem, loadErr: errors.New("connection refused")}
	store := NewStore(storage, nil, nil)

	_, ok := store.Get(ctx)
	assert.False(t, ok)

	storage.loadErr = nil
	got, ok := store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-1", got.SessionToken)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil, nil)
	require.NoError(t, store.Set(ctx, testSession("tok-1")))

	got, _ := store.Get(ctx)
	got.Role = domain.StaffRoleCashier

	again, _ := store.Get(ctx)
	assert.Equal(t, domain.StaffRoleBarber, again.Role)
}

func TestStoreSetRejectsMissingToken(t *testing.T) {
	store := NewStore(NewMemoryStorage(), nil, nil)
	err := store.Set(context.Background(), testSession(""))
	assert.ErrorIs(t, err, ErrNoToken)

	_, ok := store.Get(context.Background())
	assert.False(t, ok)
}

func TestStoreSetReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil, nil)
	require.NoError(t, store.Set(ctx, testSession("tok-1")))

	next := testSession("tok-2")
	next.StaffID = "staff-2"
	next.Role = domain.StaffRoleCashier
	next.Phone = ""
	require.NoError(t, store.Set(ctx, next))

	got, ok := store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, next, got)
}

func TestStoreClearNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	store := NewStore(NewMemoryStorage(), nil, nil)
	store.Subscribe(rec.handle)

	require.NoError(t, store.Set(ctx, testSession("tok-1")))
	assert.True(t, store.Clear(ctx, events.ReasonLogout))
	assert.False(t, store.Clear(ctx, events.ReasonLogout))

	assert.Equal(t, []events.EventType{events.EventSessionEstablished, events.EventSessionCleared}, rec.types())
	assert.Equal(t, events.ReasonLogout, rec.events[1].Reason)
}

func TestStoreClearRemovesPersistedCopyBeforeFirstGet(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	require.NoError(t, NewStore(mem, nil, nil).Set(ctx, testSession("tok-1")))

	store := NewStore(mem, nil, nil)
	assert.True(t, store.Clear(ctx, events.ReasonLogout))

	_, err := mem.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreClearIfIgnoresReplacedSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil, nil)
	require.NoError(t, store.Set(ctx, testSession("tok-new")))

	assert.False(t, store.ClearIf(ctx, "tok-old", events.ReasonInvalidated))
	got, ok := store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-new", got.SessionToken)

	assert.True(t, store.ClearIf(ctx, "tok-new", events.ReasonInvalidated))
	_, ok = store.Get(ctx)
	assert.False(t, ok)
}

func TestStoreDiscardsUnreadableRecords(t *testing.T) {
	tests := map[string][]byte{
		"not json":      []byte("{oops"),
		"missing token": []byte(`{"id":"s","role":"barber","shop_id":"x"}`),
		"unknown role":  []byte(`{"id":"s","role":"manager","shop_id":"x","sessionToken":"t"}`),
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			mem := NewMemoryStorage()
			require.NoError(t, mem.Save(ctx, raw))

			store := NewStore(mem, nil, nil)
			_, ok := store.Get(ctx)
			assert.False(t, ok)

			_, err := mem.Load(ctx)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorePersistedShape(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	store := NewStore(mem, nil, nil)
	require.NoError(t, store.Set(ctx, testSession("tok-1")))

	raw, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "staff-1",
		"name": "Marco",
		"role": "barber",
		"shop_id": "shop-1",
		"phone": "555-0101",
		"is_active": true,
		"shop": {"id": "shop-1", "name": "Downtown", "location": "12 Main St"},
		"sessionToken": "tok-1"
	}`, string(raw))
}

func TestStoreConcurrentWritersLeaveTerminalState(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, testSession("tok"))
		}()
		go func() {
			defer wg.Done()
			store.Clear(ctx, events.ReasonLogout)
		}()
	}
	wg.Wait()

	got, ok := store.Get(ctx)
	if ok {
		assert.Equal(t, testSession("tok"), got)
	} else {
		assert.Nil(t, got)
	}
}
