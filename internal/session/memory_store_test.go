package session

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetOrCreateReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	s, err := store.GetOrCreate(context.Background(), "sid-1", "+2348000000001")
	require.NoError(t, err)

	assert.Equal(t, "sid-1", s.SessionID)
	assert.Equal(t, "+2348000000001", s.PhoneNumber)
	assert.Empty(t, s.FlowData)
	assert.NotNil(t, s.FlowData)
	assert.Zero(t, s.Turns)
	assert.False(t, s.Completed)

	_, err = store.Get(context.Background(), "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	s, err := store.GetOrCreate(ctx, "sid-2", "+2348000000002")
	require.NoError(t, err)
	s.FlowData["emergencyType"] = "Medical"
	s.Turns = 2
	require.NoError(t, store.Save(ctx, s))

	got, err := store.GetOrCreate(ctx, "sid-2", "ignored")
	require.NoError(t, err)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}

	// mutating the copy must not leak into the store
	got.FlowData["emergencyType"] = "Fire"
	again, err := store.Get(ctx, "sid-2")
	require.NoError(t, err)
	assert.Equal(t, "Medical", again.FlowData["emergencyType"])
}

func TestMemoryStoreSaveRejectsMissingID(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	assert.Error(t, store.Save(context.Background(), &Session{}))
}

func TestMemoryStoreScheduleExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	s := New("sid-3", "+2348000000003", time.Now())
	s.FlowData["crimeType"] = "Kidnapping"
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.ScheduleExpiry(ctx, "sid-3", 80*time.Millisecond))

	got, err := store.Get(ctx, "sid-3")
	require.NoError(t, err, "session must stay reachable before the grace delay")
	assert.Equal(t, "Kidnapping", got.FlowData["crimeType"])

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "sid-3")
		return err == ErrNotFound
	}, time.Second, 10*time.Millisecond)

	fresh, err := store.GetOrCreate(ctx, "sid-3", "+2348000000003")
	require.NoError(t, err)
	assert.Empty(t, fresh.FlowData)
}

func TestMemoryStoreActivityCancelsExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	s := New("sid-4", "+2348000000004", time.Now())
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.ScheduleExpiry(ctx, "sid-4", 30*time.Millisecond))

	// new activity before the timer fires
	require.NoError(t, store.Save(ctx, s))

	time.Sleep(100 * time.Millisecond)
	_, err := store.Get(ctx, "sid-4")
	assert.NoError(t, err)
}

func TestMemoryStoreIdleTimeout(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(40 * time.Millisecond)
	defer store.Close()

	require.NoError(t, store.Save(ctx, New("sid-5", "+2348000000005", time.Now())))

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "sid-5")
		return err == ErrNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryStoreZeroDelayDeletes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	require.NoError(t, store.Save(ctx, New("sid-6", "+2348000000006", time.Now())))
	require.NoError(t, store.ScheduleExpiry(ctx, "sid-6", 0))

	_, err := store.Get(ctx, "sid-6")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	defer store.Close()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.Save(ctx, New(id, "+2348000000000", time.Now())))
	}
	require.NoError(t, store.Delete(ctx, "c"))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].SessionID)
	assert.Equal(t, "b", list[1].SessionID)
}

func TestSessionIsReplay(t *testing.T) {
	s := New("sid", "+234", time.Now())
	assert.False(t, s.IsReplay("", "*234#"))

	s.Turns = 1
	s.LastText = "1*1"
	s.LastServiceCode = "*234*911#"
	s.LastResponse = "CON Emergency: Medical"

	assert.True(t, s.IsReplay("1*1", "*234*911#"))
	assert.False(t, s.IsReplay("1*1*1", "*234*911#"))
	assert.False(t, s.IsReplay("1*1", "*234*100#"))
}

func TestMemoryStoreConcurrentSaveAndList(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	s := New("sid-race", "+2348000000001", time.Now())
	require.NoError(t, store.Save(ctx, s))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			cp := *s
			cp.Turns = i
			cp.FlowData = map[string]string{"step": strconv.Itoa(i)}
			assert.NoError(t, store.Save(ctx, &cp))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			all, err := store.List(ctx)
			assert.NoError(t, err)
			assert.Len(t, all, 1)

			got, err := store.Get(ctx, "sid-race")
			assert.NoError(t, err)
			assert.Equal(t, "sid-race", got.SessionID)
		}
	}()

	wg.Wait()

	got, err := store.Get(ctx, "sid-race")
	require.NoError(t, err)
	assert.Equal(t, 499, got.Turns)
}
