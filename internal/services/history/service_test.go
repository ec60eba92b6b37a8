package history_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"calc/internal/domain"
	"calc/internal/services/history"
	"calc/internal/store"
)

var errStorage = errors.New("storage unavailable")

// failingKV fails every read and/or write.
type failingKV struct {
	failGet, failSet bool
	sets             int
}

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	if f.failGet {
		return "", false, errStorage
	}
	return "", false, nil
}

func (f *failingKV) Set(context.Context, string, string) error {
	f.sets++
	if f.failSet {
		return errStorage
	}
	return nil
}

// flakyKV is a MemoryKV whose reads can be switched to fail.
type flakyKV struct {
	*store.MemoryKV
	failGet bool
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errStorage
	}
	return f.MemoryKV.Get(ctx, key)
}

// gatedKV blocks its first Set until release is closed.
type gatedKV struct {
	*store.MemoryKV
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedKV) Set(ctx context.Context, key, value string) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MemoryKV.Set(ctx, key, value)
}

func entry(expr, result string) domain.HistoryEntry {
	return domain.HistoryEntry{Expression: expr, Result: result}
}

// pairs strips ids and timestamps for comparison.
func pairs(entries []domain.HistoryEntry) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = entry(e.Expression, e.Result)
	}
	return out
}

func TestAppend_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	svc := history.New(store.NewMemoryKV(), nil)

	svc.Append(ctx, entry("1+1", "2"))
	stored := svc.Append(ctx, entry("7+3", "10"))

	assert.NotEmpty(t, stored.ID)
	assert.NotZero(t, stored.CreatedUTC)

	want := []domain.HistoryEntry{entry("7+3", "10"), entry("1+1", "2")}
	if diff := cmp.Diff(want, pairs(svc.Entries())); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_EvictsOldestPastBound(t *testing.T) {
	ctx := context.Background()
	svc := history.New(store.NewMemoryKV(), nil)

	for i := 0; i < domain.MaxHistoryEntries+1; i++ {
		svc.Append(ctx, entry(fmt.Sprintf("%d+0", i), fmt.Sprint(i)))
		assert.LessOrEqual(t, len(svc.Entries()), domain.MaxHistoryEntries)
	}

	got := svc.Entries()
	require.Len(t, got, domain.MaxHistoryEntries)
	assert.Equal(t, "10+0", got[0].Expression)
	assert.Equal(t, "1+0", got[len(got)-1].Expression, "0+0 should have been evicted")
}

func TestLoad_RoundTripsThroughStore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	first := history.New(kv, nil)
	first.Append(ctx, entry("2^3", "8"))
	first.Append(ctx, entry("7+3", "10"))

	second := history.New(kv, nil)
	got := second.Load(ctx)
	if diff := cmp.Diff(first.Entries(), got); diff != "" {
		t.Fatalf("loaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestClear_ThenLoadIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewFileKV(t.TempDir())

	svc := history.New(kv, nil)
	svc.Append(ctx, entry("7+3", "10"))
	svc.Clear(ctx)
	assert.Empty(t, svc.Entries())

	assert.Empty(t, history.New(kv, nil).Load(ctx))

	raw, ok, err := kv.Get(ctx, history.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	svc := history.New(kv, nil)
	svc.Append(ctx, entry("a", "1"))
	svc.Append(ctx, entry("b", "2"))
	svc.Append(ctx, entry("c", "3"))

	require.NoError(t, svc.Remove(ctx, 1))
	want := []domain.HistoryEntry{entry("c", "3"), entry("a", "1")}
	if diff := cmp.Diff(want, pairs(svc.Entries())); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, pairs(history.New(kv, nil).Load(ctx))); diff != "" {
		t.Fatalf("persisted after remove (-want +got):\n%s", diff)
	}

	assert.ErrorIs(t, svc.Remove(ctx, 2), history.ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.Remove(ctx, -1), history.ErrIndexOutOfRange)
	assert.Len(t, svc.Entries(), 2)
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	svc := history.New(store.NewMemoryKV(), nil)
	svc.Append(ctx, entry("7+3", "10"))

	expr, err := svc.Select(0)
	require.NoError(t, err)
	assert.Equal(t, "7+3", expr)

	e, err := svc.SelectEntry(0)
	require.NoError(t, err)
	assert.Equal(t, "10", e.Result)

	_, err = svc.Select(1)
	assert.ErrorIs(t, err, history.ErrIndexOutOfRange)
}

func TestEntries_IsACopy(t *testing.T) {
	ctx := context.Background()
	svc := history.New(store.NewMemoryKV(), nil)
	svc.Append(ctx, entry("7+3", "10"))

	got := svc.Entries()
	got[0].Expression = "mutated"
	assert.Equal(t, "7+3", svc.Entries()[0].Expression)
}

func TestLoad_StorageFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := history.New(&failingKV{failGet: true}, zap.New(core))

	assert.Empty(t, svc.Load(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("Error loading history").Len())
}

func TestAppend_WriteFailureKeepsMemoryState(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := &failingKV{failSet: true}
	svc := history.New(kv, zap.New(core))

	svc.Append(context.Background(), entry("7+3", "10"))

	assert.Len(t, svc.Entries(), 1)
	assert.Equal(t, 1, kv.sets)
	assert.Equal(t, 1, logs.FilterMessage("Error saving history").Len())
}

func TestLoad_UndecodableValue(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, history.StorageKey, "{broken"))

	core, logs := observer.New(zapcore.WarnLevel)
	assert.Empty(t, history.New(kv, zap.New(core)).Load(ctx))
	assert.Equal(t, 1, logs.Len())
}

func TestLoad_LegacyStringEntries(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, history.StorageKey, `["7+3 = 10","2*4 = 8"]`))

	got := history.New(kv, nil).Load(ctx)
	want := []domain.HistoryEntry{entry("7+3", "10"), entry("2*4", "8")}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("legacy decode (-want +got):\n%s", diff)
	}
}

func TestLoad_TruncatesOversizedList(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	items := make([]string, 12)
	for i := range items {
		items[i] = fmt.Sprintf(`{"expression":"%d","result":"%d"}`, i, i)
	}
	require.NoError(t, kv.Set(ctx, history.StorageKey, "["+strings.Join(items, ",")+"]"))

	got := history.New(kv, nil).Load(ctx)
	require.Len(t, got, domain.MaxHistoryEntries)
	assert.Equal(t, "0", got[0].Expression)
}

func TestLoad_ReadFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{MemoryKV: store.NewMemoryKV()}
	svc := history.New(kv, nil)
	svc.Append(ctx, entry("7+3", "10"))

	kv.failGet = true
	assert.Empty(t, svc.Load(ctx))
	require.Len(t, svc.Entries(), 1)
	assert.Equal(t, "7+3", svc.Entries()[0].Expression)

	kv.failGet = false
	got := svc.Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "10", got[0].Result)
}

func TestLoad_UndecodableValueKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	svc := history.New(kv, nil)
	svc.Append(ctx, entry("7+3", "10"))

	require.NoError(t, kv.Set(ctx, history.StorageKey, "{broken"))
	assert.Empty(t, svc.Load(ctx))
	assert.Len(t, svc.Entries(), 1)
}

func TestAppend_ConcurrentWritesPersistInOrder(t *testing.T) {
	ctx := context.Background()
	kv := &gatedKV{
		MemoryKV: store.NewMemoryKV(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := history.New(kv, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.Append(ctx, entry("1+1", "2"))
	}()
	<-kv.entered

	go func() {
		defer wg.Done()
		svc.Append(ctx, entry("2+2", "4"))
	}()
	// Give the second writer time to reach storage ahead of the first.
	time.Sleep(50 * time.Millisecond)
	close(kv.release)
	wg.Wait()

	persisted := history.New(kv.MemoryKV, nil).Load(ctx)
	want := []domain.HistoryEntry{entry("2+2", "4"), entry("1+1", "2")}
	if diff := cmp.Diff(want, pairs(persisted)); diff != "" {
		t.Fatalf("persisted list (-want +got):\n%s", diff)
	}
	assert.Equal(t, svc.Entries(), persisted)
}
