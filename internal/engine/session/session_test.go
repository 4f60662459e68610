package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
	"go.trai.ch/owlcache/internal/core/ports/mocks"
	"go.trai.ch/owlcache/internal/engine/session"
	"go.uber.org/mock/gomock"
)

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}

type nopTracer struct{}

func (nopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) Write(p []byte) (int, error) { return len(p), nil }
func (nopSpan) End()                        {}
func (nopSpan) RecordError(error)           {}
func (nopSpan) SetAttribute(string, any)    {}

func testConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.ValidateFiles = false
	return cfg
}

func emptySnapshot() domain.Snapshot {
	return domain.NewSnapshot()
}

func TestSession_GetPut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(emptySnapshot(), nil)

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})

	_, ok := s.Get("mycrate", "k")
	require.False(t, ok)

	artifact := json.RawMessage(`{"decorations":[]}`)
	s.Put("mycrate", "k", artifact, nil)

	got, ok := s.Get("mycrate", "k")
	require.True(t, ok)
	assert.Equal(t, artifact, got)

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestSession_SeedsFromSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snap := emptySnapshot()
	snap.Entries = []domain.Entry{{Key: "k", Artifact: json.RawMessage(`"cached"`)}}

	// The snapshot is read once; later lookups reuse the loaded cache.
	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(snap, nil)

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})

	got, ok := s.Get("mycrate", "k")
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`"cached"`), got)

	_, ok = s.Get("mycrate", "k")
	assert.True(t, ok)
}

func TestSession_LoadFailure_StartsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(emptySnapshot(), errors.New("disk broke"))

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})

	_, ok := s.Get("mycrate", "k")
	assert.False(t, ok)

	// The unit stays usable in memory.
	s.Put("mycrate", "k", json.RawMessage(`"A"`), nil)
	_, ok = s.Get("mycrate", "k")
	assert.True(t, ok)
}

func TestSession_Key(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeFileHash("src/main.rs").Return("1111222233334444", nil)
	hasher.EXPECT().ComputeDataHash([]byte("mir body")).Return("5555666677778888")

	store := mocks.NewMockSnapshotStore(ctrl)
	s := session.New(testConfig(), store, nil, hasher, nopTracer{}, nopLogger{})

	key, err := s.Key("src/main.rs", []byte("mir body"))
	require.NoError(t, err)
	assert.Equal(t, "1111222233334444:5555666677778888", key)
}

func TestSession_Key_HashError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeFileHash("src/gone.rs").Return("", errors.New("no such file"))

	store := mocks.NewMockSnapshotStore(ctrl)
	s := session.New(testConfig(), store, nil, hasher, nopTracer{}, nopLogger{})

	_, err := s.Key("src/gone.rs", nil)
	assert.Error(t, err)
}

func TestSession_Put_CapturesSourceMtimes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(emptySnapshot(), nil)

	validator := mocks.NewMockFileValidator(ctrl)
	validator.EXPECT().CaptureMtimes([]string{"src/a.rs"}).
		Return(map[string]int64{"src/a.rs": 7})

	s := session.New(testConfig(), store, validator, nil, nopTracer{}, nopLogger{})

	s.Put("mycrate", "k", json.RawMessage(`"A"`), []string{"src/a.rs"})

	// The recorded path makes the entry reachable by invalidation.
	assert.Equal(t, 1, s.InvalidateChanged([]string{"src/a.rs"}))
	_, ok := s.Get("mycrate", "k")
	assert.False(t, ok)
}

func TestSession_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("alpha").Return(emptySnapshot(), nil)
	store.EXPECT().Load("beta").Return(emptySnapshot(), nil)

	var mu sync.Mutex
	saved := make(map[string]domain.Snapshot)
	record := func(unit string, snap domain.Snapshot) error {
		mu.Lock()
		defer mu.Unlock()
		saved[unit] = snap
		return nil
	}
	store.EXPECT().Save("alpha", gomock.Any()).DoAndReturn(record)
	store.EXPECT().Save("beta", gomock.Any()).DoAndReturn(record)
	store.EXPECT().Path(gomock.Any()).Return("target/owl/cache/unit.json").AnyTimes()

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})
	s.Put("alpha", "k1", json.RawMessage(`"A"`), nil)
	s.Put("beta", "k2", json.RawMessage(`"B"`), nil)

	require.NoError(t, s.Save(context.Background()))

	require.Len(t, saved, 2)
	assert.Len(t, saved["alpha"].Entries, 1)
	assert.Len(t, saved["beta"].Entries, 1)
	assert.Equal(t, domain.SnapshotVersion, saved["alpha"].Version)
}

func TestSession_Save_SerializesConcurrentCheckpoints(t *testing.T) {
	const savers = 4

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Checkpoints of the same unit share one snapshot file, so two
	// passes inside the store at once would tear it.
	var inFlight atomic.Int32
	var overlapped atomic.Bool

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(emptySnapshot(), nil)
	store.EXPECT().Path(gomock.Any()).Return("target/owl/cache/mycrate.json").AnyTimes()
	store.EXPECT().Save("mycrate", gomock.Any()).DoAndReturn(func(string, domain.Snapshot) error {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		runtime.Gosched()
		inFlight.Add(-1)
		return nil
	}).Times(savers)

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})
	s.Put("mycrate", "k", json.RawMessage(`"A"`), nil)

	var wg sync.WaitGroup
	errs := make([]error, savers)
	for g := range savers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[g] = s.Save(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.False(t, overlapped.Load())
}

func TestSession_Save_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Load, no Save: a disabled session must never touch the store.
	store := mocks.NewMockSnapshotStore(ctrl)

	cfg := testConfig()
	cfg.Enabled = false
	s := session.New(cfg, store, nil, nil, nopTracer{}, nopLogger{})

	s.Put("mycrate", "k", json.RawMessage(`"A"`), []string{"src/a.rs"})
	_, ok := s.Get("mycrate", "k")
	assert.False(t, ok)

	require.NoError(t, s.Save(context.Background()))
	require.NoError(t, s.LoadAll())

	assert.Equal(t, domain.Stats{}, s.Stats())
}

func TestSession_Save_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(emptySnapshot(), nil)
	store.EXPECT().Save("mycrate", gomock.Any()).Return(errors.New("disk full"))

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})
	s.Put("mycrate", "k", json.RawMessage(`"A"`), nil)

	err := s.Save(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}

func TestSession_LoadAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().ListUnits().Return([]string{"alpha", "beta"}, nil)
	store.EXPECT().Load("alpha").Return(emptySnapshot(), nil)
	store.EXPECT().Load("beta").Return(emptySnapshot(), nil)

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})

	require.NoError(t, s.LoadAll())
	assert.Equal(t, []string{"alpha", "beta"}, s.Units())
}

func TestSession_PruneStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("alpha").Return(emptySnapshot(), nil)
	store.EXPECT().Load("beta").Return(emptySnapshot(), nil)

	validator := mocks.NewMockFileValidator(ctrl)
	validator.EXPECT().CaptureMtimes(gomock.Any()).DoAndReturn(func(paths []string) map[string]int64 {
		mtimes := make(map[string]int64, len(paths))
		for _, p := range paths {
			mtimes[p] = 1
		}
		return mtimes
	}).AnyTimes()
	validator.EXPECT().IsStale(gomock.Any()).DoAndReturn(func(mtimes map[string]int64) bool {
		_, ok := mtimes["stale.rs"]
		return ok
	}).AnyTimes()

	cfg := testConfig()
	cfg.ValidateFiles = true
	s := session.New(cfg, store, validator, nil, nopTracer{}, nopLogger{})

	s.Put("alpha", "gone", json.RawMessage(`"S"`), []string{"stale.rs"})
	s.Put("beta", "kept", json.RawMessage(`"F"`), []string{"fresh.rs"})

	assert.Equal(t, 1, s.PruneStale(true))
	assert.Equal(t, 2, s.Stats().TotalEntries)

	assert.Equal(t, 1, s.PruneStale(false))
	assert.Equal(t, 1, s.Stats().TotalEntries)
	assert.Equal(t, uint64(1), s.Stats().Invalidations)
}

func TestSession_Clear_KeepsCounters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("mycrate").Return(emptySnapshot(), nil)

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})
	s.Put("mycrate", "k", json.RawMessage(`"A"`), nil)
	_, ok := s.Get("mycrate", "k")
	require.True(t, ok)

	s.Clear()

	stats := s.Stats()
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, uint64(1), stats.Hits)
}

func TestSession_StatsByUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	store.EXPECT().Load("alpha").Return(emptySnapshot(), nil)
	store.EXPECT().Load("beta").Return(emptySnapshot(), nil)

	s := session.New(testConfig(), store, nil, nil, nopTracer{}, nopLogger{})
	s.Put("alpha", "k", json.RawMessage(`"A"`), nil)
	_, _ = s.Get("alpha", "k")
	_, _ = s.Get("beta", "missing")

	byUnit := s.StatsByUnit()
	require.Len(t, byUnit, 2)
	assert.Equal(t, uint64(1), byUnit["alpha"].Hits)
	assert.Equal(t, uint64(1), byUnit["beta"].Misses)
}
