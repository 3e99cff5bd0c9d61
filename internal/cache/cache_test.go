package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/logger"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeProber struct {
	calls map[int32]int
	fail  map[int32]bool
}

func newFakeProber() *fakeProber {
	return &fakeProber{calls: map[int32]int{}, fail: map[int32]bool{}}
}

func (f *fakeProber) Probe(rec *model.ProcRecord) (Details, error) {
	f.calls[rec.PID]++
	if f.fail[rec.PID] {
		return Details{}, errors.New("permission denied")
	}
	return Details{
		Owner:   "user",
		Command: rec.Name + " --gen",
		Arch:    "x86_64",
	}, nil
}

func record(pid int32, gen uint64) *model.ProcRecord {
	return &model.ProcRecord{PID: pid, Name: "p", Generation: gen}
}

func TestEnrichHitsAfterFirstProbe(t *testing.T) {
	p := newFakeProber()
	c := New(p)

	d1, ok := c.Enrich(record(10, 1), now)
	require.True(t, ok)
	d2, ok := c.Enrich(record(10, 1), now.Add(time.Second))
	require.True(t, ok)

	assert.Equal(t, d1, d2)
	assert.Equal(t, 1, p.calls[10])
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestEnrichGenerationChangeReprobes(t *testing.T) {
	p := newFakeProber()
	c := New(p)

	c.Enrich(record(10, 1), now)
	c.Enrich(record(10, 2), now)
	c.Enrich(record(10, 2), now)

	assert.Equal(t, 2, p.calls[10])
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestEnrichRefreshesAgedEntries(t *testing.T) {
	p := newFakeProber()
	c := New(p, WithRefreshAfter(10*time.Second))

	c.Enrich(record(1, 1), now)
	c.Enrich(record(1, 1), now.Add(9*time.Second))
	assert.Equal(t, 1, p.calls[1])

	c.Enrich(record(1, 1), now.Add(10*time.Second))
	assert.Equal(t, 2, p.calls[1])

	never := New(newFakeProber(), WithRefreshAfter(0))
	never.Enrich(record(1, 1), now)
	never.Enrich(record(1, 1), now.Add(time.Hour))
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, never.Stats())
}

func TestTransientFailuresKeepStaleDetails(t *testing.T) {
	p := newFakeProber()
	log := logger.NewBufferLogger()
	c := New(p, WithRefreshAfter(time.Second), WithMaxFailures(3), WithLogger(log))

	good, ok := c.Enrich(record(5, 1), now)
	require.True(t, ok)

	p.fail[5] = true
	tick := now.Add(2 * time.Second)
	for i := 1; i < 3; i++ {
		d, ok := c.Enrich(record(5, 1), tick)
		assert.True(t, ok, "failure %d is transient", i)
		assert.Equal(t, good, d)
		tick = tick.Add(time.Second)
	}

	d, ok := c.Enrich(record(5, 1), tick)
	assert.False(t, ok, "third consecutive failure evicts")
	assert.Equal(t, Details{}, d)
	assert.True(t, log.HasLevel("debug"))

	calls := p.calls[5]
	c.Enrich(record(5, 1), tick.Add(time.Second))
	assert.Equal(t, calls, p.calls[5], "gave-up entries are not probed again")

	p.fail[5] = false
	d, ok = c.Enrich(record(5, 2), tick.Add(2*time.Second))
	assert.True(t, ok, "a new generation starts over")
	assert.Equal(t, "p --gen", d.Command)
}

func TestFailedMissRetriesUntilLimit(t *testing.T) {
	p := newFakeProber()
	p.fail[9] = true
	c := New(p, WithMaxFailures(2))

	for i := 0; i < 5; i++ {
		_, ok := c.Enrich(record(9, 1), now)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, p.calls[9])
}

func TestRecoveryResetsFailures(t *testing.T) {
	p := newFakeProber()
	c := New(p, WithRefreshAfter(time.Second), WithMaxFailures(2))

	c.Enrich(record(3, 1), now)
	p.fail[3] = true
	_, ok := c.Enrich(record(3, 1), now.Add(time.Second))
	assert.True(t, ok)

	p.fail[3] = false
	_, ok = c.Enrich(record(3, 1), now.Add(2*time.Second))
	assert.True(t, ok)

	p.fail[3] = true
	_, ok = c.Enrich(record(3, 1), now.Add(4*time.Second))
	assert.True(t, ok, "the failure count restarted after the successful probe")
}

func TestEnrichSampleFillsAndSweeps(t *testing.T) {
	p := newFakeProber()
	c := New(p)

	raw := &model.RawSample{
		Timestamp: now,
		Procs: map[int32]model.ProcRecord{
			1: {PID: 1, Name: "init", Generation: 1},
			2: {PID: 2, Name: "sshd", Generation: 2},
		},
	}
	c.EnrichSample(raw)

	assert.Equal(t, "init --gen", raw.Procs[1].Command)
	assert.Equal(t, "user", raw.Procs[2].Owner)
	assert.Equal(t, "x86_64", raw.Procs[2].Arch)
	assert.Equal(t, 2, c.Len())

	next := &model.RawSample{
		Timestamp: now.Add(time.Second),
		Procs:     map[int32]model.ProcRecord{1: {PID: 1, Name: "init", Generation: 1}},
	}
	c.EnrichSample(next)

	assert.Equal(t, 1, c.Len(), "exited process evicted at end of tick")
	assert.Equal(t, 1, p.calls[1])
	assert.Equal(t, "init --gen", next.Procs[1].Command)
}

func TestEnrichSampleKeepsSamplerOwnerOnFailure(t *testing.T) {
	p := newFakeProber()
	p.fail[4] = true
	c := New(p)

	raw := &model.RawSample{
		Timestamp: now,
		Procs:     map[int32]model.ProcRecord{4: {PID: 4, Name: "secret", Owner: "root"}},
	}
	c.EnrichSample(raw)
	assert.Equal(t, "root", raw.Procs[4].Owner)
	assert.Empty(t, raw.Procs[4].Command)
}

func TestProberFunc(t *testing.T) {
	called := false
	var p Prober = ProberFunc(func(rec *model.ProcRecord) (Details, error) {
		called = true
		return Details{Arch: "arm64"}, nil
	})
	d, err := p.Probe(record(1, 1))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "arm64", d.Arch)
}
