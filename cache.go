package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/qmuntal/stateless"
	"go.uber.org/atomic"

	"github.com/jcorbin/flock/internal/bytecode"
)

// Tier is the execution strategy a ScriptEntry used for one execution, and
// the state of its promotion.
type Tier uint8

const (
	// TierCold programs are interpreted.
	TierCold Tier = iota

	// TierWarm marks the execution that crossed the threshold: it generates
	// the artifact and is itself still interpreted.
	TierWarm

	// TierCompiled programs run their cached artifact.
	TierCompiled
)

func (t Tier) String() string {
	switch t {
	case TierCold:
		return "cold"
	case TierWarm:
		return "warm"
	case TierCompiled:
		return "compiled"
	}
	return fmt.Sprintf("Tier(%d)", uint8(t))
}

type promotion uint8

const (
	thresholdCrossed promotion = iota
	artifactGenerated
)

func (p promotion) String() string {
	switch p {
	case thresholdCrossed:
		return "threshold crossed"
	case artifactGenerated:
		return "artifact generated"
	}
	return fmt.Sprintf("promotion(%d)", uint8(p))
}

// Cache holds one ScriptEntry per distinct program, keyed by content, for
// the life of the cache. It is safe for concurrent use.
type Cache struct {
	threshold int

	mu      sync.Mutex
	entries map[uint64][]*ScriptEntry
	size    int

	stats cacheStats
}

type cacheStats struct {
	interpreted atomic.Int64
	compiled    atomic.Int64
	promotions  atomic.Int64
}

// CacheStats counts what a Cache's entries have done.
type CacheStats struct {
	Entries     int
	Interpreted int64 // cold and warm executions
	Compiled    int64 // artifact invocations
	Promotions  int64 // artifacts generated
}

// NewCache creates a cache whose entries promote on the first execution
// after threshold executions; a negative threshold is taken as 0.
func NewCache(threshold int) *Cache {
	if threshold < 0 {
		threshold = 0
	}
	return &Cache{
		threshold: threshold,
		entries:   make(map[uint64][]*ScriptEntry),
	}
}

// Threshold returns how many executions an entry interprets before
// promotion.
func (c *Cache) Threshold() int { return c.threshold }

// Lookup returns the entry for prog, creating it on first sight.
// Structurally equal programs always get the same entry.
func (c *Cache) Lookup(prog bytecode.Program) *ScriptEntry {
	key := prog.Hash()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ent := range c.entries[key] {
		if ent.program.Equal(prog) {
			return ent
		}
	}
	ent := newScriptEntry(c, key, prog.Clone())
	c.entries[key] = append(c.entries[key], ent)
	c.size++
	return ent
}

// Len returns how many distinct programs the cache has seen.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Entries:     c.Len(),
		Interpreted: c.stats.interpreted.Load(),
		Compiled:    c.stats.compiled.Load(),
		Promotions:  c.stats.promotions.Load(),
	}
}

// ScriptEntry tracks executions of one program and, once promoted, its
// compiled artifact.
type ScriptEntry struct {
	cache   *Cache
	key     uint64
	program bytecode.Program

	mu       sync.Mutex
	counter  int
	artifact *Artifact
	tier     *stateless.StateMachine
}

func newScriptEntry(c *Cache, key uint64, prog bytecode.Program) *ScriptEntry {
	ent := &ScriptEntry{
		cache:   c,
		key:     key,
		program: prog,
		tier:    stateless.NewStateMachine(TierCold),
	}

	ent.tier.Configure(TierCold).
		Permit(thresholdCrossed, TierWarm)

	ent.tier.Configure(TierWarm).
		OnEntry(func(_ context.Context, _ ...interface{}) error {
			ent.artifact = Compile(ent.program)
			c.stats.promotions.Inc()
			return nil
		}).
		Permit(artifactGenerated, TierCompiled)

	// TierCompiled permits nothing: promotion is one way

	return ent
}

// Key returns the content hash the entry is filed under.
func (ent *ScriptEntry) Key() uint64 { return ent.key }

// Program returns the entry's program; callers must not modify it.
func (ent *ScriptEntry) Program() bytecode.Program { return ent.program }

// Counter returns how many executions the entry has seen.
func (ent *ScriptEntry) Counter() int {
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.counter
}

// Tier returns the entry's promotion state: TierCold until promoted, then
// TierCompiled.
func (ent *ScriptEntry) Tier() Tier {
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.tier.MustState().(Tier)
}

// Artifact returns the compiled artifact, nil before promotion.
func (ent *ScriptEntry) Artifact() *Artifact {
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.artifact
}

// enter counts one execution and decides how to run it. Counting and any
// promotion happen under one lock, so concurrent executions never see a
// half-promoted entry nor generate the artifact twice.
func (ent *ScriptEntry) enter() (tier Tier, art *Artifact, count int) {
	ent.mu.Lock()
	defer ent.mu.Unlock()

	ent.counter++
	count = ent.counter

	if ent.artifact != nil {
		ent.cache.stats.compiled.Inc()
		return TierCompiled, ent.artifact, count
	}

	ent.cache.stats.interpreted.Inc()
	if count <= ent.cache.threshold {
		return TierCold, nil, count
	}

	if err := ent.promote(); err != nil {
		panic(fmt.Errorf("script entry %016x promotion failed: %w", ent.key, err))
	}
	return TierWarm, nil, count
}

func (ent *ScriptEntry) promote() error {
	if err := ent.tier.Fire(thresholdCrossed); err != nil {
		return err
	}
	return ent.tier.Fire(artifactGenerated)
}
