package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey seeds all randomness of one replication. Two runs with the
// same key and identical configuration MUST produce bit-for-bit identical
// results.
type SimulationKey int64

// Subsystem names for the sampling streams the engine draws from. Keeping
// the streams separate means, for example, that the arrival stream replays
// identically across planners even though different planners consume
// different numbers of processing-time draws.
const (
	SubsystemArrival    = "arrival"
	SubsystemTaskType   = "task_type"
	SubsystemData       = "data"
	SubsystemProcessing = "processing"
)

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
//
// Derivation: subsystemSeed = key XOR fnv1a64(subsystemName). Hash-based
// derivation makes the streams independent of the order in which subsystems
// are first touched.
//
// Thread-safety: NOT thread-safe. Each replication owns its own instance and
// runs on a single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
