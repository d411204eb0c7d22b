package population

import (
	"fmt"
	"math"
)

// Descriptor maps an individual to an archive cell.
type Descriptor interface {
	Name() string
	// Dimensions is the number of cells along each axis.
	Dimensions() (int, int)
	// Cell may return coordinates outside Dimensions; such individuals are
	// discarded by the archive.
	Cell(ind *Individual) (int, int)
}

const (
	DescriptorKeysLocks           = "keys_locks"
	DescriptorExplorationLeniency = "exploration_leniency"
)

// KeyLockDescriptor files individuals by their key and lock counts.
type KeyLockDescriptor struct {
	Keys  int
	Locks int
}

func (d KeyLockDescriptor) Name() string { return DescriptorKeysLocks }

func (d KeyLockDescriptor) Dimensions() (int, int) { return d.Keys, d.Locks }

func (d KeyLockDescriptor) Cell(ind *Individual) (int, int) {
	return ind.Dungeon.KeyCount(), ind.Dungeon.LockCount()
}

// ExplorationLeniencyDescriptor bins the exploration and leniency ratios
// into Bins equal ranges each.
type ExplorationLeniencyDescriptor struct {
	Bins int
}

func (d ExplorationLeniencyDescriptor) Name() string { return DescriptorExplorationLeniency }

func (d ExplorationLeniencyDescriptor) Dimensions() (int, int) { return d.Bins, d.Bins }

func (d ExplorationLeniencyDescriptor) Cell(ind *Individual) (int, int) {
	return d.bin(ind.Exploration), d.bin(ind.Leniency)
}

func (d ExplorationLeniencyDescriptor) bin(v float64) int {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return -1
	}
	return min(int(v*float64(d.Bins)), d.Bins-1)
}

// NewDescriptor builds a descriptor by name.
func NewDescriptor(name string, keys, locks, bins int) (Descriptor, error) {
	switch name {
	case DescriptorKeysLocks, "":
		return KeyLockDescriptor{Keys: keys, Locks: locks}, nil
	case DescriptorExplorationLeniency:
		return ExplorationLeniencyDescriptor{Bins: bins}, nil
	default:
		return nil, fmt.Errorf("population: unknown descriptor %q", name)
	}
}
