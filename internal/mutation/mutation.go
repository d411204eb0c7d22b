// Package mutation adds or removes key/lock pairs.
package mutation

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeonforge/internal/dungeon"
)

// DefaultAddRate is the percent chance of adding a pair instead of
// removing one.
const DefaultAddRate = 50

// Kind reports what a mutation did.
type Kind int

const (
	None Kind = iota
	AddedPair
	AddedKey
	RemovedPair
)

func (k Kind) String() string {
	switch k {
	case AddedPair:
		return "added-pair"
	case AddedKey:
		return "added-key"
	case RemovedPair:
		return "removed-pair"
	default:
		return "none"
	}
}

// Apply mutates d in place: with addRate percent it places a new key and
// lock, otherwise it removes a random key with its lock. Counts are rebuilt
// either way.
func Apply(d *dungeon.Dungeon, rng *rand.Rand, addRate int) Kind {
	if rng.Intn(100) < addRate {
		key, lock := d.AddLockAndKey(rng)
		switch {
		case lock:
			return AddedPair
		case key:
			return AddedKey
		default:
			return None
		}
	}
	if d.RemoveLockAndKey(rng) {
		return RemovedPair
	}
	return None
}
