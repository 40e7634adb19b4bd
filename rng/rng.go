// Package rng builds the seeded random streams a simulation draws from.
//
// Streams are PCG generators from math/rand/v2. A (seed, stream) pair always
// yields the same sequence, so a run is reproducible from its seed alone.
package rng

import "math/rand/v2"

// New returns the stream identified by seed and stream.
func New(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// ForExperiment is the stream a sequential run of experiment exp uses.
func ForExperiment(seed uint64, exp int) *rand.Rand {
	return New(seed, uint64(exp))
}

// ForReplication is the stream replication rep of experiment exp uses when
// replications run in parallel. Each replication gets its own stream so its
// results do not depend on scheduling.
func ForReplication(seed uint64, exp, rep int) *rand.Rand {
	return New(seed^splitmix(uint64(exp)+1), splitmix(uint64(rep)+1<<32))
}

// splitmix scrambles x so neighbouring indices map to unrelated stream ids.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
