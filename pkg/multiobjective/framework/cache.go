package framework

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProblem memoizes fitness values by gene vector. Useful when the
// fitness function is expensive and breeding regularly reproduces a genome.
type CachedProblem struct {
	Problem
	cache *cache.Cache
}

// NewCachedProblem wraps p. Entries expire after ttl; a ttl of 0 keeps them
// for the lifetime of the cache.
func NewCachedProblem(p Problem, ttl time.Duration) *CachedProblem {
	if ttl <= 0 {
		return &CachedProblem{Problem: p, cache: cache.New(cache.NoExpiration, 0)}
	}
	return &CachedProblem{Problem: p, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachedProblem) CalculateFitnessValues(ind *Individual) ([]float64, error) {
	key := genesKey(ind)
	if v, ok := c.cache.Get(key); ok {
		cached := v.([]float64)
		out := make([]float64, len(cached))
		copy(out, cached)
		return out, nil
	}

	values, err := c.Problem.CalculateFitnessValues(ind)
	if err != nil {
		return nil, err
	}
	stored := make([]float64, len(values))
	copy(stored, values)
	c.cache.SetDefault(key, stored)
	return values, nil
}

// Bounds forwards the bounds of the wrapped problem, nil when it has none.
func (c *CachedProblem) Bounds() []Bounds {
	if b, ok := c.Problem.(BoundedProblem); ok {
		return b.Bounds()
	}
	return nil
}

// Len returns the number of cached entries.
func (c *CachedProblem) Len() int {
	return c.cache.ItemCount()
}

func genesKey(ind *Individual) string {
	buf := make([]byte, 8*len(ind.genes))
	for i, g := range ind.genes {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(g))
	}
	return string(buf)
}
