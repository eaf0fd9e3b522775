// internal/catalog/partition.go
package catalog

import (
	"fmt"
	"math/rand"
	"sync"
)

// Partitioner splits each category once into two disjoint, randomly-ordered
// pools and answers repeated pool queries with the same split for the rest of
// the run. Reset starts a fresh run with new shuffles.
type Partitioner struct {
	src    *Source
	mu     sync.Mutex
	splits map[string][2][]string
}

func NewPartitioner(src *Source) *Partitioner {
	return &Partitioner{
		src:    src,
		splits: make(map[string][2][]string),
	}
}

// split computes (or returns the memoized) shuffled split for a category.
// Callers must hold p.mu.
func (p *Partitioner) split(category string) ([2][]string, error) {
	if cached, ok := p.splits[category]; ok {
		return cached, nil
	}

	players := p.src.Players(category)
	if len(players) == 0 {
		return [2][]string{}, fmt.Errorf("unknown category %q", category)
	}

	rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	// Split point: ceil(n/2) players go to pool 1.
	mid := (len(players) + 1) / 2
	split := [2][]string{players[:mid], players[mid:]}
	p.splits[category] = split
	return split, nil
}

// Partition returns both pools of a category, shuffling on first use.
func (p *Partitioner) Partition(category string) (pool1, pool2 []Item, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	split, err := p.split(category)
	if err != nil {
		return nil, nil, err
	}
	return itemize(split[0], category), itemize(split[1], category), nil
}

// Pool returns one pool of a category. Repeated queries are idempotent.
func (p *Partitioner) Pool(category string, number int) ([]Item, error) {
	if number != 1 && number != 2 {
		return nil, fmt.Errorf("pool number must be 1 or 2, got %d", number)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	split, err := p.split(category)
	if err != nil {
		return nil, err
	}
	return itemize(split[number-1], category), nil
}

// PoolSizes reports the split sizes for a category without forcing a shuffle.
func (p *Partitioner) PoolSizes(category string) (pool1, pool2, total int) {
	total = p.src.Count(category)
	pool1 = (total + 1) / 2
	pool2 = total - pool1
	return pool1, pool2, total
}

// Reset clears all memoized splits. Called exactly once per new auction run,
// before any pool query for that run.
func (p *Partitioner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.splits = make(map[string][2][]string)
}

func itemize(names []string, category string) []Item {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{
			Name:       name,
			Category:   category,
			BasePrice:  BasePrice(name),
			IsCritical: IsCritical(name),
		}
	}
	return items
}
