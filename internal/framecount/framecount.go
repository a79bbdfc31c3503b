package framecount

import (
	"sort"
	"sync"

	"github.com/getsentry/frameinfo/internal/frameinfo"
)

type (
	Entry struct {
		Frame frameinfo.FrameInfo `json:"frame"`
		Count uint64              `json:"count"`
	}

	// Snapshot is a point in time copy of a Counter, ordered like Top.
	Snapshot struct {
		Frames []Entry `json:"frames"`
	}

	// Counter counts how many times each frame was sampled. It is safe for
	// concurrent use.
	Counter struct {
		mu     sync.RWMutex
		counts map[frameinfo.FrameInfo]uint64
		total  uint64
	}
)

func New() *Counter {
	return &Counter{
		counts: make(map[frameinfo.FrameInfo]uint64),
	}
}

func (c *Counter) Add(fi frameinfo.FrameInfo, n uint64) {
	if n == 0 {
		return
	}
	c.mu.Lock()
	c.counts[fi] += n
	c.total += n
	c.mu.Unlock()
}

func (c *Counter) Count(fi frameinfo.FrameInfo) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[fi]
}

// Len returns the number of distinct frames.
func (c *Counter) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.counts)
}

// Total returns the sum of all counts.
func (c *Counter) Total() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// Merge adds the counts of s. Entries with a zero count are ignored, as in Add.
func (c *Counter) Merge(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range s.Frames {
		if e.Count == 0 {
			continue
		}
		c.counts[e.Frame] += e.Count
		c.total += e.Count
	}
}

// Top returns the n most sampled frames. Frames with the same count are
// ordered by method id, line number and bci. A non-positive n returns all
// frames.
func (c *Counter) Top(n int) []Entry {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.counts))
	for fi, count := range c.counts {
		entries = append(entries, Entry{Frame: fi, Count: count})
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Frame.MethodID() != b.Frame.MethodID() {
			return a.Frame.MethodID() < b.Frame.MethodID()
		}
		if a.Frame.LineNr() != b.Frame.LineNr() {
			return a.Frame.LineNr() < b.Frame.LineNr()
		}
		return a.Frame.BCI() < b.Frame.BCI()
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

func (c *Counter) Snapshot() Snapshot {
	return Snapshot{Frames: c.Top(0)}
}
