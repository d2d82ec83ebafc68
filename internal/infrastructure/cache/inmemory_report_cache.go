package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bookstore/backend/internal/application/report"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReportCache implements report.Cache with a process local map.
// It suits single-instance deployments and tests.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReportCache creates the cache and starts its expiry sweeper
func NewInMemoryReportCache() *InMemoryReportCache {
	c := &InMemoryReportCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(time.Minute)

	return c
}

// Get returns the cached report under key unless it has expired
func (c *InMemoryReportCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a copy of value under key for ttl
func (c *InMemoryReportCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of stored entries, expired or not
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryReportCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ report.Cache = (*InMemoryReportCache)(nil)
