package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

func gitSpec() domain.AppSpec {
	return domain.AppSpec{
		Program:     "git",
		DSL:         domain.DSLShell,
		Subcommands: []domain.Subcommand{{Name: "status"}},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{})
	spec := gitSpec()

	c.Put(spec.CacheKey(), spec)

	got, ok := c.Get(spec.CacheKey())
	require.True(t, ok)
	assert.Equal(t, spec, got)
}

func TestGetNeverPopulates(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{})

	_, ok := c.Get("git@missing")
	assert.False(t, ok)
	assert.Empty(t, c.Entries())
}

func TestPutIsIdempotentForIdenticalSpec(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{})
	spec := gitSpec()

	c.Put(spec.CacheKey(), spec)
	c.Put(spec.CacheKey(), spec)

	require.Len(t, c.Entries(), 1)
	got, ok := c.Get(spec.CacheKey())
	require.True(t, ok)
	assert.Equal(t, spec, got)
}

func TestPutOverwritesExistingEntry(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{})
	old := gitSpec()
	updated := gitSpec()
	updated.Subcommands = append(updated.Subcommands, domain.Subcommand{Name: "log"})

	key := "git"
	c.Put(key, old)
	c.Put(key, updated)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Len(t, got.Subcommands, 2)
}

func TestInvalidateDropsEntry(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{})
	spec := gitSpec()
	c.Put(spec.CacheKey(), spec)

	c.Invalidate(spec.CacheKey())

	_, ok := c.Get(spec.CacheKey())
	assert.False(t, ok)
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{MaxEntries: 2})

	for i := 0; i < 3; i++ {
		spec := gitSpec()
		spec.Program = fmt.Sprintf("tool%d", i)
		c.Put(spec.Program, spec)
	}

	assert.Len(t, c.Entries(), 2)
	_, ok := c.Get("tool2")
	assert.True(t, ok, "newest entry must survive eviction")
}

func TestConcurrentPutsLastWriterWins(t *testing.T) {
	c := NewMemoryCache(domain.CacheSettings{})
	key := "git"

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			spec := gitSpec()
			spec.Version = fmt.Sprintf("v%d", n)
			c.Put(key, spec)
		}(i)
	}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(key)
			c.Entries()
		}()
	}
	wg.Wait()

	got, ok := c.Get(key)
	require.True(t, ok, "some writer's spec must be visible")
	assert.Equal(t, "git", got.Program)
	assert.NotEmpty(t, got.Version)
}
