package idgen

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGeneratorSortsChronologically(t *testing.T) {
	gen := NewULIDGenerator()
	now := time.Now()

	var ids []string
	for i := 0; i < 50; i++ {
		// Same millisecond on purpose: monotonic entropy must still order them.
		id, err := gen.New(now)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	later, err := gen.New(now.Add(time.Second))
	require.NoError(t, err)
	ids = append(ids, later)

	assert.True(t, sort.StringsAreSorted(ids))
}

func TestULIDGeneratorConcurrentUnique(t *testing.T) {
	gen := NewULIDGenerator()

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		wg   sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id, err := gen.New(time.Now())
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 800)
}

func TestTime(t *testing.T) {
	gen := NewULIDGenerator()
	at := time.UnixMilli(1_700_000_000_123)

	id, err := gen.New(at)
	require.NoError(t, err)

	got, err := Time(id)
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
