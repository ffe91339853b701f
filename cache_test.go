package dynstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCache(t *testing.T) {
	c := NewMapCache()

	_, ok := c.Load("a")
	assert.False(t, ok)

	b := &stubBackend{label: "a"}
	c.Store("a", b)

	got, ok := c.Load("a")
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Equal(t, 1, c.Len())

	c.Store("b", &stubBackend{label: "b"})
	assert.Equal(t, []string{"a", "b"}, c.Names())
}

func TestMapCache_Concurrent(t *testing.T) {
	c := NewMapCache()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			name := fmt.Sprintf("n%d", i%10)
			c.Store(name, &stubBackend{label: name})
			_, ok := c.Load(name)
			assert.True(t, ok)
		})
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}
