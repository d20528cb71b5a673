package snapshot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreLastWriteWins(t *testing.T) {
	var s Store[int]

	s.Set(1)
	s.Set(2)
	require.Equal(t, 2, s.Get())
}

func TestStoreZeroValueBeforeFirstSet(t *testing.T) {
	var s Store[string]
	require.Equal(t, "", s.Get())
}

func TestStoreConcurrentAccess(t *testing.T) {
	var s Store[int]
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v int) {
			defer wg.Done()
			s.Set(v)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Get()
		}()
	}
	wg.Wait()

	require.GreaterOrEqual(t, s.Get(), 0)
}
