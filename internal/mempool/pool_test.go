package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "zero size", input: 0, expected: 1024},
		{name: "small size gets minimum", input: 1, expected: 1024},
		{name: "exactly 1024", input: 1024, expected: 1024},
		{name: "just over 1024", input: 1025, expected: 2048},
		{name: "large size", input: 10000, expected: 10240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sizeClass(tt.input))
		})
	}
}

func TestGetUint8_ZeroedAfterReuse(t *testing.T) {
	buf := GetUint8(500)
	require.Len(t, buf, 500)
	for i := range buf {
		buf[i] = 2
	}
	PutUint8(buf)

	again := GetUint8(500)
	require.Len(t, again, 500)
	for _, v := range again {
		require.Zero(t, v)
	}
	PutUint8(again)
}

func TestGetBool_Zeroed(t *testing.T) {
	buf := GetBool(3000)
	require.Len(t, buf, 3000)
	assert.GreaterOrEqual(t, cap(buf), 3000)
	for i := range buf {
		buf[i] = true
	}
	PutBool(buf)

	again := GetBool(2500)
	for _, v := range again {
		require.False(t, v)
	}
	PutBool(again)
}

func TestPut_IgnoresNilAndForeign(t *testing.T) {
	assert.NotPanics(t, func() {
		PutUint8(nil)
		PutBool(nil)
		PutUint8(make([]uint8, 10))
	})
}

func TestPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				n := 100 + (seed*37+i*11)%4000
				buf := GetUint8(n)
				if len(buf) != n {
					t.Errorf("expected len %d, got %d", n, len(buf))
				}
				buf[0] = uint8(seed)
				PutUint8(buf)
			}
		}(g)
	}
	wg.Wait()
}
