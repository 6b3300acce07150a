package secrets

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource(t *testing.T) {
	ctx := context.Background()
	seed := map[string]string{KeyTokenFlowToken: "tok"}
	src := NewMemorySource(seed)

	seed[KeyTokenFlowToken] = "changed"
	v, ok, err := src.Lookup(ctx, KeyTokenFlowToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v, "seed map is copied")

	src.Set(KeyTokenFlowUsername, "user")
	got, err := Load(ctx, src)
	require.NoError(t, err)
	require.NotNil(t, got.TokenFlow)
	assert.Equal(t, "user", got.TokenFlow.Username)

	src.Delete(KeyTokenFlowUsername)
	_, ok, err = src.Lookup(ctx, KeyTokenFlowUsername)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, src.Close())
	_, ok, _ = src.Lookup(ctx, KeyTokenFlowToken)
	assert.False(t, ok)
}

func TestMemorySource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMemorySource(nil).Lookup(ctx, KeyTokenFlowToken)
	require.Error(t, err)
	assert.True(t, IsSourceError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySource_Concurrent(t *testing.T) {
	src := NewMemorySource(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.Set(KeyPasswordFlowUsername, "user")
			_, _, _ = src.Lookup(context.Background(), KeyPasswordFlowUsername)
		}()
	}
	wg.Wait()

	v, ok, err := src.Lookup(context.Background(), KeyPasswordFlowUsername)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user", v)
}
