package idx_test

import (
	"testing"

	"github.com/aussiebroadwan/storefront/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewIsULID(t *testing.T) {
	id := idx.New()

	_, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
}

func TestNewIsIncreasing(t *testing.T) {
	prev := idx.New()
	for range 100 {
		next := idx.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}
