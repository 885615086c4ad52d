package cursor

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1600000000000000001", "1600000000000000000", true},
		{"1600000000000000000", "1600000000000000001", false},
		{"10000000000000000000", "9999999999999999999", true},
		{"99", "100", false},
		{"5", "", true},
		{"", "5", false},
		{"42", "42", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Newer(tt.a, tt.b), "Newer(%q, %q)", tt.a, tt.b)
	}
}

func TestNewRunID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = NewRunID(now)
	}

	assert.True(t, sort.StringsAreSorted(ids), "IDs from one millisecond must sort in creation order")

	parsed, err := ulid.Parse(ids[0])
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), ulid.Time(parsed.Time()).UnixMilli())
}
