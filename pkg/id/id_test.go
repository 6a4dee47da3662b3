package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsMonotonic(t *testing.T) {
	t.Parallel()

	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestWithPrefix(t *testing.T) {
	t.Parallel()

	got := WithPrefix("custom")
	assert.True(t, strings.HasPrefix(got, "custom-"))
	assert.Len(t, got, len("custom-")+26)

	assert.Len(t, WithPrefix(""), 26)
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	got, ok := Time(NewAt(at))
	require.True(t, ok)
	assert.True(t, got.Equal(at))

	_, ok = Time("not-a-ulid")
	assert.False(t, ok)
}
