package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("golang/go")
		id2 := IDFromContent("golang/go")
		assert.Equal(t, id1, id2)
	})

	t.Run("distinct content distinct IDs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("golang/go"), IDFromContent("rust-lang/rust"))
	})

	t.Run("empty content", func(t *testing.T) {
		// Still a valid ID, just the hash of nothing.
		assert.Equal(t, IDFromContent(""), IDFromContent(""))
	})
}

func TestRepositoryHasDescription(t *testing.T) {
	repo := &Repository{FullName: "golang/go"}
	assert.False(t, repo.HasDescription())

	repo.Description = "The Go programming language"
	assert.True(t, repo.HasDescription())
}

func TestTimeMUSZeroValue(t *testing.T) {
	var zero time.Time

	bs := make([]byte, TimeMUS.Size(zero))
	n := TimeMUS.Marshal(zero, bs)
	require.Equal(t, len(bs), n)

	decoded, _, err := TimeMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.True(t, decoded.IsZero())
}

func TestTimeMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	bs := make([]byte, TimeMUS.Size(now))
	TimeMUS.Marshal(now, bs)

	decoded, _, err := TimeMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded))
}
