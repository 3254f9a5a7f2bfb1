package statecache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/core/ports/driven"
)

func TestStore_PutAndTake(t *testing.T) {
	store := New()

	store.Put("tok1", driven.StateToken{Owner: "u1", Provider: "github"}, time.Minute)

	value, ok := store.Take("tok1")
	require.True(t, ok)
	assert.Equal(t, "u1", value.Owner)
	assert.Equal(t, "github", value.Provider)
}

// TestStore_TakeIsOneShot tests that a state token cannot be replayed.
func TestStore_TakeIsOneShot(t *testing.T) {
	store := New()
	store.Put("tok1", driven.StateToken{Owner: "u1", Provider: "slack"}, time.Minute)

	_, ok := store.Take("tok1")
	require.True(t, ok)

	_, ok = store.Take("tok1")
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	store := New()
	store.Put("tok1", driven.StateToken{Owner: "u1", Provider: "jira"}, 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	_, ok := store.Take("tok1")
	assert.False(t, ok)
}

func TestStore_UnknownToken(t *testing.T) {
	store := New()

	_, ok := store.Take("never-stored")
	assert.False(t, ok)
}
