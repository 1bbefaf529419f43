package respond

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCache(10, time.Minute)
	cache.Set("קו 30 מאחר", false, "answer")

	got, ok := cache.Get("קו 30 מאחר", false)
	assert.True(t, ok)
	assert.Equal(t, "answer", got)

	// Normalization makes punctuation and spacing variants hit the same entry.
	got, ok = cache.Get("  קו 30 מאחר!  ", false)
	assert.True(t, ok)
	assert.Equal(t, "answer", got)

	// Same question with history context is a distinct entry.
	_, ok = cache.Get("קו 30 מאחר", true)
	assert.False(t, ok)
}

func TestCacheLazyTTLExpiry(t *testing.T) {
	cache := NewCache(10, time.Minute)
	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Set("קו 30 מאחר", false, "answer")

	current = current.Add(59 * time.Second)
	_, ok := cache.Get("קו 30 מאחר", false)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = cache.Get("קו 30 מאחר", false)
	assert.False(t, ok)
	// Expired entry is swept on read, not just hidden.
	assert.Equal(t, 0, cache.Len())
}

func TestCacheEvictsOldestInsertionFirst(t *testing.T) {
	cache := NewCache(2, time.Hour)
	cache.Set("שאלה ראשונה", false, "a")
	cache.Set("שאלה שניה", false, "b")

	// Reading the oldest entry must not promote it.
	_, ok := cache.Get("שאלה ראשונה", false)
	assert.True(t, ok)

	cache.Set("שאלה שלישית", false, "c")

	_, ok = cache.Get("שאלה ראשונה", false)
	assert.False(t, ok, "oldest inserted entry should be evicted even after a recent read")
	_, ok = cache.Get("שאלה שניה", false)
	assert.True(t, ok)
	_, ok = cache.Get("שאלה שלישית", false)
	assert.True(t, ok)
}

func TestCacheUpdateDoesNotGrow(t *testing.T) {
	cache := NewCache(5, time.Hour)
	for i := 0; i < 3; i++ {
		cache.Set("אותה שאלה", false, fmt.Sprintf("answer-%d", i))
	}
	assert.Equal(t, 1, cache.Len())

	got, ok := cache.Get("אותה שאלה", false)
	assert.True(t, ok)
	assert.Equal(t, "answer-2", got)
}
