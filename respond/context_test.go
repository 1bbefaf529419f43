package respond

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationHistoryBound(t *testing.T) {
	conv := newConversation("s1", 5)
	for i := 0; i < 8; i++ {
		conv.AddTurn(fmt.Sprintf("inquiry-%d", i), fmt.Sprintf("response-%d", i), nil)
	}

	history := conv.History()
	require.Len(t, history, 5)
	assert.Equal(t, "inquiry-3", history[0].Inquiry)
	assert.Equal(t, "inquiry-7", history[4].Inquiry)
}

func TestConversationTopicFrequency(t *testing.T) {
	conv := newConversation("s1", 5)
	conv.RecordTopic("delay")
	conv.RecordTopic("delay")
	conv.RecordTopic("overcrowding")
	conv.RecordTopic("")

	freq := conv.TopicFrequency()
	assert.Equal(t, 2, freq["delay"])
	assert.Equal(t, 1, freq["overcrowding"])
	assert.NotContains(t, freq, "")
}

func TestConversationHasHistory(t *testing.T) {
	conv := newConversation("s1", 5)
	assert.False(t, conv.HasHistory())
	conv.AddTurn("שאלה", "תשובה", nil)
	assert.True(t, conv.HasHistory())
}

func TestContextStoreLazyCreate(t *testing.T) {
	store, err := NewContextStore(8, 5)
	require.NoError(t, err)

	a := store.Get("session-a")
	require.NotNil(t, a)
	a.AddTurn("שאלה", "תשובה", nil)

	again := store.Get("session-a")
	assert.Same(t, a, again)
	assert.True(t, again.HasHistory())
	assert.Equal(t, 1, store.Len())
}

func TestContextStoreBoundedSessions(t *testing.T) {
	store, err := NewContextStore(2, 5)
	require.NoError(t, err)

	store.Get("a")
	store.Get("b")
	store.Get("c")
	assert.Equal(t, 2, store.Len())
}
