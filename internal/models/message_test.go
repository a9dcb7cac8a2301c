package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageType(t *testing.T) {
	for _, s := range []string{"text", "audio", "image", "product", "offices", "join", "assign_expert"} {
		parsed, err := ParseMessageType(s)
		require.NoError(t, err)
		assert.Equal(t, MessageType(s), parsed)
	}

	for _, s := range []string{"", "video", "TEXT", "text "} {
		_, err := ParseMessageType(s)
		assert.Error(t, err, "%q should be rejected", s)
	}
}

func TestMessageTypePersisted(t *testing.T) {
	assert.True(t, MessageText.Persisted())
	assert.True(t, MessageAudio.Persisted())
	assert.True(t, MessageImage.Persisted())
	assert.True(t, MessageProduct.Persisted())
	assert.True(t, MessageOffices.Persisted())
	assert.False(t, MessageJoin.Persisted())
	assert.False(t, MessageAssignExpert.Persisted())
}
