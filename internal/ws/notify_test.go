package ws

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"wellness-chat/internal/models"
)

func TestPushBodyShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "hello there", pushBody(models.MessageText, "hello there"))
}

func TestPushBodyExactLimitUnchanged(t *testing.T) {
	content := strings.Repeat("x", 50)
	assert.Equal(t, content, pushBody(models.MessageText, content))
}

func TestPushBodyLongTextTruncated(t *testing.T) {
	content := strings.Repeat("x", 60)
	body := pushBody(models.MessageText, content)
	assert.Equal(t, strings.Repeat("x", 47)+"...", body)
	assert.Len(t, []rune(body), 50)
}

func TestPushBodyTruncatesByRunes(t *testing.T) {
	content := strings.Repeat("ä", 60)
	body := pushBody(models.MessageText, content)
	assert.Equal(t, strings.Repeat("ä", 47)+"...", body)
}

func TestPushBodyFixedPhrases(t *testing.T) {
	assert.Equal(t, "Sent you a voice message", pushBody(models.MessageAudio, "ignored"))
	assert.Equal(t, "Sent you an image", pushBody(models.MessageImage, ""))
	assert.Equal(t, "Shared a product with you", pushBody(models.MessageProduct, ""))
	assert.Equal(t, "Shared an office contact with you", pushBody(models.MessageOffices, ""))
}
