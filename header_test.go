package eslgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_CaseSensitiveLookup(t *testing.T) {
	h := Header{"Unique-ID": "abc"}
	assert.Equal(t, "abc", h.Get("Unique-ID"))
	assert.Equal(t, "", h.Get("unique-id"))
}

func TestHeader_SetLastWriteWins(t *testing.T) {
	h := Header{}
	h.Set("Event-Name", "CHANNEL_CREATE")
	h.Set("Event-Name", "CHANNEL_ANSWER")
	assert.Equal(t, "CHANNEL_ANSWER", h.Get("Event-Name"))
}

func TestHeader_Clone(t *testing.T) {
	h := Header{"A": "1"}
	clone := h.Clone()
	clone.Set("A", "2")
	assert.Equal(t, "1", h.Get("A"))
	assert.Equal(t, "2", clone.Get("A"))
}

func TestParseHeaderBlock(t *testing.T) {
	h := parseHeaderBlock([]string{
		"Content-Type: command/reply",
		"Reply-Text: +OK",
		"malformed-line-without-separator",
		"",
	})
	assert.Equal(t, "command/reply", h.Get("Content-Type"))
	assert.Equal(t, "+OK", h.Get("Reply-Text"))
	assert.Len(t, h, 2)
}
