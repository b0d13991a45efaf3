package eslgo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramer_HeadersOnly(t *testing.T) {
	f := NewFramer(strings.NewReader("Content-Type: command/reply\nReply-Text: +OK\n\n"))
	msg, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCommandReply, msg.ContentType())
	assert.Equal(t, "+OK", msg.ReplyText())
	assert.Nil(t, msg.Body)
}

func TestFramer_WithBody(t *testing.T) {
	f := NewFramer(strings.NewReader("Content-Type: api/response\nContent-Length: 5\n\nhello"))
	msg, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(msg.Body))
}

func TestFramer_CRLF(t *testing.T) {
	f := NewFramer(strings.NewReader("Content-Type: command/reply\r\nReply-Text: +OK\r\n\r\n"))
	msg, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "+OK", msg.ReplyText())
}

func TestFramer_MalformedContentLength_ResynchronizesOnNextFrame(t *testing.T) {
	f := NewFramer(strings.NewReader(
		"Content-Type: command/reply\nContent-Length: notanumber\n\n" +
			"Content-Type: command/reply\nReply-Text: +OK\n\n",
	))
	_, err := f.ReadMessage()
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.False(t, protoErr.Fatal)

	msg, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "+OK", msg.ReplyText())
}

func TestFramer_TruncatedBody_IsFatal(t *testing.T) {
	f := NewFramer(strings.NewReader("Content-Type: api/response\nContent-Length: 10\n\nabc"))
	_, err := f.ReadMessage()
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.True(t, protoErr.Fatal)
	assert.Equal(t, "body", protoErr.Stage)
}

func TestFramer_ZeroContentLength(t *testing.T) {
	f := NewFramer(strings.NewReader("Content-Type: command/reply\nContent-Length: 0\n\n"))
	msg, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Nil(t, msg.Body)
}

func TestFramer_MultipleFramesFromOneStream(t *testing.T) {
	f := NewFramer(strings.NewReader(
		"Content-Type: command/reply\nReply-Text: +OK first\n\n" +
			"Content-Type: command/reply\nReply-Text: +OK second\n\n",
	))
	first, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "+OK first", first.ReplyText())

	second, err := f.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "+OK second", second.ReplyText())
}
