package eslgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandReply_Success(t *testing.T) {
	assert.True(t, (&CommandReply{ReplyText: "+OK accepted"}).Success())
	assert.False(t, (&CommandReply{ReplyText: "-ERR no such channel"}).Success())
}

func TestApiResponse_SuccessAndError(t *testing.T) {
	ok := &ApiResponse{Body: []byte("+OK\n")}
	assert.True(t, ok.Success())
	assert.Equal(t, "", ok.Error())

	failed := &ApiResponse{Body: []byte("-ERR no such channel")}
	assert.False(t, failed.Success())
	assert.Equal(t, "-ERR no such channel", failed.Error())
}

func TestBackgroundJobResult_FromEvent(t *testing.T) {
	ev := &EventMessage{
		Headers: Header{"Job-UUID": "job-1"},
		Body:    []byte("+OK abc123"),
	}
	result := backgroundJobResultFromEvent(ev)
	assert.Equal(t, "job-1", result.JobUUID)
	assert.True(t, result.Success())
	assert.Equal(t, "", result.Error())
}
