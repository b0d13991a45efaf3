package eslgo

import "strings"

// CommandReply is the synchronous reply to a socket command sent via
// SendCommand.
type CommandReply struct {
	Headers   Header
	ReplyText string
}

// Success reports whether Reply-Text begins with "+OK".
func (r *CommandReply) Success() bool {
	return strings.HasPrefix(r.ReplyText, "+OK")
}

func commandReplyFromMessage(msg *BasicMessage) *CommandReply {
	return &CommandReply{Headers: msg.Headers, ReplyText: msg.ReplyText()}
}

// ApiResponse is the synchronous reply to an "api" invocation; Body holds
// the API's raw output.
type ApiResponse struct {
	Body []byte
}

// Success reports whether the body begins with "+OK".
func (r *ApiResponse) Success() bool {
	return strings.HasPrefix(string(r.Body), "+OK")
}

// Error returns the body text when Success is false, otherwise "".
func (r *ApiResponse) Error() string {
	if r.Success() {
		return ""
	}
	return string(r.Body)
}

func apiResponseFromMessage(msg *BasicMessage) *ApiResponse {
	return &ApiResponse{Body: msg.Body}
}

// BackgroundJobResult is the completion result of a "bgapi" invocation,
// built from the matching BACKGROUND_JOB event.
type BackgroundJobResult struct {
	JobUUID string
	Body    []byte
}

// Success reports whether the BACKGROUND_JOB event's body begins with
// "+OK".
func (r *BackgroundJobResult) Success() bool {
	return strings.HasPrefix(string(r.Body), "+OK")
}

// Error returns the body text (sans "+OK " prefix handling — FreeSWITCH
// puts the error message directly in the body) when Success is false.
func (r *BackgroundJobResult) Error() string {
	if r.Success() {
		return ""
	}
	return string(r.Body)
}

func backgroundJobResultFromEvent(ev *EventMessage) *BackgroundJobResult {
	return &BackgroundJobResult{JobUUID: ev.JobUUID(), Body: ev.Body}
}
