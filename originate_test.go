package eslgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginateOptions_RenderEmpty(t *testing.T) {
	assert.Equal(t, "{}", OriginateOptions{}.Render())
}

func TestOriginateOptions_RenderFullSet(t *testing.T) {
	opt := OriginateOptions{
		UUID:             "call-1",
		CallerIdName:     "Alice",
		CallerIdNumber:   "1001",
		Retries:          3,
		RetrySleepMs:     500,
		Timeout:          30,
		ReturnRingReady:  true,
		IgnoreEarlyMedia: true,
		BypassMedia:      true,
	}
	rendered := opt.Render()
	assert.Contains(t, rendered, "origination_uuid='call-1'")
	assert.Contains(t, rendered, "origination_caller_id_name='Alice'")
	assert.Contains(t, rendered, "origination_caller_id_number='1001'")
	assert.Contains(t, rendered, "originate_retries=3")
	assert.Contains(t, rendered, "originate_retry_sleep_ms=500")
	assert.Contains(t, rendered, "originate_timeout=30")
	assert.Contains(t, rendered, "return_ring_ready=true")
	assert.Contains(t, rendered, "ignore_early_media=true")
	assert.Contains(t, rendered, "bypass_media=true")
	assert.NotContains(t, rendered, ",}")
}

func TestOriginateOptions_OmitsZeroFields(t *testing.T) {
	rendered := OriginateOptions{CallerIdNumber: "1001"}.Render()
	assert.Equal(t, "{origination_caller_id_number='1001'}", rendered)
}

func TestOriginateResult_Success(t *testing.T) {
	assert.False(t, (&OriginateResult{}).Success())
	assert.True(t, (&OriginateResult{Event: &EventMessage{Headers: Header{"Event-Name": "CHANNEL_ANSWER"}}}).Success())
	assert.False(t, (&OriginateResult{Event: &EventMessage{Headers: Header{"Event-Name": "CHANNEL_HANGUP"}}}).Success())
}
