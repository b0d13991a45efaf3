package eslgo

import (
	"strconv"
	"strings"
)

// OriginateOptions configures an Originate call. It renders as a
// comma-separated, brace-enclosed FreeSWITCH channel-variable list; empty
// or zero fields are omitted entirely.
type OriginateOptions struct {
	UUID               string // origination_uuid (quoted)
	CallerIdName       string // origination_caller_id_name (quoted)
	CallerIdNumber     string // origination_caller_id_number (quoted)
	Retries            int    // originate_retries
	RetrySleepMs       int    // originate_retry_sleep_ms
	Timeout            int    // originate_timeout (seconds)
	ExecuteOnOriginate string // execute_on_originate (quoted)
	ReturnRingReady    bool   // return_ring_ready=true
	IgnoreEarlyMedia   bool   // ignore_early_media=true
	BypassMedia        bool   // bypass_media=true
}

// Render formats the option set as FreeSWITCH's brace-enclosed channel
// variable prefix, e.g. "{origination_uuid='abc',return_ring_ready=true}".
// An empty option set renders as "{}"; there is never a trailing comma.
func (o OriginateOptions) Render() string {
	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"='"+value+"'")
		}
	}
	addInt := func(key string, value int) {
		if value != 0 {
			parts = append(parts, key+"="+strconv.Itoa(value))
		}
	}
	addFlag := func(key string, value bool) {
		if value {
			parts = append(parts, key+"=true")
		}
	}

	add("origination_uuid", o.UUID)
	add("origination_caller_id_name", o.CallerIdName)
	add("origination_caller_id_number", o.CallerIdNumber)
	addInt("originate_retries", o.Retries)
	addInt("originate_retry_sleep_ms", o.RetrySleepMs)
	addInt("originate_timeout", o.Timeout)
	add("execute_on_originate", o.ExecuteOnOriginate)
	addFlag("return_ring_ready", o.ReturnRingReady)
	addFlag("ignore_early_media", o.IgnoreEarlyMedia)
	addFlag("bypass_media", o.BypassMedia)

	return "{" + strings.Join(parts, ",") + "}"
}

// OriginateResult is the outcome of Originate: either the winning channel
// event (CHANNEL_ANSWER, CHANNEL_HANGUP, or CHANNEL_PROGRESS) or a failed
// bgapi dispatch, whichever arrives first.
type OriginateResult struct {
	UUID  string
	Event *EventMessage        // set when a qualifying event won the race
	Job   *BackgroundJobResult // set when a failed bgapi reply won the race
}

// Success reports whether the call setup succeeded: an Event was captured
// and it is not CHANNEL_HANGUP (whatever its hangup cause).
func (r *OriginateResult) Success() bool {
	if r.Event == nil {
		return false
	}
	if r.Event.EventName() == "CHANNEL_HANGUP" {
		return false
	}
	return true
}
