// Package eslgo is a client for FreeSWITCH's Event Socket Layer (ESL), the
// line-oriented TCP protocol FreeSWITCH uses to expose call control and
// telephony events to external processes.
//
// The package supports both directions of the protocol: inbound mode, where
// the caller dials FreeSWITCH with Dial and drives it, and outbound mode,
// where FreeSWITCH dials the caller's Listener once per call leg.
package eslgo
