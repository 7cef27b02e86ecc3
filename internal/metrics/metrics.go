// Package metrics provides optional observability around the engine's
// request/response pipeline. An engine with no Metrics set (the default,
// or nil passed to Engine.SetMetrics) skips collection entirely, mirroring the nil-safe metrics interface
// pattern used elsewhere in the corpus this client is drawn from.
package metrics

import "time"

// Metrics records per-command request outcomes and byte counts. To disable
// collection, leave the engine's Metrics as a nil interface value;
// engine.Engine checks for nil before every call.
type Metrics interface {
	// RecordCommand records one completed command/response round trip.
	RecordCommand(command string, duration time.Duration, status string)

	// RecordBytesSent/RecordBytesReceived record wire-level traffic.
	RecordBytesSent(n int)
	RecordBytesReceived(n int)

	// RecordPendingRetry records one STATUS_PENDING reschedule.
	RecordPendingRetry(command string)
}
