// Package netio implements the connection lifecycle and packet pipeline:
// per-connection framing, a bounded incoming queue, a worker pool that
// routes decoded frames to handlers under a per-connection ordering
// lock, and a per-connection outbound sender. Grounded on
// dmitrymodder-minewire's handleConnection accept-loop-plus-goroutine
// pattern in main.go, generalized from its single-purpose read loop into
// a reactor/worker/sender split. Go's runtime netpoller already gives
// non-blocking I/O under a blocking net.Conn Read, so the "reactor" here
// is realized as one read-pump goroutine per connection feeding a
// bounded channel, rather than hand-rolled readiness polling.
package netio
