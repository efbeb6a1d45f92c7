// Package logging constructs the server's logrus handle. There is no
// package-level logger here — New returns a handle the caller threads
// through ServerCore into every handler, and logging itself is routed
// through a bounded channel so a slow sink never blocks a worker or the
// reactor.
package logging
