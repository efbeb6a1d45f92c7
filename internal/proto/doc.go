// Package proto is the packet router and the handler for every
// (phase, packet id) pair the core accepts. It owns the packet id
// constants and the wire shapes for each message; it never touches a
// socket directly, only netio.Connection's outbound queue.
package proto
