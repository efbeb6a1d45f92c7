// Package idalloc allocates the numeric entity ids handed out to players
// on join. Grounded on dmitrymodder-minewire's connection-counter pattern
// in main.go, generalized into a monotonic counter with free-list reuse
// for entity id allocation.
package idalloc
