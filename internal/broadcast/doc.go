// Package broadcast implements the event fan-out hub using the actor pattern.
//
// A single goroutine owns the subscriber set and processes commands from a
// channel (no mutexes). Each subscriber gets a bounded event channel; a
// subscriber whose buffer is full is dropped rather than blocking the
// producer. Delivery order is identical for all connected subscribers.
package broadcast
