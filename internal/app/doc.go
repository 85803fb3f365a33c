// Package app holds the shared application state.
//
// State is the single explicit owner of the sampled top list, classification
// tree and last-update stamp, constructed at startup and passed by reference
// to the poller and the HTTP handlers. Reads and writes go through an RWMutex;
// the ring buffer and detail store guard themselves.
package app
