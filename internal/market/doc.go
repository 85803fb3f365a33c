// Package market computes trading-window status for the markets published in
// the upstream trading-clock dataset.
//
// Status is a pure per-request computation (clock injected for tests):
// windows may span midnight, and a rest-day or weekend overrides the window.
package market
