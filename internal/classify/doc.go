// Package classify turns raw sampled items into canonical flash records.
//
// Pure functions only: VIP gating, title resolution (explicit field, bracketed
// prefix of the body, first-50-characters fallback) and the stricter search
// variant. No mutable state.
package classify
