// Package flashapi is the HTTP client for the upstream flash-list endpoint,
// used by the enrichment fetcher to resolve top-list detail text.
package flashapi
