// Package redisstore provides the optional Redis-backed detail store.
//
// Detail entries are written with SET NX, which gives the write-once-per-key
// guarantee for free and makes concurrent enrichment writes safe across
// multiple service instances sharing one Redis.
package redisstore
