// Package retention expires stored chunks after a fixed lifetime.
//
// Expiry is global: a sweep triggered by one session removes expired
// chunks from every session. A failed sweep degrades the triggering
// session instead of surfacing an error.
package retention
