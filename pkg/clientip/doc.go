// Package clientip resolves the caller's address behind Cloudflare or a
// reverse proxy. It is used to key per-client rate limits.
//
// Headers are trusted as sent; deploy behind a proxy that overwrites them.
package clientip
