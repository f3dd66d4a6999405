// Package middleware groups the fiber middleware installed in front of every
// feature.
//
// rayid tags each request with an X-Ray-ID (reusing the caller's when sent)
// and must run first. auth checks the API key and lets path prefixes such as
// /metrics and /swagger through.
package middleware
