// Package middleware groups the Fiber middlewares used by the HTTP surface:
// rayid (request correlation ids) and auth (API key guard).
package middleware
