// Package api implements the low-level HTTP client for the SmsDrop
// provider REST API: authentication, wire-format payload construction
// and typed endpoint wrappers.
//
// This package is internal; use the public smsdrop package instead.
package api
