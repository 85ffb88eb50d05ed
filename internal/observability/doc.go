// Package observability builds the structured logger shared by the API.
//
// Loggers are zap-based: JSON output with ISO8601 timestamps for servers,
// colored console output for local development.
package observability
