// Package server implements the HTTP server and HTTP handlers for
// csv-drop. It wires the upload, root, health and metrics routes behind a
// single CORS policy and provides lifecycle helpers used by tests and the
// production binary.
package server
