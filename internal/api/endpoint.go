// Package api defines the endpoint abstraction shared by the HTTP server
// and the CLI: each operation is declared once and exposed as both a route
// and a cobra command.
package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit returns true if this endpoint needs the extraction
	// engine to be fully initialized.
	RequiresInit() bool

	// Command returns a cobra command that calls this endpoint via HTTP,
	// or nil when the operation has no CLI form (file uploads).
	// getServerURL is evaluated at run time, not registration time.
	Command(getServerURL func() string) *cobra.Command
}
