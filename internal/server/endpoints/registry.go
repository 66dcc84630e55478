// Package endpoints declares every HTTP operation of the pdfgrid server,
// one file per endpoint, registered through the api.Endpoint interface.
package endpoints

import (
	"github.com/pdfgrid/pdfgrid/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health and status
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Extraction
		&ParseUploadEndpoint{},
		&ParseTextEndpoint{},

		// Export
		&ExportCSVEndpoint{},
		&ExportXLSXEndpoint{},

		// Format conversion
		&ConvertEndpoint{},
	}
}
