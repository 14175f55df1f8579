package server

import "zapline/database"

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ReportsResponse defines the JSON structure for the report-list endpoint.
type ReportsResponse struct {
	Reports []database.ReportRecord `json:"reports"`
}

// HealthResponse defines the JSON structure for the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
