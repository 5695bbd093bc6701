package handler

// HealthResponse reports "degraded" when a configured backend is unreachable.
// Searches keep working in that state.
type HealthResponse struct {
	Status          string            `json:"status"`
	Products        int               `json:"products"`
	Recommendations int               `json:"recommendations"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
