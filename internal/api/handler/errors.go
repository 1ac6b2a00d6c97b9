package handler

// errorResponse documents the error envelope rendered by the API's error handler.
type errorResponse struct {
	Kind  string `json:"kind" example:"not_found"`
	Error string `json:"error" example:"artwork not found"`
}
