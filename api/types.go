package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler    postHandler
	tagHandler     tagHandler
	userHandler    userHandler
	settingHandler settingHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error    string   `json:"error" example:"Internal Server Error"`
	Status   string   `json:"status" example:"error"`
	Messages []string `json:"messages,omitempty"`
	Field    string   `json:"field,omitempty" example:"email"`
	Details  string   `json:"details,omitempty" example:"Additional error details"`
	Cause    string   `json:"cause,omitempty" example:"Underlying error cause"`
}
