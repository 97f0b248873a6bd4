package models

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// StartInterviewResponse is returned by the start-interview endpoint.
type StartInterviewResponse struct {
	InitialQuestion string `json:"initialQuestion"`
	UsingFallback   bool   `json:"usingFallback"`
}

// TurnResponse is returned by the get-response endpoint.
type TurnResponse struct {
	AIResponse      string `json:"aiResponse"`
	IsUsingFallback bool   `json:"isUsingFallback"`
}

// EndInterviewResponse is returned by the end-interview endpoint.
type EndInterviewResponse struct {
	InterviewID string `json:"interviewId"`
	Status      bool   `json:"status"`
}

// InterviewStats aggregates a candidate's sessions for the stats endpoint.
type InterviewStats struct {
	Total     int   `json:"total"`
	Completed int   `json:"completed"`
	Pending   int   `json:"pending"`
	// StorageBytes estimates space used by stored conversations and
	// resume references across the candidate's sessions.
	StorageBytes int64 `json:"storageBytes"`
}
