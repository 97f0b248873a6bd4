package models

import "strings"

// StartInterviewRequest starts the first interviewer turn for a session.
type StartInterviewRequest struct {
	InterviewID string `json:"interviewId"`
}

// implements the Validator interface
func (r *StartInterviewRequest) Validate() error {
	if strings.TrimSpace(r.InterviewID) == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "Interview ID is required",
		}
	}
	return nil
}

// TurnRequest submits a candidate answer and asks for the next question.
type TurnRequest struct {
	InterviewID string `json:"interviewId"`
	Question    string `json:"question"`
}

func (r *TurnRequest) Validate() error {
	if strings.TrimSpace(r.InterviewID) == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "Interview ID is required",
		}
	}
	if strings.TrimSpace(r.Question) == "" {
		return &ErrorResponse{
			Code:    "missing_question",
			Message: "Interview ID and question are required",
		}
	}
	return nil
}

// EndInterviewRequest marks a session as completed.
type EndInterviewRequest struct {
	InterviewID string `json:"interviewId"`
	Status      bool   `json:"status"`
	IsManual    bool   `json:"isManual"`
}

func (r *EndInterviewRequest) Validate() error {
	if strings.TrimSpace(r.InterviewID) == "" {
		return &ErrorResponse{
			Code:    "missing_interview_id",
			Message: "Interview ID is required",
		}
	}
	return nil
}

type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if r.Firstname == "" || r.Lastname == "" || r.Username == "" || r.Email == "" || r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_fields",
			Message: "All fields are required",
		}
	}
	if len(r.Password) < 6 {
		return &ErrorResponse{
			Code:    "weak_password",
			Message: "Password must be at least 6 characters long",
		}
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return &ErrorResponse{
			Code:    "missing_fields",
			Message: "All fields are required",
		}
	}
	return nil
}

// GoogleAuthRequest carries the authorization code from the OAuth redirect.
type GoogleAuthRequest struct {
	Code string `json:"code"`
}

func (r *GoogleAuthRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return &ErrorResponse{
			Code:    "missing_code",
			Message: "Authorization code is required",
		}
	}
	return nil
}
