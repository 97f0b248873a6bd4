package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Turn roles in an interview conversation.
const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// Turn is a single utterance in the conversation. The insertion order of
// turns is the conversation order; turns are never reordered or mutated
// once appended.
type Turn struct {
	Role      string    `json:"role" bson:"role"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Interview is one candidate's mock-interview session.
type Interview struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Candidate primitive.ObjectID `json:"candidate" bson:"candidate"`
	Role      string             `json:"role" bson:"role"`
	Time      time.Time          `json:"time" bson:"time"`
	Resume    string             `json:"resume" bson:"resume"` // uploaded resume URL

	// Status is true once the interview has ended, manually or by timer.
	Status      bool       `json:"status" bson:"status"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	ManualEnd   bool       `json:"manualEnd" bson:"manualEnd"`

	Conversation []Turn `json:"interviewHistory" bson:"interviewHistory"`

	Evaluation  *Evaluation `json:"evaluation,omitempty" bson:"evaluation,omitempty"`
	EvaluatedAt *time.Time  `json:"evaluatedAt,omitempty" bson:"evaluatedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
