package models

import "time"

// CategoryEvaluation is the per-category block of an evaluation result.
type CategoryEvaluation struct {
	Score        int      `json:"score" bson:"score"`
	Feedback     string   `json:"feedback" bson:"feedback"`
	Strengths    []string `json:"strengths" bson:"strengths"`
	Improvements []string `json:"improvements" bson:"improvements"`
}

// Evaluation is the structured result produced after a completed interview.
// The JSON shape is consumed by charting and detail views and must not change.
type Evaluation struct {
	OverallScore        int                `json:"overallScore" bson:"overallScore"`
	Communication       CategoryEvaluation `json:"communication" bson:"communication"`
	TechnicalKnowledge  CategoryEvaluation `json:"technicalKnowledge" bson:"technicalKnowledge"`
	ProblemSolving      CategoryEvaluation `json:"problemSolving" bson:"problemSolving"`
	Experience          CategoryEvaluation `json:"experience" bson:"experience"`
	CulturalFit         CategoryEvaluation `json:"culturalFit" bson:"culturalFit"`
	Recommendation      string             `json:"recommendation" bson:"recommendation"`
	KeyStrengths        []string           `json:"keyStrengths" bson:"keyStrengths"`
	AreasForImprovement []string           `json:"areasForImprovement" bson:"areasForImprovement"`
	NextSteps           string             `json:"nextSteps" bson:"nextSteps"`
}

// EvaluationCategories lists the per-category keys in the evaluation shape.
var EvaluationCategories = []string{
	"communication",
	"technicalKnowledge",
	"problemSolving",
	"experience",
	"culturalFit",
}

// RequiredEvaluationFields are the top-level keys a provider response must
// contain to be accepted.
var RequiredEvaluationFields = []string{
	"overallScore",
	"communication",
	"technicalKnowledge",
	"problemSolving",
	"experience",
	"culturalFit",
	"recommendation",
	"keyStrengths",
	"areasForImprovement",
	"nextSteps",
}

// RecentScore is one (date, score, role) tuple in the statistics view.
type RecentScore struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
	Role  string    `json:"role"`
}

// EvaluationStatistics aggregates evaluated interviews for one candidate.
type EvaluationStatistics struct {
	TotalInterviews  int            `json:"totalInterviews"`
	AverageScore     int            `json:"averageScore"`
	CategoryAverages map[string]int `json:"categoryAverages"`
	RecentScores     []RecentScore  `json:"recentScores"`
	ImprovementTrend string         `json:"improvementTrend"`
}
