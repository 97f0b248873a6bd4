package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/llm"
	"github.com/CodeXGautam/Vocintera/internal/metrics"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/prompts"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
	"github.com/CodeXGautam/Vocintera/internal/retention"
)

var (
	// ErrNotEvaluable means the session has not been completed yet.
	ErrNotEvaluable = errors.New("interview must be completed before evaluation")
	// ErrInvalidEvaluation means no tier produced a structurally valid result.
	ErrInvalidEvaluation = errors.New("invalid evaluation result structure")
)

const recentScoreWindow = 5

// trend classification band: the latest of the recent scores must move by
// more than this many points against the earliest to leave "Stable"
const trendBand = 5

// Store is the persistence surface the engine needs.
type Store interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error)
	SetEvaluation(ctx context.Context, id primitive.ObjectID, eval *models.Evaluation, at time.Time) error
	ListEvaluatedByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Interview, error)
	GetEvaluatedForOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Interview, error)
}

// Engine produces and reads structured evaluations of completed sessions.
type Engine struct {
	store   Store
	gateway *llm.Gateway
	prompts prompts.PromptProvider
	sweeper *retention.Sweeper
	logger  *zap.Logger
}

func NewEngine(store Store, gateway *llm.Gateway, promptManager prompts.PromptProvider, sweeper *retention.Sweeper, logger *zap.Logger) *Engine {
	return &Engine{
		store:   store,
		gateway: gateway,
		prompts: promptManager,
		sweeper: sweeper,
		logger:  logger,
	}
}

// Evaluate sends the session transcript through the provider gateway and
// persists the first structurally valid evaluation. Tiers that return an
// unparseable or incomplete object are rejected and the next tier is
// tried; the static rubric is the last resort.
func (e *Engine) Evaluate(ctx context.Context, id, owner primitive.ObjectID) (*models.Evaluation, error) {
	session, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Candidate != owner {
		return nil, repositories.ErrNotFound
	}
	if !session.Status {
		return nil, ErrNotEvaluable
	}

	prompt, err := e.prompts.BuildPrompt("evaluation", "default", map[string]string{
		"Role":       session.Role,
		"Resume":     session.Resume,
		"Transcript": transcript(session.Conversation),
	})
	if err != nil {
		return nil, err
	}

	var eval *models.Evaluation
	result, err := e.gateway.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Mode:        llm.ModeJSON,
		MaxTokens:   800,
		Temperature: 0.3,
		Accept: func(text string) error {
			parsed, parseErr := ParseEvaluation(text)
			if parseErr != nil {
				return parseErr
			}
			eval = parsed
			return nil
		},
	})
	if err != nil {
		e.logger.Warn("all providers failed, using static rubric",
			zap.String("interview", id.Hex()), zap.Error(err))
		metrics.StaticFallbackUsed.WithLabelValues("evaluation").Inc()
		eval = FallbackRubric()
	} else {
		e.logger.Info("evaluation generated",
			zap.String("interview", id.Hex()),
			zap.String("provider", result.Provider),
			zap.Bool("using_fallback", result.UsingFallback))
	}

	if err := ValidateEvaluation(eval); err != nil {
		metrics.EvaluationsCompleted.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidEvaluation
	}

	if err := e.store.SetEvaluation(ctx, id, eval, time.Now().UTC()); err != nil {
		metrics.EvaluationsCompleted.WithLabelValues("persist_error").Inc()
		return nil, err
	}

	e.sweeper.Enforce(ctx, session.Candidate)
	metrics.EvaluationsCompleted.WithLabelValues("ok").Inc()

	return eval, nil
}

// Detail returns an evaluated session owned by the candidate.
func (e *Engine) Detail(ctx context.Context, id, owner primitive.ObjectID) (*models.Interview, error) {
	return e.store.GetEvaluatedForOwner(ctx, id, owner)
}

// Statistics aggregates the owner's evaluated sessions.
func (e *Engine) Statistics(ctx context.Context, owner primitive.ObjectID) (*models.EvaluationStatistics, error) {
	sessions, err := e.store.ListEvaluatedByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return &models.EvaluationStatistics{
			CategoryAverages: map[string]int{},
			RecentScores:     []models.RecentScore{},
			ImprovementTrend: "No data",
		}, nil
	}

	stats := &models.EvaluationStatistics{
		TotalInterviews:  len(sessions),
		CategoryAverages: make(map[string]int, len(models.EvaluationCategories)),
	}

	var total int
	categoryTotals := make(map[string]int, len(models.EvaluationCategories))
	for _, session := range sessions {
		total += session.Evaluation.OverallScore
		categoryTotals["communication"] += session.Evaluation.Communication.Score
		categoryTotals["technicalKnowledge"] += session.Evaluation.TechnicalKnowledge.Score
		categoryTotals["problemSolving"] += session.Evaluation.ProblemSolving.Score
		categoryTotals["experience"] += session.Evaluation.Experience.Score
		categoryTotals["culturalFit"] += session.Evaluation.CulturalFit.Score
	}

	stats.AverageScore = roundMean(total, len(sessions))
	for _, category := range models.EvaluationCategories {
		stats.CategoryAverages[category] = roundMean(categoryTotals[category], len(sessions))
	}

	// sessions arrive newest first by evaluation time
	recent := sessions
	if len(recent) > recentScoreWindow {
		recent = recent[:recentScoreWindow]
	}
	stats.RecentScores = make([]models.RecentScore, 0, len(recent))
	for _, session := range recent {
		score := models.RecentScore{
			Score: session.Evaluation.OverallScore,
			Role:  session.Role,
		}
		if session.EvaluatedAt != nil {
			score.Date = *session.EvaluatedAt
		}
		stats.RecentScores = append(stats.RecentScores, score)
	}

	stats.ImprovementTrend = classifyTrend(stats.RecentScores)

	return stats, nil
}

func roundMean(total, count int) int {
	return int(math.Round(float64(total) / float64(count)))
}

// classifyTrend compares the latest recent score against the earliest.
// Scores arrive newest first.
func classifyTrend(recent []models.RecentScore) string {
	if len(recent) < 2 {
		return "Stable"
	}
	latest := recent[0].Score
	earliest := recent[len(recent)-1].Score
	switch {
	case latest > earliest+trendBand:
		return "Improving"
	case latest < earliest-trendBand:
		return "Declining"
	default:
		return "Stable"
	}
}

// ParseEvaluation extracts and validates the JSON object in a provider
// reply. A reply missing any required top-level field is rejected so the
// gateway escalates to the next tier.
func ParseEvaluation(text string) (*models.Evaluation, error) {
	jsonText, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, fmt.Errorf("evaluation is not valid JSON: %w", err)
	}

	var missing []string
	for _, field := range models.RequiredEvaluationFields {
		value, ok := raw[field]
		if !ok || string(value) == "null" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("evaluation missing required fields: %s", strings.Join(missing, ", "))
	}

	var eval models.Evaluation
	if err := json.Unmarshal([]byte(jsonText), &eval); err != nil {
		return nil, fmt.Errorf("evaluation has wrong field types: %w", err)
	}

	return &eval, nil
}

// ValidateEvaluation checks the required fields on a decoded result.
func ValidateEvaluation(eval *models.Evaluation) error {
	if eval == nil {
		return ErrInvalidEvaluation
	}
	serialized, err := json.Marshal(eval)
	if err != nil {
		return err
	}
	_, err = ParseEvaluation(string(serialized))
	return err
}

func transcript(turns []models.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.Role+": "+turn.Text)
	}
	return strings.Join(lines, "\n")
}

// FallbackRubric is the static final tier: a fixed, fully populated
// evaluation used when no provider produced a valid object.
func FallbackRubric() *models.Evaluation {
	return &models.Evaluation{
		OverallScore: 75,
		Communication: models.CategoryEvaluation{
			Score:        70,
			Feedback:     "Standard communication skills demonstrated during the interview",
			Strengths:    []string{"Clear responses", "Professional tone"},
			Improvements: []string{"Could provide more specific examples", "More detailed explanations"},
		},
		TechnicalKnowledge: models.CategoryEvaluation{
			Score:        80,
			Feedback:     "Good technical understanding for the role",
			Strengths:    []string{"Relevant knowledge", "Understanding of key concepts"},
			Improvements: []string{"Could show more depth", "More hands-on experience examples"},
		},
		ProblemSolving: models.CategoryEvaluation{
			Score:        75,
			Feedback:     "Shows logical thinking and analytical approach",
			Strengths:    []string{"Analytical approach", "Structured thinking"},
			Improvements: []string{"Could provide more detailed solutions", "More creative problem-solving"},
		},
		Experience: models.CategoryEvaluation{
			Score:        80,
			Feedback:     "Relevant experience demonstrated through examples",
			Strengths:    []string{"Good background", "Relevant projects"},
			Improvements: []string{"Could share more quantifiable results", "More specific achievements"},
		},
		CulturalFit: models.CategoryEvaluation{
			Score:        85,
			Feedback:     "Good cultural alignment and team-oriented mindset",
			Strengths:    []string{"Team player", "Positive attitude"},
			Improvements: []string{"Could show more leadership examples", "More initiative examples"},
		},
		Recommendation:      "Strong candidate, recommend for next round of interviews",
		KeyStrengths:        []string{"Technical skills", "Communication", "Relevant experience"},
		AreasForImprovement: []string{"More specific examples", "Quantifiable achievements", "Leadership demonstration"},
		NextSteps:           "Schedule technical assessment and team fit interview",
	}
}
