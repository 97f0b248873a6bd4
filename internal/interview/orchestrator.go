package interview

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/llm"
	"github.com/CodeXGautam/Vocintera/internal/metrics"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/prompts"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
)

// a session is in the opening stage until the AI intro and the first
// candidate reply have both been recorded
const openingStageThreshold = 2

// ErrEmptyAnswer is returned when a candidate submits a blank answer.
var ErrEmptyAnswer = errors.New("answer must not be empty")

// fallbackQuestions is the static tier for turn generation, used when
// every configured provider has failed.
var fallbackQuestions = []string{
	"Can you tell me about a project you worked on recently?",
	"What do you like most about your current job?",
	"What skills do you think are most important for this role?",
	"How do you handle difficult situations at work?",
	"Can you describe a challenge you faced and how you solved it?",
	"What made you interested in this position?",
	"How do you keep your skills up to date?",
	"Can you tell me about a time you worked closely with a team?",
	"What are you most proud of in your career so far?",
	"Where do you see yourself in the next few years?",
}

// SessionStore is the persistence surface the orchestrator needs.
type SessionStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error)
	AppendTurns(ctx context.Context, id primitive.ObjectID, turns ...models.Turn) error
	SetCompleted(ctx context.Context, id primitive.ObjectID, completedAt time.Time, manual bool) error
}

// Orchestrator drives the turn-by-turn conversation of a session: it picks
// the prompt for the current stage, calls the provider gateway, cleans the
// reply and appends turns in conversation order.
type Orchestrator struct {
	store   SessionStore
	gateway *llm.Gateway
	prompts prompts.PromptProvider
	logger  *zap.Logger
}

func NewOrchestrator(store SessionStore, gateway *llm.Gateway, promptManager prompts.PromptProvider, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		gateway: gateway,
		prompts: promptManager,
		logger:  logger,
	}
}

// TurnResult is the outcome of a start or answer call.
type TurnResult struct {
	Question      string
	UsingFallback bool
}

// Start produces the first interviewer turn for a session.
func (o *Orchestrator) Start(ctx context.Context, id, owner primitive.ObjectID) (*TurnResult, error) {
	session, err := o.getOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	prompt, err := o.prompts.BuildPrompt("interview", "intro", map[string]string{
		"Role":   session.Role,
		"Resume": session.Resume,
	})
	if err != nil {
		return nil, err
	}

	question, usingFallback := o.generateQuestion(ctx, prompt, session.Role)

	turn := models.Turn{
		Role:      models.RoleInterviewer,
		Text:      question,
		Timestamp: time.Now().UTC(),
	}
	if err := o.store.AppendTurns(ctx, id, turn); err != nil {
		return nil, err
	}

	return &TurnResult{Question: question, UsingFallback: usingFallback}, nil
}

// SubmitAnswer records the candidate's answer and produces the next
// interviewer question. The candidate turn and the interviewer turn are
// appended in that order.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, id, owner primitive.ObjectID, answer string) (*TurnResult, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}

	session, err := o.getOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	section := "followup"
	if len(session.Conversation) <= openingStageThreshold {
		section = "opening"
	}

	prompt, err := o.prompts.BuildPrompt("interview", section, map[string]string{
		"Role":    session.Role,
		"Resume":  session.Resume,
		"Context": conversationContext(session.Conversation),
		"Answer":  answer,
	})
	if err != nil {
		return nil, err
	}

	question, usingFallback := o.generateQuestion(ctx, prompt, session.Role)

	now := time.Now().UTC()
	err = o.store.AppendTurns(ctx, id,
		models.Turn{Role: models.RoleCandidate, Text: answer, Timestamp: now},
		models.Turn{Role: models.RoleInterviewer, Text: question, Timestamp: now},
	)
	if err != nil {
		return nil, err
	}

	return &TurnResult{Question: question, UsingFallback: usingFallback}, nil
}

// End marks a session as completed. Ending an already ended session is
// not an error; the timestamps and flags are simply overwritten.
func (o *Orchestrator) End(ctx context.Context, id, owner primitive.ObjectID, manual bool) (*models.Interview, error) {
	if _, err := o.getOwned(ctx, id, owner); err != nil {
		return nil, err
	}

	if err := o.store.SetCompleted(ctx, id, time.Now().UTC(), manual); err != nil {
		return nil, err
	}

	return o.store.GetByID(ctx, id)
}

// getOwned loads a session and hides it from non-owners.
func (o *Orchestrator) getOwned(ctx context.Context, id, owner primitive.ObjectID) (*models.Interview, error) {
	session, err := o.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Candidate != owner {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

// generateQuestion runs the gateway and falls back to a canned question
// when every provider tier fails. The static tier cannot fail, so a turn
// is always produced.
func (o *Orchestrator) generateQuestion(ctx context.Context, prompt, role string) (string, bool) {
	result, err := o.gateway.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Mode:        llm.ModeQuestion,
		MaxTokens:   256,
		Temperature: 0.7,
	})
	if err != nil {
		o.logger.Warn("all providers failed, using static question", zap.Error(err))
		metrics.StaticFallbackUsed.WithLabelValues("turn").Inc()
		return fallbackQuestions[rand.Intn(len(fallbackQuestions))], true
	}

	question := EnsureQuestion(FormatResponse(result.Text), role)
	return question, result.UsingFallback
}

// conversationContext renders the turns so far for prompt embedding.
func conversationContext(turns []models.Turn) string {
	if len(turns) == 0 {
		return "This is the beginning of the interview."
	}
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.Role+": "+turn.Text)
	}
	return "Here's the interview context so far: " + strings.Join(lines, "\n")
}
