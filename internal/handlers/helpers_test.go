package handlers

import (
	"context"
	"io"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CodeXGautam/Vocintera/internal/llm"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
)

// memStore is an in-memory stand-in for the Mongo interview repository.
// It satisfies every store interface the domain services consume.
type memStore struct {
	sessions map[primitive.ObjectID]*models.Interview
}

func newMemStore(sessions ...*models.Interview) *memStore {
	store := &memStore{sessions: make(map[primitive.ObjectID]*models.Interview)}
	for _, s := range sessions {
		store.sessions[s.ID] = s
	}
	return store
}

func (m *memStore) Create(_ context.Context, session *models.Interview) (*models.Interview, error) {
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Interview, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

func (m *memStore) AppendTurns(_ context.Context, id primitive.ObjectID, turns ...models.Turn) error {
	session, ok := m.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	session.Conversation = append(session.Conversation, turns...)
	return nil
}

func (m *memStore) SetCompleted(_ context.Context, id primitive.ObjectID, completedAt time.Time, manual bool) error {
	session, ok := m.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	session.Status = true
	session.CompletedAt = &completedAt
	session.ManualEnd = manual
	return nil
}

func (m *memStore) SetEvaluation(_ context.Context, id primitive.ObjectID, eval *models.Evaluation, at time.Time) error {
	session, ok := m.sessions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	session.Evaluation = eval
	session.EvaluatedAt = &at
	return nil
}

func (m *memStore) ListByOwner(_ context.Context, owner primitive.ObjectID, limit int64) ([]models.Interview, error) {
	var out []models.Interview
	for _, session := range m.sessions {
		if session.Candidate == owner {
			out = append(out, *session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ListEvaluatedByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Interview, error) {
	var out []models.Interview
	for _, session := range m.sessions {
		if session.Candidate == owner && session.Evaluation != nil {
			out = append(out, *session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EvaluatedAt == nil || out[j].EvaluatedAt == nil {
			return false
		}
		return out[i].EvaluatedAt.After(*out[j].EvaluatedAt)
	})
	return out, nil
}

func (m *memStore) GetEvaluatedForOwner(_ context.Context, id, owner primitive.ObjectID) (*models.Interview, error) {
	session, ok := m.sessions[id]
	if !ok || session.Candidate != owner || session.Evaluation == nil {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

func (m *memStore) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := m.sessions[id]; ok {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *memStore) Owners(_ context.Context) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]bool)
	var out []primitive.ObjectID
	for _, session := range m.sessions {
		if !seen[session.Candidate] {
			seen[session.Candidate] = true
			out = append(out, session.Candidate)
		}
	}
	return out, nil
}

type fixedProvider struct {
	response string
	err      error
}

func (p *fixedProvider) Complete(context.Context, llm.CompletionRequest) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func (p *fixedProvider) Name() string { return "fixed" }

type stubPromptManager struct{}

func (stubPromptManager) BuildPrompt(_, section string, _ map[string]string) (string, error) {
	return "prompt for " + section, nil
}

func (stubPromptManager) Templates() []string { return []string{"interview", "evaluation"} }

type fakeUploader struct {
	url      string
	err      error
	filename string
	content  []byte
}

func (f *fakeUploader) Upload(_ context.Context, filename string, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.filename = filename
	f.content, _ = io.ReadAll(file)
	return f.url, nil
}
