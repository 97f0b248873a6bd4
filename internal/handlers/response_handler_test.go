package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/interview"
	"github.com/CodeXGautam/Vocintera/internal/llm"
	"github.com/CodeXGautam/Vocintera/internal/middleware"
	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/utils"
)

const respTestSecret = "response-test-secret"

func newResponseHandler(store *memStore, provider llm.Provider) *ResponseHandler {
	logger := zap.NewNop()
	gateway := llm.NewGateway(logger, provider)
	orch := interview.NewOrchestrator(store, gateway, stubPromptManager{}, logger)
	return NewResponseHandler(orch, logger)
}

func authedJSONRequest(t *testing.T, method, target, body string, owner primitive.ObjectID) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	token, err := utils.SignAccessToken(owner.Hex(), "alice", respTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(validate func(http.Handler) http.Handler, handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	wrapped := middleware.Authenticate(respTestSecret)(validate(handlerFunc))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func TestStartInterviewHandler(t *testing.T) {
	owner := primitive.NewObjectID()
	session := &models.Interview{ID: primitive.NewObjectID(), Candidate: owner, Role: "Backend Engineer"}
	store := newMemStore(session)
	handler := newResponseHandler(store, &fixedProvider{response: "tell me about yourself"})

	req := authedJSONRequest(t, http.MethodPost, "/gemini/start-interview",
		`{"interviewId":"`+session.ID.Hex()+`"}`, owner)
	rec := serve(middleware.ValidateRequest[*models.StartInterviewRequest](), handler.StartInterviewHandler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.StartInterviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.InitialQuestion, "?") {
		t.Errorf("expected a question, got %q", resp.InitialQuestion)
	}
	if resp.UsingFallback {
		t.Error("primary success must not be flagged as fallback")
	}
}

func TestStartInterviewHandlerUnknownID(t *testing.T) {
	owner := primitive.NewObjectID()
	handler := newResponseHandler(newMemStore(), &fixedProvider{response: "hi"})

	t.Run("malformed hex", func(t *testing.T) {
		req := authedJSONRequest(t, http.MethodPost, "/gemini/start-interview", `{"interviewId":"zzz"}`, owner)
		rec := serve(middleware.ValidateRequest[*models.StartInterviewRequest](), handler.StartInterviewHandler, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		req := authedJSONRequest(t, http.MethodPost, "/gemini/start-interview",
			`{"interviewId":"`+primitive.NewObjectID().Hex()+`"}`, owner)
		rec := serve(middleware.ValidateRequest[*models.StartInterviewRequest](), handler.StartInterviewHandler, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestStartInterviewHandlerRequiresAuth(t *testing.T) {
	handler := newResponseHandler(newMemStore(), &fixedProvider{response: "hi"})

	req := httptest.NewRequest(http.MethodPost, "/gemini/start-interview", strings.NewReader(`{"interviewId":"abc"}`))
	rec := serve(middleware.ValidateRequest[*models.StartInterviewRequest](), handler.StartInterviewHandler, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
}

func TestGetResponseHandler(t *testing.T) {
	owner := primitive.NewObjectID()
	session := &models.Interview{
		ID:        primitive.NewObjectID(),
		Candidate: owner,
		Role:      "Backend Engineer",
		Conversation: []models.Turn{
			{Role: models.RoleInterviewer, Text: "Tell me about yourself?"},
		},
	}
	store := newMemStore(session)
	handler := newResponseHandler(store, &fixedProvider{response: "what was your role in that project?"})

	req := authedJSONRequest(t, http.MethodPost, "/gemini/get-response",
		`{"interviewId":"`+session.ID.Hex()+`","question":"I built a payments service."}`, owner)
	rec := serve(middleware.ValidateRequest[*models.TurnRequest](), handler.GetResponseHandler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.TurnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.AIResponse, "?") {
		t.Errorf("expected a question, got %q", resp.AIResponse)
	}

	turns := store.sessions[session.ID].Conversation
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns recorded, got %d", len(turns))
	}
	if turns[1].Role != models.RoleCandidate {
		t.Errorf("candidate turn must precede the new interviewer turn, got %q", turns[1].Role)
	}
}

func TestGetResponseHandlerBlankQuestion(t *testing.T) {
	owner := primitive.NewObjectID()
	session := &models.Interview{ID: primitive.NewObjectID(), Candidate: owner, Role: "Backend Engineer"}
	handler := newResponseHandler(newMemStore(session), &fixedProvider{response: "next?"})

	blank := authedJSONRequest(t, http.MethodPost, "/gemini/get-response",
		`{"interviewId":"`+session.ID.Hex()+`","question":" "}`, owner)
	rec := serve(middleware.ValidateRequest[*models.TurnRequest](), handler.GetResponseHandler, blank)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank question, got %d", rec.Code)
	}
}

func TestGetResponseHandlerFallbackFlag(t *testing.T) {
	owner := primitive.NewObjectID()
	session := &models.Interview{ID: primitive.NewObjectID(), Candidate: owner, Role: "Backend Engineer"}
	store := newMemStore(session)
	handler := newResponseHandler(store, &fixedProvider{err: &llm.ProviderError{Provider: "fixed", Kind: llm.KindServerError, Message: "down"}})

	req := authedJSONRequest(t, http.MethodPost, "/gemini/get-response",
		`{"interviewId":"`+session.ID.Hex()+`","question":"My answer."}`, owner)
	rec := serve(middleware.ValidateRequest[*models.TurnRequest](), handler.GetResponseHandler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("the static tier must still answer, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.TurnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsUsingFallback {
		t.Error("static fallback must be flagged in the response")
	}
}

func TestEndInterviewHandler(t *testing.T) {
	owner := primitive.NewObjectID()
	session := &models.Interview{ID: primitive.NewObjectID(), Candidate: owner, Role: "Backend Engineer"}
	store := newMemStore(session)
	handler := newResponseHandler(store, &fixedProvider{response: "next?"})

	req := authedJSONRequest(t, http.MethodPost, "/gemini/end-interview",
		`{"interviewId":"`+session.ID.Hex()+`","status":true,"isManual":true}`, owner)
	rec := serve(middleware.ValidateRequest[*models.EndInterviewRequest](), handler.EndInterviewHandler, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.EndInterviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.InterviewID != session.ID.Hex() || !resp.Status {
		t.Errorf("unexpected response %+v", resp)
	}
	if !store.sessions[session.ID].ManualEnd {
		t.Error("manual end flag must be persisted")
	}
}

func TestEndInterviewHandlerForeignSession(t *testing.T) {
	owner := primitive.NewObjectID()
	session := &models.Interview{ID: primitive.NewObjectID(), Candidate: owner}
	handler := newResponseHandler(newMemStore(session), &fixedProvider{response: "next?"})

	req := authedJSONRequest(t, http.MethodPost, "/gemini/end-interview",
		`{"interviewId":"`+session.ID.Hex()+`","status":true}`, primitive.NewObjectID())
	rec := serve(middleware.ValidateRequest[*models.EndInterviewRequest](), handler.EndInterviewHandler, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a foreign session, got %d", rec.Code)
	}
}
