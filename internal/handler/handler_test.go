package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/internal/broadcast"
	"github.com/zeph-ai-dev/starpulse/internal/domain"
	"github.com/zeph-ai-dev/starpulse/internal/dto"
	"github.com/zeph-ai-dev/starpulse/internal/pipeline"
)

const (
	testCreatedAt int64 = 1723475612
)

// MockSubmitter is a mock implementation of pipeline.Submitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(candidate domain.Event) (string, error) {
	args := m.Called(candidate)
	return args.String(0), args.Error(1)
}

// MockQuerier is a mock implementation of query.Querier
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Feed(req dto.FeedRequest) dto.FeedResponse {
	args := m.Called(req)
	return args.Get(0).(dto.FeedResponse)
}

func (m *MockQuerier) Event(id string) (domain.Event, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Event), args.Bool(1)
}

func (m *MockQuerier) Agent(pubkey string) (dto.AgentResponse, bool) {
	args := m.Called(pubkey)
	return args.Get(0).(dto.AgentResponse), args.Bool(1)
}

func (m *MockQuerier) Totals() dto.StatsResponse {
	args := m.Called()
	return args.Get(0).(dto.StatsResponse)
}

func newTestHandler(submitter *MockSubmitter, queries *MockQuerier) *Handler {
	log := zap.NewNop()
	return NewHandler(submitter, queries, broadcast.New(4, log), log)
}

func TestHandler_HealthCheck(t *testing.T) {
	h := newTestHandler(new(MockSubmitter), new(MockQuerier))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_SubmitEvent_Success(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	h := newTestHandler(mockSubmitter, new(MockQuerier))

	submission := dto.SubmitEventRequest{
		PubKey:    "alice",
		CreatedAt: testCreatedAt,
		Kind:      1,
		Content:   "hello",
		Sig:       "sig",
	}
	mockSubmitter.On("Submit", submission.Event()).Return("event-id-123", nil)

	body, _ := json.Marshal(submission)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SubmitEventResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "event-id-123", response.ID)
	mockSubmitter.AssertExpectations(t)
}

func TestHandler_SubmitEvent_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		reason string
	}{
		{"missing fields", pipeline.ReasonMissingFields},
		{"id mismatch", pipeline.ReasonIDMismatch},
		{"invalid signature", pipeline.ReasonInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSubmitter := new(MockSubmitter)
			h := newTestHandler(mockSubmitter, new(MockQuerier))

			mockSubmitter.On("Submit", mock.Anything).
				Return("", &pipeline.RejectionError{Reason: tt.reason})

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte(`{"pubkey":"x"}`)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response dto.ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)
			assert.False(t, response.Success)
			assert.Equal(t, tt.reason, response.Error)
		})
	}
}

func TestHandler_SubmitEvent_InternalError(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	h := newTestHandler(mockSubmitter, new(MockQuerier))

	mockSubmitter.On("Submit", mock.Anything).Return("", errors.New("disk full"))

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte(`{"pubkey":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "internal_error", response.Error)
}

func TestHandler_SubmitEvent_MalformedBody(t *testing.T) {
	mockSubmitter := new(MockSubmitter)
	h := newTestHandler(mockSubmitter, new(MockQuerier))

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSubmitter.AssertNotCalled(t, "Submit")
}

func TestHandler_GetEvent(t *testing.T) {
	mockQuerier := new(MockQuerier)
	h := newTestHandler(new(MockSubmitter), mockQuerier)

	want := domain.Event{ID: "ev1", PubKey: "alice", Kind: domain.KindPost, Content: "hello"}
	mockQuerier.On("Event", "ev1").Return(want, true)

	req := httptest.NewRequest(http.MethodGet, "/events/ev1", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got domain.Event
	err := json.Unmarshal(w.Body.Bytes(), &got)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHandler_GetEvent_NotFound(t *testing.T) {
	mockQuerier := new(MockQuerier)
	h := newTestHandler(new(MockSubmitter), mockQuerier)

	mockQuerier.On("Event", "missing").Return(domain.Event{}, false)

	req := httptest.NewRequest(http.MethodGet, "/events/missing", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetFeed(t *testing.T) {
	mockQuerier := new(MockQuerier)
	h := newTestHandler(new(MockSubmitter), mockQuerier)

	kind := 1
	mockQuerier.On("Feed", dto.FeedRequest{
		Author: "alice",
		Since:  testCreatedAt,
		Kind:   &kind,
		Limit:  25,
		Enrich: true,
	}).Return(dto.FeedResponse{Events: []domain.Event{{ID: "ev1"}}})

	req := httptest.NewRequest(http.MethodGet,
		"/feed?author=alice&since=1723475612&kind=1&limit=25&enrich=true", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.FeedResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Events, 1)
	mockQuerier.AssertExpectations(t)
}

func TestHandler_GetAgent(t *testing.T) {
	mockQuerier := new(MockQuerier)
	h := newTestHandler(new(MockSubmitter), mockQuerier)

	mockQuerier.On("Agent", "alice").Return(dto.AgentResponse{
		PubKey:    "alice",
		Profile:   &domain.Profile{Name: "Bot", Bio: "hi"},
		PostCount: 3,
	}, true)

	req := httptest.NewRequest(http.MethodGet, "/agents/alice", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.AgentResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Bot", response.Profile.Name)
	assert.Equal(t, 3, response.PostCount)
}

func TestHandler_GetAgent_NotFound(t *testing.T) {
	mockQuerier := new(MockQuerier)
	h := newTestHandler(new(MockSubmitter), mockQuerier)

	mockQuerier.On("Agent", "ghost").Return(dto.AgentResponse{}, false)

	req := httptest.NewRequest(http.MethodGet, "/agents/ghost", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetStats(t *testing.T) {
	mockQuerier := new(MockQuerier)
	h := newTestHandler(new(MockSubmitter), mockQuerier)

	mockQuerier.On("Totals").Return(dto.StatsResponse{Events: 10, Agents: 2, LiveSubscribers: 0})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 10, response.Events)
	assert.Equal(t, 2, response.Agents)
}
