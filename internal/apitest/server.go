// Package apitest provides an in-memory typing API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/offline"
)

// Token is the access token issued by the fake login.
const Token = "test-token"

// Backend is a fake API backed by memory.
type Backend struct {
	URL string

	mu       sync.Mutex
	words    []string
	sessions map[string][]model.Word
	batches  []model.LetterBatch
	users    map[string]model.User

	failLetters bool
	failWords   bool
	expireToken bool
}

// New starts a backend serving words for every new session.
func New(t *testing.T, words ...string) *Backend {
	t.Helper()
	b := &Backend{
		words:    words,
		sessions: map[string][]model.Word{},
		users: map[string]model.User{
			"ana@example.com": {ID: 1, Username: "ana", Email: "ana@example.com"},
		},
	}
	srv := httptest.NewServer(b.routes())
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", b.handleLogin)
		r.Post("/register", b.handleRegister)
		r.Post("/forgot-password", b.handleForgotPassword)
		r.Post("/reset-password", b.handleMessage("password changed"))
		r.Group(func(r chi.Router) {
			r.Use(b.requireToken)
			r.Post("/sessions", b.handleCreateSession)
			r.Get("/sessions/{id}/words", b.handleWords)
			r.Post("/sessions/{id}/letters", b.handleLetters)
			r.Post("/sessions/{id}/complete", b.handleComplete)
			r.Get("/users/{id}/progress", b.handleProgress)
		})
	})
	return r
}

// SetFailLetters makes letter submissions fail with 500.
func (b *Backend) SetFailLetters(fail bool) {
	b.mu.Lock()
	b.failLetters = fail
	b.mu.Unlock()
}

// SetFailWords makes word retrieval fail with 500.
func (b *Backend) SetFailWords(fail bool) {
	b.mu.Lock()
	b.failWords = fail
	b.mu.Unlock()
}

// SetExpireToken makes authenticated endpoints answer 401.
func (b *Backend) SetExpireToken(expire bool) {
	b.mu.Lock()
	b.expireToken = expire
	b.mu.Unlock()
}

// Batches returns the letter batches received so far.
func (b *Backend) Batches() []model.LetterBatch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.LetterBatch(nil), b.batches...)
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		expired := b.expireToken
		b.mu.Unlock()
		if expired || r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	b.mu.Lock()
	user, ok := b.users[in.Email]
	b.mu.Unlock()
	if !ok || in.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": Token, "user": user, "message": "welcome"})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[in.Email]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "email already registered"})
		return
	}
	b.users[in.Email] = model.User{ID: int64(len(b.users) + 1), Username: in.Name, Email: in.Email}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "account created"})
}

func (b *Backend) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	_, ok := b.users[in.Email]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unknown email"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "code sent"})
}

func (b *Backend) handleMessage(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func (b *Backend) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := uuid.NewString()
	words := make([]model.Word, len(b.words))
	for i, text := range b.words {
		words[i] = model.Word{ID: uuid.NewString(), Text: text}
	}
	b.mu.Lock()
	b.sessions[id] = words
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (b *Backend) handleWords(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	words, ok := b.sessions[chi.URLParam(r, "id")]
	fail := b.failWords
	b.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "words unavailable"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, words)
}

func (b *Backend) handleLetters(w http.ResponseWriter, r *http.Request) {
	var batch model.LetterBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failLetters {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "storage down"})
		return
	}
	if batch.SessionID != chi.URLParam(r, "id") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "session mismatch"})
		return
	}
	b.batches = append(b.batches, batch)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	words, ok := b.sessions[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "session not found"})
		return
	}
	letters := make(map[string][]model.LetterEvent, len(words))
	for _, word := range words {
		letters[word.ID] = b.lettersFor(id, word.ID)
	}
	stats := offline.Score(words, letters)
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) lettersFor(sessionID, wordID string) []model.LetterEvent {
	var out []model.LetterEvent
	for _, batch := range b.batches {
		if batch.SessionID == sessionID && batch.WordID == wordID {
			out = append(out, batch.Letters...)
		}
	}
	return out
}

func (b *Backend) handleProgress(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions := []model.ProgressSession{
		{Date: "2026-10-01", Accuracy: 91, Details: model.ProgressDetail{Errors: 9, Letters: 100}},
		{Date: "2026-10-02", Accuracy: 96, Details: model.ProgressDetail{Errors: 4, Letters: 100}},
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[len(sessions)-limit:]
	}
	writeJSON(w, http.StatusOK, model.Progress{
		Stats: model.ProgressStats{
			AvgAccuracy:   93.5,
			TotalErrors:   13,
			BestAccuracy:  96,
			TotalSessions: 2,
		},
		Sessions: sessions,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
