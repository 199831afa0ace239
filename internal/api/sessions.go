package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/session"
)

var (
	_ session.Provider = (*Client)(nil)
	_ session.Sink     = (*Client)(nil)
)

// CreateSession starts a writing session on the server.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, struct{}{}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("server returned an empty session id")
	}
	return out.ID, nil
}

// SessionWords returns the ordered words of a session.
func (c *Client) SessionWords(ctx context.Context, sessionID string) ([]model.Word, error) {
	var words []model.Word
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "words"), nil, nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// SubmitLetters uploads the letter events typed for one word.
func (c *Client) SubmitLetters(ctx context.Context, batch model.LetterBatch) error {
	return c.do(ctx, http.MethodPost, sessionPath(batch.SessionID, "letters"), nil, batch, nil)
}

// CompleteSession asks the server to compute the final statistics.
func (c *Client) CompleteSession(ctx context.Context, sessionID string) (model.FinalStats, error) {
	var out model.FinalStats
	err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "complete"), nil, struct{}{}, &out)
	return out, err
}

// Progress returns the progress report of a user, limited to the last
// limit sessions when limit is positive.
func (c *Client) Progress(ctx context.Context, userID int64, limit int) (model.Progress, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	var out model.Progress
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/progress", userID), query, nil, &out)
	return out, err
}

func sessionPath(sessionID, action string) string {
	return "/sessions/" + url.PathEscape(sessionID) + "/" + action
}
