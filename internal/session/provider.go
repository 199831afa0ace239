package session

import (
	"context"
	"fmt"

	"github.com/verte-zerg/tecla/internal/model"
)

// Provider supplies the ordered target words of a session.
type Provider interface {
	SessionWords(ctx context.Context, sessionID string) ([]model.Word, error)
}

// Sink accepts letter telemetry and computes final statistics.
type Sink interface {
	SubmitLetters(ctx context.Context, batch model.LetterBatch) error
	CompleteSession(ctx context.Context, sessionID string) (model.FinalStats, error)
}

// Start moves c from Idle through Loading using p. On retrieval failure
// the controller ends up Failed and the error is returned.
func Start(ctx context.Context, c *Controller, p Provider, sessionID string) error {
	if err := c.Begin(sessionID); err != nil {
		return err
	}
	words, err := p.SessionWords(ctx, sessionID)
	if err != nil {
		err = fmt.Errorf("failed to load session words: %w", err)
		c.Fail(err)
		return err
	}
	return c.Load(words)
}
