package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/session"
)

const retryBackoff = 250 * time.Millisecond

// Deliver submits batch to sink, trying at most 1+retries times. The batch
// is never queued for later; the last error is returned for logging only.
func Deliver(ctx context.Context, sink session.Sink, batch model.LetterBatch, retries int) error {
	if retries < 0 {
		retries = 0
	}
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
		err = sink.SubmitLetters(ctx, batch)
		if err == nil {
			return nil
		}
		slog.Warn("letter batch submission failed",
			"session_id", batch.SessionID,
			"word_id", batch.WordID,
			"attempt", attempt+1,
			"error", err)
		if !retryable(err) {
			break
		}
	}
	return err
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
