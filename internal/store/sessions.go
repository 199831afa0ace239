package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/verte-zerg/tecla/internal/model"
)

const recordColumns = `remote_id, started_at, ended_at, total_words, written_words, correct_words, incorrect_words,
	correct_chars, incorrect_chars, accuracy, wpm, completed, offline, duration_ms`

// InsertSession stores a finished session and its per-character stats in
// one transaction and returns the local session id.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, chars []model.CharStats) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RemoteID, encodeTime(rec.StartedAt), encodeTime(rec.EndedAt),
			rec.TotalWords, rec.WrittenWords, rec.CorrectWords, rec.IncorrectWords,
			rec.CorrectChars, rec.IncorrectChars, rec.Accuracy, rec.WPM,
			boolInt(rec.Completed), boolInt(rec.Offline), rec.DurationMs,
		)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		if len(chars) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_char_stats (session_id, char, correct, incorrect, latency_sum_ms, latency_count)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()
		for _, cs := range chars {
			if _, err := stmt.ExecContext(ctx, id, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// historyFilter turns the date and source filters into a WHERE clause.
// Last is applied by callers after ordering.
func historyFilter(cfg model.StatsConfig) (string, []any) {
	var clauses []string
	var args []any
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, encodeTime(*cfg.Since))
	}
	if cfg.Offline != nil {
		clauses = append(clauses, "offline = ?")
		args = append(args, boolInt(*cfg.Offline))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListSessions returns the aggregates of matching sessions, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	where, args := historyFilter(cfg)
	query := `SELECT id, remote_id, ended_at, correct_words, correct_chars, incorrect_chars, duration_ms, completed
		FROM sessions` + where + ` ORDER BY ended_at ASC, id ASC`
	return queryAll(ctx, s.db, query, args, func(rows *sql.Rows) (model.SessionAggregate, error) {
		var agg model.SessionAggregate
		var endedAt string
		var completed int
		if err := rows.Scan(&agg.SessionID, &agg.RemoteID, &endedAt, &agg.CorrectWords, &agg.Correct, &agg.Incorrect, &agg.DurationMs, &completed); err != nil {
			return agg, err
		}
		agg.Completed = completed != 0
		var err error
		agg.EndedAt, err = decodeTime(endedAt)
		return agg, err
	})
}

// ListRecords returns the full records of matching sessions, oldest first.
func (s *Store) ListRecords(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	where, args := historyFilter(cfg)
	query := `SELECT ` + recordColumns + ` FROM sessions` + where + ` ORDER BY ended_at ASC, id ASC`
	return queryAll(ctx, s.db, query, args, func(rows *sql.Rows) (model.SessionRecord, error) {
		var rec model.SessionRecord
		var startedAt, endedAt string
		var completed, offline int
		err := rows.Scan(&rec.RemoteID, &startedAt, &endedAt,
			&rec.TotalWords, &rec.WrittenWords, &rec.CorrectWords, &rec.IncorrectWords,
			&rec.CorrectChars, &rec.IncorrectChars, &rec.Accuracy, &rec.WPM,
			&completed, &offline, &rec.DurationMs)
		if err != nil {
			return rec, err
		}
		rec.Completed, rec.Offline = completed != 0, offline != 0
		if rec.StartedAt, err = decodeTime(startedAt); err != nil {
			return rec, err
		}
		rec.EndedAt, err = decodeTime(endedAt)
		return rec, err
	})
}
