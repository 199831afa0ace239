package store

import (
	"context"
	"database/sql"

	"github.com/verte-zerg/tecla/internal/model"
)

const sumCharColumns = `char, SUM(correct), SUM(incorrect), SUM(latency_sum_ms), SUM(latency_count)`

func scanCharAggregate(rows *sql.Rows) (model.CharAggregate, error) {
	var agg model.CharAggregate
	err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount)
	return agg, err
}

// GetWeakChars sums per-character stats over the window most recent
// sessions.
func (s *Store) GetWeakChars(ctx context.Context, window int) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `SELECT ` + sumCharColumns + ` FROM session_char_stats
		WHERE session_id IN (SELECT id FROM sessions ORDER BY ended_at DESC, id DESC LIMIT ?)
		GROUP BY char`
	return queryAll(ctx, s.db, query, []any{window}, scanCharAggregate)
}

// ListCharAggregatesForSessions sums per-character stats across sessionIDs.
func (s *Store) ListCharAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.CharAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	marks, args := inList(sessionIDs)
	query := `SELECT ` + sumCharColumns + ` FROM session_char_stats
		WHERE session_id IN (` + marks + `)
		GROUP BY char`
	return queryAll(ctx, s.db, query, args, scanCharAggregate)
}

type sessionChar struct {
	session int64
	agg     model.CharAggregate
}

// ListCharStatsForSessions returns the stats of chars in each session,
// keyed by session id. Sessions without any of chars are absent.
func (s *Store) ListCharStatsForSessions(ctx context.Context, sessionIDs []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	result := map[int64]map[string]model.CharAggregate{}
	if len(sessionIDs) == 0 || len(chars) == 0 {
		return result, nil
	}
	idMarks, idArgs := inList(sessionIDs)
	charMarks, charArgs := inList(chars)
	query := `SELECT session_id, char, correct, incorrect, latency_sum_ms, latency_count
		FROM session_char_stats
		WHERE session_id IN (` + idMarks + `) AND char IN (` + charMarks + `)`
	rows, err := queryAll(ctx, s.db, query, append(idArgs, charArgs...), func(rows *sql.Rows) (sessionChar, error) {
		var sc sessionChar
		err := rows.Scan(&sc.session, &sc.agg.Char, &sc.agg.Correct, &sc.agg.Incorrect, &sc.agg.LatencySumMs, &sc.agg.LatencyCount)
		return sc, err
	})
	if err != nil {
		return nil, err
	}
	for _, sc := range rows {
		if result[sc.session] == nil {
			result[sc.session] = map[string]model.CharAggregate{}
		}
		result[sc.session][sc.agg.Char] = sc.agg
	}
	return result, nil
}
