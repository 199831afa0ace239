package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/store"
)

// Report is the filtered local history with its character aggregates.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CharAggsAll      []model.CharAggregate
	CharAggsWindow   []model.CharAggregate
	Records          []model.SessionRecord
}

// BuildReport loads the sessions matching cfg. CharAggsWindow covers only
// the last cfg.CurveWindow of them.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	sessions = lastN(sessions, cfg.Last)

	allIDs := sessionIDs(sessions)
	windowIDs := sessionIDs(lastN(sessions, cfg.CurveWindow))
	charAggsAll, err := st.ListCharAggregatesForSessions(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	charAggsWindow, err := st.ListCharAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	records, err := st.ListRecords(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	records = lastN(records, cfg.Last)

	return Report{
		Records:          records,
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		CharAggsAll:      charAggsAll,
		CharAggsWindow:   charAggsWindow,
	}, nil
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

// lastN keeps the trailing n items; n <= 0 keeps everything.
func lastN[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

// RenderReport prints the plain-text history report.
func RenderReport(w io.Writer, r Report, window, totalWidth, height int, useColor bool) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if err := RenderHistory(w, r.Records); err != nil {
		return err
	}
	if err := RenderCharTable(w, r.CharAggsWindow); err != nil {
		return err
	}
	return RenderCurvesWithSize(w, r.Sessions, window, totalWidth, height, useColor)
}
