package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tecla/internal/model"
	"github.com/verte-zerg/tecla/internal/store"
)

func seedStore(t *testing.T, sessions int) (*store.Store, []int64) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tecla.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < sessions; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		rec := model.SessionRecord{
			RemoteID:       "s",
			StartedAt:      start,
			EndedAt:        end,
			TotalWords:     10,
			WrittenWords:   10,
			CorrectWords:   9,
			IncorrectWords: 1,
			CorrectChars:   10,
			IncorrectChars: 1,
			Accuracy:       91,
			WPM:            18,
			Completed:      true,
			DurationMs:     end.Sub(start).Milliseconds(),
		}
		charStats := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertSession(ctx, rec, charStats)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}
	return st, ids
}

func TestBuildReport(t *testing.T) {
	st, ids := seedStore(t, 3)

	cfg := model.StatsConfig{
		Last:        2,
		CurveWindow: 2,
	}
	report, err := BuildReport(context.Background(), st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if len(report.WindowSessionIDs) != 2 {
		t.Fatalf("expected 2 window session ids, got %d", len(report.WindowSessionIDs))
	}
	if len(report.CharAggsAll) == 0 {
		t.Fatalf("expected char aggregates for all sessions")
	}
	if len(report.CharAggsWindow) == 0 {
		t.Fatalf("expected char aggregates for window sessions")
	}
}

func TestRenderReport(t *testing.T) {
	st, _ := seedStore(t, 2)
	report, err := BuildReport(context.Background(), st, model.StatsConfig{CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 2, 80, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary", "Sessions: 2 (2 completed)", "Per-Character", "Learning Curves", "completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, Report{}, 2, 80, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
