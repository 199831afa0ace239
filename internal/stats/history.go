package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/tecla/internal/model"
)

const historyTimeLayout = "2006-01-02 15:04"

// RenderHistory prints one line per recorded session.
func RenderHistory(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	t := &table{header: []string{"Ended", "Mode", "Words", "Correct", "WPM", "Accuracy", "Status"}, align: "llrrrrl"}
	for _, rec := range records {
		mode := "online"
		if rec.Offline {
			mode = "offline"
		}
		status := "ended early"
		if rec.Completed {
			status = "completed"
		}
		t.add(
			rec.EndedAt.Local().Format(historyTimeLayout),
			mode,
			fmt.Sprintf("%d/%d", rec.WrittenWords, rec.TotalWords),
			fmt.Sprintf("%d", rec.CorrectWords),
			fmt.Sprintf("%d", rec.WPM),
			fmt.Sprintf("%d%%", rec.Accuracy),
			status,
		)
	}
	return t.write(w)
}
