package timeline

import (
	"testing"
	"time"

	"github.com/javiermolinar/slate/internal/task"
)

func clockTask(title string, startMin, endMin int) *task.Task {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := task.At(day, startMin)
	e := task.At(day, endMin)
	return &task.Task{Title: title, Start: &s, End: &e}
}

func overnightTask() *task.Task {
	s := time.Date(2025, 9, 1, 22, 0, 0, 0, time.UTC)
	e := time.Date(2025, 9, 2, 1, 0, 0, 0, time.UTC)
	return &task.Task{Title: "overnight", Start: &s, End: &e}
}

func TestNewBucket(t *testing.T) {
	tests := []struct {
		name       string
		task       *task.Task
		wantOffset int
		wantHeight int
	}{
		{"morning meeting", clockTask("m", 9*60, 10*60+30), 540, 90},
		{"point task", clockTask("p", 600, 600), 600, 0},
		{"no times", &task.Task{Title: "backlog"}, 0, 0},
		{"start only", &task.Task{Title: "s", Start: clockTask("x", 300, 300).Start}, 0, 0},
		{"ends after midnight", overnightTask(), 22 * 60, 119},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBucket(tt.task)
			if b.Offset != tt.wantOffset || b.Height != tt.wantHeight {
				t.Errorf("got offset %d height %d, want %d %d", b.Offset, b.Height, tt.wantOffset, tt.wantHeight)
			}
			if b.Task != tt.task {
				t.Error("bucket must reference its task")
			}
		})
	}
}

func TestBucketize(t *testing.T) {
	t.Run("identical start minutes share a group", func(t *testing.T) {
		a := clockTask("a", 540, 600)
		b := clockTask("b", 540, 660)
		groups := Bucketize([]*task.Task{a, b})
		if len(groups) != 1 || len(groups[540]) != 2 {
			t.Fatalf("got %v", groups)
		}
		if groups[540][0].Task != a || groups[540][1].Task != b {
			t.Error("group must keep input order")
		}
	})

	t.Run("one minute apart are separate even when overlapping", func(t *testing.T) {
		groups := Bucketize([]*task.Task{clockTask("a", 540, 660), clockTask("b", 541, 600)})
		if len(groups) != 2 || len(groups[540]) != 1 || len(groups[541]) != 1 {
			t.Fatalf("got %v", groups)
		}
	})

	t.Run("degenerate tasks collect at zero", func(t *testing.T) {
		groups := Bucketize([]*task.Task{{Title: "x"}, {Title: "y"}, nil})
		if len(groups[0]) != 2 {
			t.Fatalf("got %v", groups)
		}
	})
}

func TestRows(t *testing.T) {
	groups := Bucketize([]*task.Task{
		clockTask("late", 1200, 1260),
		clockTask("early", 60, 120),
		clockTask("early-long", 60, 240),
	})
	rows := Rows(groups)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Offset != 60 || rows[1].Offset != 1200 {
		t.Errorf("rows out of order: %d, %d", rows[0].Offset, rows[1].Offset)
	}
	if rows[0].Height() != 180 {
		t.Errorf("row height %d, want 180", rows[0].Height())
	}
	if rows[0].Buckets[0].End() != 120 {
		t.Errorf("bucket end %d, want 120", rows[0].Buckets[0].End())
	}
}
