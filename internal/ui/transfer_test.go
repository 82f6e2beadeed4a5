package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:review-1\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART:20250603T140000Z\r\n" +
	"DTEND:20250603T150000Z\r\n" +
	"SUMMARY:Review\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART:20250602T090000Z\r\n" +
	"DTEND:20250602T091500Z\r\n" +
	"RRULE:FREQ=DAILY;COUNT=3\r\n" +
	"SUMMARY:Standup\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func writeICS(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "in.ics")
	if err := os.WriteFile(path, []byte(sampleICS), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImport(t *testing.T) {
	env := newTestEnv(t)
	path := writeICS(t, env.dir)

	out := env.mustRun(t, "import", path, "--dry-run")
	if !strings.Contains(out, "Would import 4 tasks (0 already present)") {
		t.Errorf("dry run:\n%s", out)
	}
	if n := len(env.tasks(t)); n != 0 {
		t.Fatalf("dry run stored %d tasks", n)
	}

	out = env.mustRun(t, "import", path)
	if !strings.Contains(out, "Imported 4 tasks (0 already present)") {
		t.Errorf("import:\n%s", out)
	}
	if n := len(env.tasks(t)); n != 4 {
		t.Fatalf("stored %d tasks, want 4", n)
	}

	out = env.mustRun(t, "import", path)
	if !strings.Contains(out, "Imported 0 tasks (4 already present)") {
		t.Errorf("second import:\n%s", out)
	}
	if n := len(env.tasks(t)); n != 4 {
		t.Errorf("second import left %d tasks, want 4", n)
	}
}

func TestImportWindow(t *testing.T) {
	env := newTestEnv(t)
	path := writeICS(t, env.dir)

	out := env.mustRun(t, "import", path, "--start=2025-06-03", "--end=2025-06-03")
	if !strings.Contains(out, "Imported 2 tasks") {
		t.Errorf("windowed import:\n%s", out)
	}

	if _, err := env.run(t, "import", path, "--end=2025-06-03"); err == nil {
		t.Error("--end without --start should fail")
	}
	if _, err := env.run(t, "import", filepath.Join(env.dir, "missing.ics")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Dentist", "--date=today", "--start=10:00", "--end=11:00")
	env.mustRun(t, "add", "Holiday", "--date=2025-08-15")
	env.mustRun(t, "add", "Someday")
	env.mustRun(t, "sleep", "set", "--weekday=07:00-23:00")

	path := filepath.Join(env.dir, "out.ics")
	out := env.mustRun(t, "export", path)
	if !strings.Contains(out, "Exported 2 events") {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Dentist", "SUMMARY:Holiday"} {
		if !strings.Contains(body, want) {
			t.Errorf("export missing %q", want)
		}
	}
	for _, unwanted := range []string{"SUMMARY:Someday", "SUMMARY:sleep"} {
		if strings.Contains(body, unwanted) {
			t.Errorf("export contains %q", unwanted)
		}
	}

	out = env.mustRun(t, "export", "-", "--start=2025-08-01", "--end=2025-08-31")
	if !strings.Contains(out, "SUMMARY:Holiday") || strings.Contains(out, "SUMMARY:Dentist") {
		t.Errorf("ranged export to stdout:\n%s", out)
	}
}

func TestExportThenImportIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Dentist", "--date=today", "--start=10:00", "--end=11:00")

	path := filepath.Join(env.dir, "round.ics")
	env.mustRun(t, "export", path)
	out := env.mustRun(t, "import", path)
	if !strings.Contains(out, "Imported 0 tasks (1 already present)") {
		t.Errorf("re-import of an export:\n%s", out)
	}
}
