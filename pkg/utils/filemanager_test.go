package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "A.PDF", "c.txt", "notes.md"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	fm := NewFileManager(dir, t.TempDir(), t.TempDir())
	files, err := fm.DiscoverInputFiles()
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if strings.Join(names, ",") != "A.PDF,b.pdf,c.txt" {
		t.Fatalf("unexpected files %v", names)
	}

	files, err = fm.DiscoverInputFiles("*.pdf", "b*")
	if err != nil || len(files) != 2 {
		t.Fatalf("expected each file once, got %v %v", files, err)
	}

	if _, err := fm.DiscoverInputFiles("["); err == nil {
		t.Fatalf("expected error for bad pattern")
	}
}

func TestDiscoverInputFilesMissingDir(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "absent"), "", "")
	if _, err := fm.DiscoverInputFiles(); err == nil {
		t.Fatalf("expected error for missing input directory")
	}
}

func TestArchiveInputFile(t *testing.T) {
	in := t.TempDir()
	archive := filepath.Join(t.TempDir(), "archive")
	src := filepath.Join(in, "slip.pdf")
	touch(t, src)

	fm := NewFileManager(in, t.TempDir(), archive)
	got, err := fm.ArchiveInputFile(src)
	if err != nil || got != src {
		t.Fatalf("archiving disabled should be a no-op, got %q %v", got, err)
	}

	fm.ArchiveOnSuccess = true
	if err := fm.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	got, err = fm.ArchiveInputFile(src)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if got != filepath.Join(archive, "slip.pdf") || !FileExists(got) {
		t.Fatalf("file not archived to %q", got)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("original should be moved, stat err %v", err)
	}
}

func TestArchiveInputFileTimestampSubdirs(t *testing.T) {
	in := t.TempDir()
	archive := t.TempDir()
	src := filepath.Join(in, "slip.pdf")
	touch(t, src)

	fm := NewFileManager(in, t.TempDir(), archive)
	fm.ArchiveOnSuccess = true
	fm.UseTimestampSubdirs = true

	got, err := fm.ArchiveInputFile(src)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	rel, err := filepath.Rel(archive, got)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 4 || parts[3] != "slip.pdf" || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		t.Fatalf("expected YYYY/MM/DD/slip.pdf, got %q", rel)
	}
	if !FileExists(got) {
		t.Fatalf("file not archived to %q", got)
	}
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("payslips_{kind}_{uuid}", "xlsx", map[string]string{"kind": "summary"})
	if !strings.HasPrefix(name, "payslips_summary_") || !strings.HasSuffix(name, ".xlsx") {
		t.Fatalf("unexpected name %q", name)
	}
	if strings.Contains(name, "{") {
		t.Fatalf("placeholder left in %q", name)
	}

	if got := GenerateOutputFileName("report.CSV", "csv", nil); got != "report.CSV" {
		t.Fatalf("extension should not be doubled, got %q", got)
	}
}

func TestWriteLogs(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	if err != nil || path != "" {
		t.Fatalf("no entries should write nothing, got %q %v", path, err)
	}

	path, err = WriteErrorLog([]ErrorLogEntry{{
		Timestamp:    time.Now(),
		FileName:     "blank.pdf",
		ErrorType:    "extraction",
		ErrorMessage: "pay period not found",
	}}, dir)
	if err != nil {
		t.Fatalf("error log: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "blank.pdf") || !strings.Contains(string(data), "Total Errors: 1") {
		t.Fatalf("unexpected error log %q %v", data, err)
	}

	start := time.Now()
	path, err = WriteSummaryLog(ProcessingSummary{
		RunID:           "run-1",
		StartTime:       start,
		EndTime:         start.Add(time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		ProcessedFiles:  []ProcessedFileInfo{{InputFile: "march.pdf", Layout: "default", Period: "2023-03", Categories: 2}},
		FailedFilesList: []FailedFileInfo{{InputFile: "blank.pdf", ErrorMessage: "pay period not found"}},
	}, dir)
	if err != nil {
		t.Fatalf("summary log: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"run-1", "march.pdf", "2023-03", "Failed Files:", "blank.pdf"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("summary log missing %q:\n%s", want, data)
		}
	}
}
