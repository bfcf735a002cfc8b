package fileops_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dupescan/internal/fileops"
	"dupescan/internal/fingerprint"
	"dupescan/internal/logging"
	"dupescan/internal/testsupport"
)

func recordAt(t *testing.T, path string) *fingerprint.Record {
	t.Helper()
	testsupport.WriteFile(t, path, 16)
	return &fingerprint.Record{
		Name:        filepath.Base(path),
		Path:        path,
		Size:        16,
		ContentType: fingerprint.ContentType(path),
		Hash:        path,
	}
}

func TestOrganizeMovesByBucket(t *testing.T) {
	base := t.TempDir()
	photo := recordAt(t, filepath.Join(base, "cat.JPG"))
	song := recordAt(t, filepath.Join(base, "sub", "song.mp3"))
	doc := recordAt(t, filepath.Join(base, "notes.txt"))
	clash := recordAt(t, filepath.Join(base, "sub", "dog.png"))
	testsupport.WriteFile(t, filepath.Join(base, "photos", "dog.png"), 4)

	records := []*fingerprint.Record{photo, song, doc, clash}
	report, err := fileops.Organize(context.Background(), records, base, []string{"photos", "music"}, logging.NewNop())
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if report.Moved != 2 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if photo.Path != filepath.Join(base, "photos", "cat.JPG") {
		t.Fatalf("photo path not updated: %s", photo.Path)
	}
	if song.Path != filepath.Join(base, "music", "song.mp3") {
		t.Fatalf("song path not updated: %s", song.Path)
	}
	if doc.Path != filepath.Join(base, "notes.txt") {
		t.Fatalf("documents bucket was not requested, got %s", doc.Path)
	}
	if clash.Path != filepath.Join(base, "sub", "dog.png") {
		t.Fatalf("existing destination must not be overwritten, got %s", clash.Path)
	}
	if _, err := os.Stat(photo.Path); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
}

func TestOrganizeRejectsUnknownBucket(t *testing.T) {
	if _, err := fileops.Organize(context.Background(), nil, t.TempDir(), []string{"fonts"}, nil); err == nil {
		t.Fatal("expected error for unknown bucket")
	}
}

func TestRemoveDeletesFilesAndRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()

	keep := recordAt(t, filepath.Join(dir, "keep.bin"))
	drop := recordAt(t, filepath.Join(dir, "drop.bin"))
	gone := recordAt(t, filepath.Join(dir, "gone.bin"))
	scan := testsupport.SaveScan(t, st, dir, []*fingerprint.Record{keep, drop, gone})
	if err := os.Remove(gone.Path); err != nil {
		t.Fatal(err)
	}

	report, err := fileops.Remove(context.Background(), st, []int64{drop.ID, gone.ID, 4242}, logging.NewNop())
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if report.Requested != 3 || report.Removed != 1 || report.Missing != 1 || report.Unknown != 1 || report.Rows != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := os.Stat(drop.Path); !os.IsNotExist(err) {
		t.Fatalf("expected drop.bin removed, stat err=%v", err)
	}
	if _, err := os.Stat(keep.Path); err != nil {
		t.Fatalf("keep.bin should survive: %v", err)
	}

	remaining, err := st.Files(context.Background(), scan.ID)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != keep.ID {
		t.Fatalf("unexpected remaining rows %+v", remaining)
	}
}
