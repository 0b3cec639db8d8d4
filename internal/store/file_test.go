package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
)

func sampleRecord() *Record {
	h := 0.4
	p := community.DefaultParams()
	p.ProbabilityHomophilicAttachment = &h
	return &Record{
		ID:        "sample",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Params:    p,
		Edges:     map[int][]int{0: {1, 2}, 1: {2, 9}, 3: {10}},
	}
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, CommunitiesDir)); err != nil {
		t.Errorf("communities directory not created: %v", err)
	}
	if s.Dir() != filepath.Join(dir, CommunitiesDir) {
		t.Errorf("Dir() = %s", s.Dir())
	}
}

func TestReadFileHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample"+FileExtension)
	if err := WriteRecordFile(path, sampleRecord()); err != nil {
		t.Fatalf("WriteRecordFile() error = %v", err)
	}

	h, err := ReadFileHeader(path)
	if err != nil {
		t.Fatalf("ReadFileHeader() error = %v", err)
	}
	if h.Version != FormatVersion || h.ID != "sample" || h.EdgeCount != 5 || !h.Compressed {
		t.Errorf("header = %+v", h)
	}
	if h.Homophily == nil || *h.Homophily != 0.4 {
		t.Errorf("header homophily = %v, want 0.4", h.Homophily)
	}
	if len(h.Checksum) != len("sha256:")+64 {
		t.Errorf("checksum = %q, want sha256 digest", h.Checksum)
	}
}

func TestReadRecordFile_DetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample"+FileExtension)
	if err := WriteRecordFile(path, sampleRecord()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadRecordFile(path); !errors.Is(err, ErrChecksum) {
		t.Errorf("ReadRecordFile(tampered) error = %v, want ErrChecksum", err)
	}
}

func TestReadRecordFile_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v9"+FileExtension)
	if err := os.WriteFile(path, []byte(`{"version":9,"id":"v9"}`+"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRecordFile(path); err == nil {
		t.Error("ReadRecordFile(version 9) expected error")
	}
}

func TestFileStore_ListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, sampleRecord()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("hi"), 0600); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != "sample" || list[0].EdgeCount != 5 {
		t.Errorf("List() = %+v", list)
	}
}

func TestFileStore_LoadRejectsBadID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), "../../etc/passwd"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Load(traversal) error = %v, want ErrInvalidID", err)
	}
}
