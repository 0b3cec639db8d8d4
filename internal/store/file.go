package store

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// FormatVersion is the version written in every file header.
	FormatVersion = 1
	// FileExtension is the suffix of community files.
	FileExtension = ".mvca"
	// MaxDecompressedSize bounds the payload of a single file (64MB).
	MaxDecompressedSize = 64 * 1024 * 1024
)

// FileHeader is the plain-text first line of a community file. It carries
// enough to list communities without decompressing their payloads.
type FileHeader struct {
	Version        int       `json:"version"`
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Checksum       string    `json:"checksum"`
	NumberOfNodes  int       `json:"number_of_nodes"`
	NumberOfElites int       `json:"number_of_elites"`
	Degree         int       `json:"degree"`
	EdgeCount      int       `json:"edge_count"`
	Homophily      *float64  `json:"probability_homophilic_attachment"`
	Compressed     bool      `json:"compressed"`
}

// FileStore implements CommunityStore with one file per community under
// <data dir>/communities. Each file is a JSON header line followed by a
// gzip-compressed JSON record.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the communities directory under dataDir if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	dir := filepath.Join(dataDir, CommunitiesDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create communities directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding community files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+FileExtension)
}

// Save writes rec to <id>.mvca, replacing any previous file.
func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteRecordFile(s.path(rec.ID), rec)
}

// Load reads and verifies <id>.mvca.
func (s *FileStore) Load(ctx context.Context, id string) (*Record, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := ReadRecordFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List reads the header of every community file.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading communities directory: %w", err)
	}
	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}
		h, err := ReadFileHeader(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		out = append(out, Summary{
			ID:                              h.ID,
			CreatedAt:                       h.CreatedAt,
			NumberOfNodes:                   h.NumberOfNodes,
			NumberOfElites:                  h.NumberOfElites,
			Degree:                          h.Degree,
			EdgeCount:                       h.EdgeCount,
			ProbabilityHomophilicAttachment: h.Homophily,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes <id>.mvca.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("removing community file: %w", err)
	}
	return nil
}

// Close is a no-op; every operation opens and closes its own file.
func (s *FileStore) Close() error { return nil }

// WriteRecordFile writes rec as a header line plus gzip payload.
func WriteRecordFile(path string, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	var compressed bytes.Buffer
	gzw, err := gzip.NewWriterLevel(&compressed, gzip.DefaultCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := gzw.Write(payload); err != nil {
		return fmt.Errorf("compressing payload: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("closing gzip writer: %w", err)
	}

	header := FileHeader{
		Version:        FormatVersion,
		ID:             rec.ID,
		CreatedAt:      rec.CreatedAt,
		Checksum:       checksum(compressed.Bytes()),
		NumberOfNodes:  rec.NumberOfNodes,
		NumberOfElites: rec.NumberOfElites,
		Degree:         rec.Degree,
		EdgeCount:      rec.EdgeCount(),
		Homophily:      rec.ProbabilityHomophilicAttachment,
		Compressed:     true,
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling header: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(headerBytes, '\n')); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := f.Write(compressed.Bytes()); err != nil {
		return fmt.Errorf("writing compressed payload: %w", err)
	}
	return f.Close()
}

// ReadRecordFile reads a community file, verifies its checksum and
// decompresses the record.
func ReadRecordFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	compressedData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading compressed payload: %w", err)
	}
	if actual := checksum(compressedData); actual != header.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksum, header.Checksum, actual)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gzr.Close()

	decompressed, err := io.ReadAll(io.LimitReader(gzr, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("decompressing payload: %w", err)
	}
	if int64(len(decompressed)) > MaxDecompressedSize {
		return nil, fmt.Errorf("decompressed payload exceeds maximum size of %d bytes", MaxDecompressedSize)
	}

	var rec Record
	if err := json.Unmarshal(decompressed, &rec); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	if rec.ID != header.ID {
		return nil, fmt.Errorf("%w: header id %q does not match record id %q", ErrInvalidRecord, header.ID, rec.ID)
	}
	return &rec, nil
}

// ReadFileHeader reads only the header line of a community file.
func ReadFileHeader(path string) (*FileHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return readHeader(bufio.NewReader(f))
}

func readHeader(reader *bufio.Reader) (*FileHeader, error) {
	headerLine, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("reading header line: %w", err)
	}
	var header FileHeader
	if err := json.Unmarshal(bytes.TrimSpace(headerLine), &header); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported community file version %d", header.Version)
	}
	return &header, nil
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(hash[:])
}
