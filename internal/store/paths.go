package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DataDirName is the directory created under the project root.
	DataDirName = ".mvca"
	// DatabaseFile is the SQLite file name inside the data directory.
	DatabaseFile = "mvca.db"
	// CommunitiesDir holds one file per community for the file backend.
	CommunitiesDir = "communities"
)

// Backend selects a CommunityStore implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// DataPath returns the path to the .mvca directory for the given root.
func DataPath(root string) string {
	return filepath.Join(root, DataDirName)
}

// EnsureDataDir creates the .mvca directory if it doesn't exist.
func EnsureDataDir(root string) (string, error) {
	dir := DataPath(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", DataDirName, err)
	}
	return dir, nil
}

// Open returns the store for backend rooted at dataDir.
func Open(backend Backend, dataDir string) (CommunityStore, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStore(dataDir)
	case BackendFile:
		return NewFileStore(dataDir)
	case BackendMemory:
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
