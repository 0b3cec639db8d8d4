package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

// setupTestServer returns a server over a fresh data directory.
func setupTestServer(t *testing.T, backend store.Backend) *Server {
	t.Helper()
	dataDir := filepath.Join(t.TempDir(), store.DataDirName)
	server, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Backend: backend,
		DataDir: dataDir,
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { server.Close() })
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t, store.BackendMemory)

	if server.server == nil {
		t.Error("Server.server is nil")
	}
	if server.store == nil {
		t.Error("Server.store is nil")
	}
	if server.logger == nil {
		t.Error("Server.logger is nil")
	}
}

func TestNewServer_CreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), store.DataDirName)

	server, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Backend: store.BackendSQLite,
		DataDir: dataDir,
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	if _, err := os.Stat(filepath.Join(dataDir, store.DatabaseFile)); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestNewServer_UnknownBackend(t *testing.T) {
	_, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Backend: store.Backend("postgres"),
		DataDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("NewServer should fail for an unknown backend")
	}
}
