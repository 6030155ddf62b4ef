package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores one JSON transcript per session under Dir.
type FileBackend struct {
	Dir string

	mu sync.Mutex
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("memory: create %s: %w", dir, err)
	}
	return &FileBackend{Dir: dir}, nil
}

func (b *FileBackend) path(sessionID string) string {
	return filepath.Join(b.Dir, filepath.Base(sessionID)+".json")
}

func (b *FileBackend) Load(_ context.Context, sessionID string) ([]Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return LoadConversation(b.path(sessionID))
}

func (b *FileBackend) Append(_ context.Context, sessionID string, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.path(sessionID)
	prior, err := LoadConversation(p)
	if err != nil {
		return err
	}
	return SaveConversation(p, append(prior, msgs...))
}

// LoadConversation reads a transcript. A missing file is an empty history.
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("memory: decode %s: %w", path, err)
	}
	return msgs, nil
}

// SaveConversation writes a transcript, replacing the file atomically.
func SaveConversation(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
