// Package tokenstore keeps the bearer token between CLI invocations.
package tokenstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is token storage
type Store interface {
	// Get returns stored token, empty when there is none
	Get() string
	// Set replaces stored token
	Set(token string) error
	// Clear removes stored token
	Clear() error
}

// File stores token in a file readable only by the owner
type File struct {
	path string
}

// NewFile creates new File store at path
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns location of the token file
func (f *File) Path() string {
	return f.path
}

// Get returns stored token. A missing or unreadable file means no token.
func (f *File) Get() string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set writes token to the file
func (f *File) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(f.path, 0o600); err != nil {
		return fmt.Errorf("restrict token file: %w", err)
	}
	return nil
}

// Clear removes the token file
func (f *File) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Memory keeps token in memory
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory creates new Memory store holding token
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear() error {
	return m.Set("")
}
