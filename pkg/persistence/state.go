package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"comicsreader/pkg/logger"
)

// StateFileName is the file the StateManager keeps in the data directory.
const StateFileName = "state.json"

// StateManager handles persistent key-value storage in a JSON file
type StateManager struct {
	fs       afero.Fs
	filePath string
	data     map[string]json.RawMessage
	mu       sync.RWMutex
}

// NewManager loads state.json from dataDir on fsys. A missing file is an empty state.
func NewManager(fsys afero.Fs, dataDir string) (*StateManager, error) {
	m := &StateManager{
		fs:       fsys,
		filePath: filepath.Join(dataDir, StateFileName),
		data:     make(map[string]json.RawMessage),
	}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return m, nil
}

// Path returns the state file location.
func (m *StateManager) Path() string { return m.filePath }

func (m *StateManager) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := afero.ReadFile(m.fs, m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No state file, starting empty", "path", m.filePath)
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &m.data); err != nil {
		return err
	}
	// a literal null decodes to a nil map
	if m.data == nil {
		m.data = make(map[string]json.RawMessage)
	}
	return nil
}

func (m *StateManager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveLocked()
}

func (m *StateManager) saveLocked() error {
	if err := m.fs.MkdirAll(filepath.Dir(m.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(m.fs, m.filePath, data, 0644)
}

// Get retrieves data for a key and unmarshals it into target
func (m *StateManager) Get(key string, target any) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return true, err
	}

	return true, nil
}

// Set stores data for a key and saves to disk
func (m *StateManager) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return m.saveLocked()
}
