package colconf

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fulldump/gridview/grid"
)

// ColumnSetting is one column's saved override.
type ColumnSetting struct {
	Key     string `json:"key"`
	Visible bool   `json:"visible"`
	Order   int    `json:"order"`
	Width   int    `json:"width,omitempty"`
}

// Config is the persisted layout for one (user, grid) pair.
type Config struct {
	UserID    string          `json:"userId"`
	GridID    string          `json:"gridId"`
	Columns   []ColumnSetting `json:"columns"`
	PageSize  int             `json:"pageSize,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type command struct {
	Name      string          `json:"name"`
	Uuid      string          `json:"uuid"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Store keeps configurations in an append-only journal of save/reset
// commands, replayed into memory on open.
type Store struct {
	filename string
	file     *os.File
	mu       sync.Mutex
	configs  map[string]*Config
}

func key(userID, gridID string) string {
	return userID + "/" + gridID
}

func OpenStore(filename string) (*Store, error) {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for read: %w", err)
	}

	store := &Store{
		filename: filename,
		configs:  map[string]*Config{},
	}

	// replay stops at the first corrupt envelope (typically a line truncated
	// by a crash) instead of failing the open; the journal is cut back to the
	// last good command so new appends land on a clean file.
	good := int64(0)
	truncated := false
	j := json.NewDecoder(f)
	for {
		c := &command{}
		err := j.Decode(&c)
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("WARNING: journal replay stopped: %s\n", err.Error())
			truncated = true
			break
		}
		good = j.InputOffset()

		switch c.Name {
		case "save":
			config := &Config{}
			err := json.Unmarshal(c.Payload, config)
			if err != nil {
				fmt.Printf("WARNING: replay save: %s\n", err.Error())
				continue
			}
			store.configs[key(config.UserID, config.GridID)] = config
		case "reset":
			params := struct {
				UserID string `json:"userId"`
				GridID string `json:"gridId"`
			}{}
			err := json.Unmarshal(c.Payload, &params)
			if err != nil {
				fmt.Printf("WARNING: replay reset: %s\n", err.Error())
				continue
			}
			delete(store.configs, key(params.UserID, params.GridID))
		}
	}
	f.Close()

	if truncated {
		err = os.Truncate(filename, good)
		if err != nil {
			return nil, fmt.Errorf("truncate journal: %w", err)
		}
	}

	store.file, err = os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open file for write: %w", err)
	}

	return store, nil
}

// Load returns the saved configuration or nil. Absence is not an error.
func (s *Store) Load(userID, gridID string) *Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[key(userID, gridID)]
}

// Save upserts by (user, grid) and appends the journal entry.
func (s *Store) Save(config *Config) error {
	if config.UserID == "" || config.GridID == "" {
		return fmt.Errorf("config needs userId and gridId")
	}
	config.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("store is closed")
	}

	s.configs[key(config.UserID, config.GridID)] = config
	return s.append("save", config)
}

// Reset deletes the stored configuration and returns a fresh default built
// from the current base column list.
func (s *Store) Reset(userID, gridID string, base []grid.Column) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil, fmt.Errorf("store is closed")
	}

	delete(s.configs, key(userID, gridID))
	err := s.append("reset", map[string]string{
		"userId": userID,
		"gridId": gridID,
	})
	if err != nil {
		return nil, err
	}

	return Default(userID, gridID, base), nil
}

func (s *Store) append(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	c := &command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   data,
	}

	err = json.NewEncoder(s.file).Encode(c)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Default is the natural-schema-order, all-visible configuration.
func Default(userID, gridID string, base []grid.Column) *Config {
	config := &Config{
		UserID:    userID,
		GridID:    gridID,
		UpdatedAt: time.Now().UTC(),
	}
	for i, col := range base {
		config.Columns = append(config.Columns, ColumnSetting{
			Key:     col.Key,
			Visible: true,
			Order:   i,
			Width:   col.Width,
		})
	}
	return config
}
