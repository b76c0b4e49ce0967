package dataset

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulldump/gridview/grid"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

// Dataset is one named row collection already fetched into memory; the grid
// engine only ever operates on these.
type Dataset struct {
	Name    string        `json:"name"`
	Columns []grid.Column `json:"columns"`
	Rows    []grid.Row    `json:"rows"`
}

type Config struct {
	Dir string
}

// Store loads every *.json dataset file under its data directory.
type Store struct {
	config   *Config
	status   string
	Datasets map[string]*Dataset
	exit     chan struct{}
}

func NewStore(config *Config) *Store {
	return &Store{
		config:   config,
		status:   StatusOpening,
		Datasets: map[string]*Dataset{},
		exit:     make(chan struct{}),
	}
}

func (s *Store) GetStatus() string {
	return s.status
}

func (s *Store) Get(name string) (*Dataset, error) {
	d, exists := s.Datasets[name]
	if !exists {
		return nil, fmt.Errorf("dataset '%s' not found", name)
	}
	return d, nil
}

// Reload re-reads one dataset file, the refetch path: the grid mounted over
// it resets selection and page when handed the new rows.
func (s *Store) Reload(name string) (*Dataset, error) {
	filename := path.Join(s.config.Dir, name+".json")
	d, err := readDataset(filename)
	if err != nil {
		return nil, err
	}
	s.Datasets[name] = d
	return d, nil
}

func readDataset(filename string) (*Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	d := &Dataset{}
	err = json.Unmarshal(data, d)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	name := strings.TrimSuffix(path.Base(filename), ".json")
	d.Name = name
	return d, nil
}

func (s *Store) Load() error {

	fmt.Printf("Loading datasets %s...\n", s.config.Dir) // todo: move to logger
	dir := s.config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	err = filepath.WalkDir(dir, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(filename, ".json") {
			return nil
		}

		t0 := time.Now()
		ds, err := readDataset(filename)
		if err != nil {
			fmt.Printf("ERROR: open dataset '%s': %s\n", filename, err.Error())
			return err
		}
		fmt.Println(ds.Name, len(ds.Rows), time.Since(t0))

		s.Datasets[ds.Name] = ds

		return nil
	})

	if err != nil {
		s.status = StatusClosing
		return err
	}

	s.status = StatusOperating

	return nil
}

func (s *Store) Start() error {

	err := s.Load()
	if err != nil {
		return err
	}

	<-s.exit

	return nil
}

func (s *Store) Stop() error {
	defer close(s.exit)
	s.status = StatusClosing
	return nil
}
