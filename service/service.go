package service

import (
	"errors"
	"io"
	"sort"

	"github.com/fulldump/gridview/colconf"
	"github.com/fulldump/gridview/dataset"
	"github.com/fulldump/gridview/grid"
)

var ErrorDatasetNotFound = errors.New("dataset not found")

type DatasetInfo struct {
	Name    string `json:"name"`
	Total   int    `json:"total"`
	Columns int    `json:"columns"`
}

// QueryRequest is one pass through the grid pipeline: filter → sort → group →
// window.
type QueryRequest struct {
	Search   string                    `json:"search"`
	Contains map[string]string         `json:"contains"`
	Filters  map[string]grid.Condition `json:"filters"`
	Query    map[string]any            `json:"query"`
	Sort     []grid.SortKey            `json:"sort"`
	GroupBy  string                    `json:"groupBy"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"pageSize"`
}

type GroupInfo struct {
	Value string `json:"value"`
	Total int    `json:"total"`
}

type QueryResult struct {
	Total  int         `json:"total"`
	From   int         `json:"from"`
	Rows   []grid.Row  `json:"rows"`
	Groups []GroupInfo `json:"groups,omitempty"`
}

type ExportRequest struct {
	Format   grid.Format  `json:"format"`
	Columns  []string     `json:"columns"`
	Filename string       `json:"filename"`
	Query    QueryRequest `json:"query"`
}

type Servicer interface {
	ListDatasets() []*DatasetInfo
	GetDataset(name string) (*DatasetInfo, error)
	Query(name string, req QueryRequest) (*QueryResult, error)
	Export(w io.Writer, name string, req ExportRequest) (string, error)
	LoadConfig(userID, gridID string) *colconf.Config
	SaveConfig(config *colconf.Config) error
	ResetConfig(userID, gridID string) (*colconf.Config, error)
	DefaultConfig(userID, gridID string) *colconf.Config
}

type Service struct {
	datasets *dataset.Store
	configs  *colconf.Store
}

func NewService(datasets *dataset.Store, configs *colconf.Store) *Service {
	return &Service{
		datasets: datasets,
		configs:  configs,
	}
}

func (s *Service) ListDatasets() []*DatasetInfo {
	result := []*DatasetInfo{}
	for name, d := range s.datasets.Datasets {
		result = append(result, &DatasetInfo{
			Name:    name,
			Total:   len(d.Rows),
			Columns: len(d.Columns),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (s *Service) GetDataset(name string) (*DatasetInfo, error) {
	d, err := s.datasets.Get(name)
	if err != nil {
		return nil, ErrorDatasetNotFound
	}
	return &DatasetInfo{
		Name:    d.Name,
		Total:   len(d.Rows),
		Columns: len(d.Columns),
	}, nil
}

// pipeline runs filter and sort over one dataset, no windowing.
func (s *Service) pipeline(name string, req QueryRequest) (*dataset.Dataset, []grid.Row, error) {
	d, err := s.datasets.Get(name)
	if err != nil {
		return nil, nil, ErrorDatasetNotFound
	}

	filter := grid.NewFilterState()
	filter.SetSearch(req.Search)
	for column, text := range req.Contains {
		filter.SetContains(column, text)
	}
	for column, cond := range req.Filters {
		filter.SetCondition(column, cond)
	}
	filter.SetQuery(req.Query)

	rows, err := filter.Apply(d.Rows, d.Columns)
	if err != nil {
		return nil, nil, err
	}

	return d, grid.SortRows(rows, req.Sort), nil
}

func (s *Service) Query(name string, req QueryRequest) (*QueryResult, error) {
	_, rows, err := s.pipeline(name, req)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Total: len(rows)}

	if req.GroupBy != "" {
		grouping := grid.GroupRows(rows, req.GroupBy)
		for _, group := range grouping.Groups() {
			result.Groups = append(result.Groups, GroupInfo{
				Value: group.Value,
				Total: len(group.Rows),
			})
		}
	}

	pager := grid.NewPager(grid.PageMode, req.PageSize)
	pager.SetPage(req.Page)
	from, to := pager.Window(len(rows))
	result.From = from
	result.Rows = rows[from:to]

	return result, nil
}

// Export writes only the logically filtered set, never the unfiltered
// source.
func (s *Service) Export(w io.Writer, name string, req ExportRequest) (string, error) {
	d, rows, err := s.pipeline(name, req.Query)
	if err != nil {
		return "", err
	}

	columns := d.Columns
	if len(req.Columns) > 0 {
		columns = []grid.Column{}
		for _, key := range req.Columns {
			col, ok := grid.ColumnByKey(d.Columns, key)
			if ok {
				columns = append(columns, col)
			}
		}
	}

	base := req.Filename
	if base == "" {
		base = name
	}
	filename := grid.Filename(base, req.Format)

	return filename, grid.Export(w, req.Format, rows, columns)
}

func (s *Service) LoadConfig(userID, gridID string) *colconf.Config {
	return s.configs.Load(userID, gridID)
}

func (s *Service) SaveConfig(config *colconf.Config) error {
	return s.configs.Save(config)
}

// DefaultConfig builds the natural-order all-visible configuration from the
// dataset's schema when the grid id names a known dataset.
func (s *Service) DefaultConfig(userID, gridID string) *colconf.Config {
	base := []grid.Column{}
	d, err := s.datasets.Get(gridID)
	if err == nil {
		base = d.Columns
	}
	return colconf.Default(userID, gridID, base)
}

// ResetConfig regenerates the default from the dataset's schema when the grid
// id names a known dataset, else from an empty base.
func (s *Service) ResetConfig(userID, gridID string) (*colconf.Config, error) {
	base := []grid.Column{}
	d, err := s.datasets.Get(gridID)
	if err == nil {
		base = d.Columns
	}
	return s.configs.Reset(userID, gridID, base)
}
