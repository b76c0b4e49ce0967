package grid

import (
	"fmt"
	"io"
	"reflect"
	"sync"
	"time"
)

const (
	NotifyInfo  = "info"
	NotifyError = "error"
)

// Callbacks are the collaborator contracts the engine consumes. Persistence,
// notifications and layout listeners are all external; the engine only calls
// through these.
type Callbacks struct {
	OnUpdate        UpdateFunc
	OnCreate        CreateFunc
	OnBatchDelete   func(rows []Row) error
	OnHideColumn    func(column string)
	OnColumnReorder func(from, to int)
	OnToggleFreeze  func(column string)
	Notify          func(level, message string)
}

func (c Callbacks) notify(level, message string) {
	if c.Notify != nil {
		c.Notify(level, message)
	}
}

type Options struct {
	Mode      WindowMode
	PageSize  int
	RowHeight int
	Overscan  int
	ArmDelay  time.Duration
}

// Grid wires the engines together: filter → sort → group → window →
// virtualize, recomputed on every dependency change. It owns no row data
// beyond the source slice handed to SetRows.
type Grid struct {
	mu      sync.Mutex
	columns []Column
	source  []Row
	working []Row
	cb      Callbacks

	sort      *SortState
	filter    *FilterState
	pager     *Pager
	selection Selection
	drag      *DragSelector
	grouping  *Grouping
	groupBy   string
	virt      *Virtualizer
	nav       *Navigator
	editor    *Editor
}

func New(columns []Column, cb Callbacks, opts Options) *Grid {
	if opts.RowHeight <= 0 {
		opts.RowHeight = 1
	}

	g := &Grid{
		columns:   columns,
		cb:        cb,
		sort:      &SortState{},
		filter:    NewFilterState(),
		pager:     NewPager(opts.Mode, opts.PageSize),
		selection: NewSelection(),
		drag:      NewDragSelector(opts.ArmDelay),
		virt:      NewVirtualizer(opts.RowHeight, opts.Overscan),
		nav:       NewNavigator(columns, 0),
		editor:    NewEditor(),
	}
	g.drag.OnRange = func(from, to int) {
		g.mu.Lock()
		g.selection = g.selection.SelectRange(from, to)
		g.mu.Unlock()
	}
	return g
}

func (g *Grid) Columns() []Column {
	g.mu.Lock()
	defer g.mu.Unlock()
	columns := make([]Column, len(g.columns))
	copy(columns, g.columns)
	return columns
}

func (g *Grid) Editor() *Editor     { return g.editor }
func (g *Grid) Drag() *DragSelector { return g.drag }
func (g *Grid) Pager() *Pager       { return g.pager }
func (g *Grid) Nav() *Navigator     { return g.nav }

// SetRows replaces the source collection, e.g. after a refetch. Selection and
// page reset because positional identities are only valid within one
// snapshot.
func (g *Grid) SetRows(rows []Row) error {
	g.mu.Lock()
	g.source = rows
	g.selection = NewSelection()
	g.drag.Cancel()
	g.pager.Reset()
	g.mu.Unlock()
	return g.Refresh()
}

// Refresh recomputes the working set. Inputs are never mutated; each stage
// produces a new collection.
func (g *Grid) Refresh() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refresh()
}

func (g *Grid) refresh() error {
	filtered, err := g.filter.Apply(g.source, g.columns)
	if err != nil {
		return err
	}
	g.working = SortRows(filtered, g.sort.Keys())

	if g.groupBy != "" {
		previous := g.grouping
		g.grouping = GroupRows(g.working, g.groupBy)
		if previous != nil && previous.Column() == g.groupBy {
			carryExpansion(previous, g.grouping)
		}
	} else {
		g.grouping = nil
	}

	g.nav.Resize(g.columns, len(g.working))
	return nil
}

// carryExpansion keeps manual collapse state across refilters for groups that
// survived by value.
func carryExpansion(from, to *Grouping) {
	collapsed := map[string]bool{}
	for _, group := range from.Groups() {
		if !group.Expanded {
			collapsed[group.Value] = true
		}
	}
	for _, group := range to.Groups() {
		if collapsed[group.Value] {
			group.Expanded = false
		}
	}
}

// criteriaChanged resets the state whose positional meaning a membership
// change invalidates: selection, drag gesture and page cursor.
func (g *Grid) criteriaChanged() error {
	g.selection = NewSelection()
	g.drag.Cancel()
	g.pager.Reset()
	return g.refresh()
}

// --- filter & sort mutators ---

func (g *Grid) SetSearch(query string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter.SetSearch(query)
	return g.criteriaChanged()
}

func (g *Grid) SetContains(column, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter.SetContains(column, text)
	return g.criteriaChanged()
}

func (g *Grid) SetCondition(column string, cond Condition) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter.SetCondition(column, cond)
	return g.criteriaChanged()
}

func (g *Grid) SetQuery(expr map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter.SetQuery(expr)
	return g.criteriaChanged()
}

func (g *Grid) ClearFilters() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter.Clear()
	return g.criteriaChanged()
}

func (g *Grid) Filter() *FilterState {
	return g.filter
}

// ToggleSort flips one column's direction. Sorting reorders but does not
// change membership, so the selection survives.
func (g *Grid) ToggleSort(column string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	col, ok := ColumnByKey(g.columns, column)
	if !ok || !col.Sortable {
		return nil
	}
	g.sort.Toggle(column)
	return g.refresh()
}

func (g *Grid) SetSort(keys ...SortKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sort.Set(keys...)
	return g.refresh()
}

func (g *Grid) Sort() *SortState {
	return g.sort
}

// --- grouping ---

func (g *Grid) GroupBy(column string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groupBy = column
	g.grouping = nil
	return g.refresh()
}

// ClearGrouping restores flat pagination.
func (g *Grid) ClearGrouping() error {
	return g.GroupBy("")
}

func (g *Grid) ToggleGroup(value string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.grouping != nil {
		g.grouping.Toggle(value)
	}
}

func (g *Grid) Grouping() *Grouping {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grouping
}

// --- reads ---

// Rows returns the filtered, sorted working set.
func (g *Grid) Rows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]Row, len(g.working))
	copy(rows, g.working)
	return rows
}

func (g *Grid) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.working)
}

// Window returns the current page (or infinite-scroll window) of the working
// set, plus the global index of its first row.
func (g *Grid) Window() ([]Row, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	from, to := g.pager.Window(len(g.working))
	rows := make([]Row, to-from)
	copy(rows, g.working[from:to])
	return rows, from
}

// Flattened returns the grouped view when grouping is active, else the flat
// window as plain entries.
func (g *Grid) Flattened() []FlatEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.grouping != nil {
		return g.grouping.Flatten()
	}

	from, to := g.pager.Window(len(g.working))
	entries := make([]FlatEntry, 0, to-from)
	for i := from; i < to; i++ {
		entries = append(entries, FlatEntry{Row: g.working[i], Index: i})
	}
	return entries
}

// VirtualWindow computes the mount window over the rendered surface: the
// flattened entries (headers included) when grouping is active, else the
// paged window.
func (g *Grid) VirtualWindow(scrollTop, viewportHeight int) VirtualWindow {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.grouping != nil {
		return g.virt.Window(len(g.grouping.Flatten()), scrollTop, viewportHeight)
	}
	from, to := g.pager.Window(len(g.working))
	return g.virt.Window(to-from, scrollTop, viewportHeight)
}

func (g *Grid) MeasureRow(index, size int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.virt.Measure(index, size)
}

// Extend grows the infinite-scroll window, called as the consumer nears the
// bottom.
func (g *Grid) Extend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pager.Extend(len(g.working))
}

func (g *Grid) SetPage(page int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pager.SetPage(page)
}

// --- selection ---

func (g *Grid) Selection() Selection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selection
}

func (g *Grid) SelectAll(checked bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selection = g.selection.SelectAll(checked, g.pager.PageSize(), g.pager.Page(), len(g.working))
}

// SelectRow is a click or shift-click on one row. Shift ranges are ignored
// while a drag gesture is in progress; the two cannot interleave.
func (g *Grid) SelectRow(index int, checked, shift bool) {
	if shift && g.drag.Phase() != DragIdle {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selection = g.selection.SelectRow(index, checked, shift)
}

func (g *Grid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selection = NewSelection()
}

func (g *Grid) SelectedRows() []Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := []Row{}
	for _, i := range g.selection.Indices() {
		if i >= 0 && i < len(g.working) {
			rows = append(rows, g.working[i])
		}
	}
	return rows
}

// --- editing ---

func (g *Grid) StartEdit(index int, column string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index < 0 || index >= len(g.working) {
		return
	}
	col, ok := ColumnByKey(g.columns, column)
	if !ok || !col.Editable {
		return
	}
	g.editor.Start(index, column, g.working[index][column])
}

// CommitEdit commits the open session with the given input. Failures notify
// and leave the row untouched; stale results are dropped silently.
func (g *Grid) CommitEdit(input string) *UndoRecord {
	session := g.editor.Session()
	if session == nil {
		return nil
	}

	g.mu.Lock()
	if session.Row < 0 || session.Row >= len(g.working) {
		g.mu.Unlock()
		g.editor.Cancel()
		return nil
	}
	row := g.working[session.Row]
	col, ok := ColumnByKey(g.columns, session.Column)
	g.mu.Unlock()
	if !ok {
		g.editor.Cancel()
		return nil
	}

	undo, err := g.editor.Commit(row, col, input, g.cb.OnUpdate)
	if err == ErrStaleCommit {
		return nil
	}
	if err != nil {
		g.cb.notify(NotifyError, err.Error())
		return nil
	}
	return undo
}

func (g *Grid) UndoLast() {
	err := g.editor.RevertLast(g.cb.OnUpdate)
	if err != nil {
		g.cb.notify(NotifyError, err.Error())
	}
}

// CreateRow submits the buffered new-row form and appends the created row to
// the source on success.
func (g *Grid) CreateRow() error {
	g.mu.Lock()
	columns := g.columns
	g.mu.Unlock()

	row, err := g.editor.SubmitCreate(columns, g.cb.OnCreate)
	if err != nil {
		g.cb.notify(NotifyError, err.Error())
		return err
	}

	g.mu.Lock()
	g.source = append(g.source, row)
	err = g.refresh()
	g.mu.Unlock()
	return err
}

// DeleteSelected batch-deletes the selected rows through the host. Rows are
// identified by full row objects, not indices. On success they are dropped
// from the source and the pipeline recomputes.
func (g *Grid) DeleteSelected() error {
	rows := g.SelectedRows()
	if len(rows) == 0 {
		return nil
	}
	if g.cb.OnBatchDelete == nil {
		return nil
	}

	err := g.cb.OnBatchDelete(rows)
	if err != nil {
		g.cb.notify(NotifyError, fmt.Sprintf("delete %d rows: %s", len(rows), err.Error()))
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	deleted := map[uintptr]bool{}
	for _, row := range rows {
		deleted[reflect.ValueOf(row).Pointer()] = true
	}
	kept := g.source[:0]
	for _, row := range g.source {
		if !deleted[reflect.ValueOf(row).Pointer()] {
			kept = append(kept, row)
		}
	}
	g.source = kept
	return g.criteriaChanged()
}

// --- column layout ---

func (g *Grid) HideColumn(column string) {
	g.mu.Lock()
	columns := g.columns[:0]
	for _, c := range g.columns {
		if c.Key != column {
			columns = append(columns, c)
		}
	}
	g.columns = columns
	g.nav.Resize(g.columns, len(g.working))
	g.mu.Unlock()

	if g.cb.OnHideColumn != nil {
		g.cb.OnHideColumn(column)
	}
}

func (g *Grid) ReorderColumn(from, to int) {
	g.mu.Lock()
	if from >= 0 && from < len(g.columns) && to >= 0 && to < len(g.columns) && from != to {
		col := g.columns[from]
		rest := append(g.columns[:from], g.columns[from+1:]...)
		g.columns = append(rest[:to], append([]Column{col}, rest[to:]...)...)
	}
	g.mu.Unlock()

	if g.cb.OnColumnReorder != nil {
		g.cb.OnColumnReorder(from, to)
	}
}

func (g *Grid) ToggleFreeze(column string) {
	g.mu.Lock()
	for i := range g.columns {
		if g.columns[i].Key == column {
			g.columns[i].Frozen = !g.columns[i].Frozen
		}
	}
	g.mu.Unlock()

	if g.cb.OnToggleFreeze != nil {
		g.cb.OnToggleFreeze(column)
	}
}

// ExportTo writes the filtered working set, never the unfiltered source.
func (g *Grid) ExportTo(w io.Writer, format Format, columnKeys []string) error {
	g.mu.Lock()
	rows := make([]Row, len(g.working))
	copy(rows, g.working)
	columns := g.exportColumns(columnKeys)
	g.mu.Unlock()

	return Export(w, format, rows, columns)
}

func (g *Grid) exportColumns(keys []string) []Column {
	if len(keys) == 0 {
		columns := make([]Column, len(g.columns))
		copy(columns, g.columns)
		return columns
	}
	columns := []Column{}
	for _, key := range keys {
		if col, ok := ColumnByKey(g.columns, key); ok {
			columns = append(columns, col)
		}
	}
	return columns
}
