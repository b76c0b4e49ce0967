package grid

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/uuid"
)

var ErrStaleCommit = errors.New("commit superseded by a newer edit")

// EditSession is one cell being interactively edited. At most one session is
// open; starting a new one silently discards an uncommitted prior one.
type EditSession struct {
	Row    int
	Column string
	Value  string
}

// UndoRecord describes the last committed edit, valid until the next
// mutation. Patch is a merge patch that restores the old row payload.
type UndoRecord struct {
	Kind   string
	Row    Row
	Column string
	Old    any
	New    any
	Label  string
	Patch  []byte
}

// UpdateFunc commits one cell to the host. Failure must leave the displayed
// value untouched, so the engine never mutates before success.
type UpdateFunc func(row Row, column string, value any) error

type CreateFunc func(row Row) error

// Editor owns the single edit session, the new-row buffer and the last undo
// record. Every commit carries a generation token; a commit that resolves
// after a newer one started is discarded instead of landing stale.
type Editor struct {
	mu      sync.Mutex
	session *EditSession
	undo    *UndoRecord
	create  Row
	latest  uuid.UUID
}

func NewEditor() *Editor {
	return &Editor{create: Row{}}
}

// Start opens an edit session over one cell, discarding any open session
// without saving it.
func (e *Editor) Start(rowIndex int, column string, current any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = &EditSession{
		Row:    rowIndex,
		Column: column,
		Value:  CellString(current),
	}
}

func (e *Editor) Session() *EditSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	s := *e.session
	return &s
}

func (e *Editor) SetValue(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Value = value
	}
}

// Cancel closes the session without saving.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
}

func (e *Editor) Undo() *UndoRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo
}

func (e *Editor) ClearUndo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.undo = nil
}

// Commit applies one cell edit through the host callback. Typed no-ops (same
// numeric value, identical string, blank input) close the session without
// calling out and produce no undo record. On success the row is mutated and
// an undo record replaces the previous one; a result arriving after a newer
// commit started is dropped.
func (e *Editor) Commit(row Row, col Column, input string, update UpdateFunc) (*UndoRecord, error) {

	old := row[col.Key]
	value, noop := coerceCommit(col, input, old)

	e.mu.Lock()
	e.session = nil
	if noop {
		e.mu.Unlock()
		return nil, nil
	}
	token := uuid.New()
	e.latest = token
	e.mu.Unlock()

	err := update(row, col.Key, value)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.latest != token {
		return nil, ErrStaleCommit
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", col.Key, err)
	}

	oldPayload, _ := row.JSON()
	row[col.Key] = value
	newPayload, _ := row.JSON()
	patch, patchErr := jsonpatch.CreateMergePatch(newPayload, oldPayload)
	if patchErr != nil {
		patch = nil
	}

	e.undo = &UndoRecord{
		Kind:   "cell-update",
		Row:    row,
		Column: col.Key,
		Old:    old,
		New:    value,
		Label:  col.Label,
		Patch:  patch,
	}
	return e.undo, nil
}

// RevertLast undoes the last committed edit through the same host callback
// and consumes the record. The row payload is restored by applying the stored
// merge patch; direct assignment of Old is the fallback when no patch could
// be built.
func (e *Editor) RevertLast(update UpdateFunc) error {
	e.mu.Lock()
	undo := e.undo
	e.mu.Unlock()

	if undo == nil {
		return nil
	}

	err := update(undo.Row, undo.Column, undo.Old)
	if err != nil {
		return fmt.Errorf("undo %s: %w", undo.Column, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !applyMergePatch(undo.Row, undo.Patch) {
		undo.Row[undo.Column] = undo.Old
	}
	e.undo = nil
	return nil
}

func applyMergePatch(row Row, patch []byte) bool {
	if patch == nil {
		return false
	}
	payload, err := row.JSON()
	if err != nil {
		return false
	}
	previous, err := jsonpatch.MergePatch(payload, patch)
	if err != nil {
		return false
	}
	restored, err := RowFromJSON(previous)
	if err != nil {
		return false
	}
	row.replaceWith(restored)
	return true
}

// coerceCommit normalizes the input per column type and reports whether the
// commit is a no-op against the prior value.
func coerceCommit(col Column, input string, old any) (value any, noop bool) {
	switch col.Type {
	case TypeBoolean:
		b := input == "true"
		prior, ok := old.(bool)
		return b, ok && prior == b

	case TypeNumber:
		// blank numeric input defaults to zero
		f := 0.0
		if input != "" {
			parsed, err := strconv.ParseFloat(input, 64)
			if err == nil {
				f = parsed
			}
		}
		prior, ok := asFloat(old)
		return f, ok && prior == f

	default:
		if input == "" || input == CellString(old) {
			return input, true
		}
		return input, false
	}
}

// SetField buffers one field of the new-row form.
func (e *Editor) SetField(column, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.create[column] = value
}

func (e *Editor) CreateBuffer() Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.create.Clone()
}

func (e *Editor) ClearCreate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.create = Row{}
}

// SubmitCreate validates required fields, coerces typed fields and submits
// the new row. Validation failures reject before any external call.
func (e *Editor) SubmitCreate(columns []Column, create CreateFunc) (Row, error) {
	e.mu.Lock()
	buffer := e.create.Clone()
	e.mu.Unlock()

	row := Row{}
	for _, col := range columns {
		raw := CellString(buffer[col.Key])
		if col.Required && emptyCell(raw) {
			return nil, fmt.Errorf("field '%s' is required", col.Label)
		}
		if raw == "" && !col.Required {
			if col.Type == TypeNumber {
				row[col.Key] = 0.0
			}
			continue
		}
		value, _ := coerceCommit(col, raw, nil)
		row[col.Key] = value
	}

	err := create(row)
	if err != nil {
		return nil, fmt.Errorf("create row: %w", err)
	}

	e.mu.Lock()
	e.create = Row{}
	e.mu.Unlock()

	return row, nil
}
