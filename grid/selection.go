package grid

import (
	"sort"
	"sync"
	"time"
)

// Selection is a set of global row indices into the filtered set. Mutating
// operations return a new set; callers re-render from the returned value.
// Indices are only meaningful for the filtered snapshot they were computed
// against.
type Selection struct {
	indices   map[int]struct{}
	anchor    int
	hasAnchor bool
}

func NewSelection() Selection {
	return Selection{indices: map[int]struct{}{}}
}

func (s Selection) clone() Selection {
	indices := make(map[int]struct{}, len(s.indices))
	for i := range s.indices {
		indices[i] = struct{}{}
	}
	return Selection{indices: indices, anchor: s.anchor, hasAnchor: s.hasAnchor}
}

func (s Selection) Contains(index int) bool {
	_, ok := s.indices[index]
	return ok
}

func (s Selection) Count() int {
	return len(s.indices)
}

func (s Selection) Indices() []int {
	indices := make([]int, 0, len(s.indices))
	for i := range s.indices {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// SelectAll selects exactly the current page window when checked, and clears
// the whole set when unchecked.
func (s Selection) SelectAll(checked bool, pageSize, currentPage, totalRows int) Selection {
	out := NewSelection()
	if !checked {
		return out
	}
	from := (currentPage - 1) * pageSize
	to := from + pageSize
	if from < 0 {
		from = 0
	}
	if to > totalRows {
		to = totalRows
	}
	for i := from; i < to; i++ {
		out.indices[i] = struct{}{}
	}
	return out
}

// SelectRow toggles one index, or selects/deselects the inclusive range from
// the previous anchor when shift is held. A plain click always becomes the
// new anchor; a shift range never touches rows outside the range.
func (s Selection) SelectRow(index int, checked, shift bool) Selection {
	out := s.clone()

	if shift && s.hasAnchor {
		from, to := s.anchor, index
		if from > to {
			from, to = to, from
		}
		for i := from; i <= to; i++ {
			if checked {
				out.indices[i] = struct{}{}
			} else {
				delete(out.indices, i)
			}
		}
		return out
	}

	if checked {
		out.indices[index] = struct{}{}
	} else {
		delete(out.indices, index)
	}
	out.anchor = index
	out.hasAnchor = true
	return out
}

// SelectRange replaces the whole set with the inclusive range [from, to],
// the shape drag gestures produce.
func (s Selection) SelectRange(from, to int) Selection {
	out := NewSelection()
	if from > to {
		from, to = to, from
	}
	for i := from; i <= to; i++ {
		out.indices[i] = struct{}{}
	}
	return out
}

func (s Selection) ClearAll() Selection {
	return NewSelection()
}

const DefaultArmDelay = 200 * time.Millisecond

type DragPhase int

const (
	DragIdle DragPhase = iota
	DragArmed
	DragDragging
)

// DragSelector is the timer-gated drag-select state machine. A pointer-down
// arms a timer; releasing before it fires leaves plain click semantics, the
// timer firing enters drag mode and replaces the selection with the starting
// index. Each pointer-enter while dragging emits the inclusive range between
// the start and the entered row.
type DragSelector struct {
	mu         sync.Mutex
	phase      DragPhase
	start      int
	last       int
	generation int
	delay      time.Duration
	timer      *time.Timer
	suppressed bool

	// OnRange receives every recomputed drag range, start included.
	OnRange func(from, to int)
}

func NewDragSelector(delay time.Duration) *DragSelector {
	if delay <= 0 {
		delay = DefaultArmDelay
	}
	return &DragSelector{delay: delay}
}

func (d *DragSelector) Phase() DragPhase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Suppress disables arming, used while a column resize gesture is active.
func (d *DragSelector) Suppress(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suppressed = on
}

func (d *DragSelector) PointerDown(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.suppressed || d.phase != DragIdle {
		return
	}
	d.phase = DragArmed
	d.start = index
	d.last = index
	d.generation++
	generation := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(generation)
	})
}

func (d *DragSelector) fire(generation int) {
	d.mu.Lock()
	if d.generation != generation || d.phase != DragArmed {
		d.mu.Unlock()
		return
	}
	d.phase = DragDragging
	from, to := d.start, d.start
	callback := d.OnRange
	d.mu.Unlock()

	if callback != nil {
		callback(from, to)
	}
}

func (d *DragSelector) PointerEnter(index int) {
	d.mu.Lock()
	if d.phase != DragDragging {
		d.mu.Unlock()
		return
	}
	d.last = index
	from, to := d.start, index
	callback := d.OnRange
	d.mu.Unlock()

	if callback != nil {
		callback(from, to)
	}
}

// PointerUp ends the gesture. Released while armed, the timer is cancelled
// and no selection change happened; released while dragging, the last
// computed selection stays.
func (d *DragSelector) PointerUp() {
	d.cancel()
}

func (d *DragSelector) Cancel() {
	d.cancel()
}

func (d *DragSelector) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.phase = DragIdle
}
