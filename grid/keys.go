package grid

// Key is an abstract grid key event; hosts map their input layer onto it.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeySpace
	KeyEscape
	KeyCopy
)

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionMove
	ActionOpenEdit
	ActionCloseEdit
	ActionCopy
)

// Action is what a key resolves to. Move/OpenEdit/Copy carry the focused
// coordinate; the host looks up the cell value for copy and clipboard.
type Action struct {
	Kind   ActionKind
	Row    int
	Column string
}

// Navigator maps directional and activation keys to focus movement over the
// rendered grid. Left/Right traverse editable columns only; Up/Down cover
// the full row range. Copy works even while an edit session is open
// elsewhere.
type Navigator struct {
	columns []Column
	rows    int
	row     int
	col     int
}

func NewNavigator(columns []Column, rows int) *Navigator {
	n := &Navigator{columns: columns, rows: rows}
	n.col = n.nextEditable(-1, 1)
	return n
}

// Resize updates grid dimensions after a refresh, clamping the focus.
func (n *Navigator) Resize(columns []Column, rows int) {
	n.columns = columns
	n.rows = rows
	if n.row >= rows {
		n.row = rows - 1
	}
	if n.row < 0 {
		n.row = 0
	}
	if n.col >= len(columns) {
		n.col = n.nextEditable(len(columns), -1)
	}
	if n.col < 0 {
		n.col = 0
	}
}

func (n *Navigator) Focus() (row int, column string) {
	if n.col < 0 || n.col >= len(n.columns) {
		return n.row, ""
	}
	return n.row, n.columns[n.col].Key
}

func (n *Navigator) SetFocus(row int, column string) {
	if row >= 0 && row < n.rows {
		n.row = row
	}
	for i, c := range n.columns {
		if c.Key == column {
			n.col = i
			return
		}
	}
}

// nextEditable returns the next editable column index walking from `from` in
// direction `step`, or -1.
func (n *Navigator) nextEditable(from, step int) int {
	for i := from + step; i >= 0 && i < len(n.columns); i += step {
		if n.columns[i].Editable {
			return i
		}
	}
	return -1
}

// Handle resolves one key. While editing, only Escape and Copy resolve; the
// rest belong to the session's text buffer.
func (n *Navigator) Handle(k Key, editing bool) Action {
	if editing {
		switch k {
		case KeyEscape:
			return Action{Kind: ActionCloseEdit}
		case KeyCopy:
			row, col := n.Focus()
			return Action{Kind: ActionCopy, Row: row, Column: col}
		}
		return Action{Kind: ActionNone}
	}

	switch k {
	case KeyUp:
		if n.row > 0 {
			n.row--
		}
	case KeyDown:
		if n.row < n.rows-1 {
			n.row++
		}
	case KeyLeft:
		if i := n.nextEditable(n.col, -1); i >= 0 {
			n.col = i
		}
	case KeyRight:
		if i := n.nextEditable(n.col, 1); i >= 0 {
			n.col = i
		}
	case KeyEnter, KeySpace:
		row, col := n.Focus()
		if col == "" {
			return Action{Kind: ActionNone}
		}
		if c, ok := ColumnByKey(n.columns, col); !ok || !c.Editable {
			return Action{Kind: ActionNone}
		}
		return Action{Kind: ActionOpenEdit, Row: row, Column: col}
	case KeyEscape:
		return Action{Kind: ActionNone}
	case KeyCopy:
		row, col := n.Focus()
		return Action{Kind: ActionCopy, Row: row, Column: col}
	}

	row, col := n.Focus()
	return Action{Kind: ActionMove, Row: row, Column: col}
}
