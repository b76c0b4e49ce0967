package grid

// VirtualThreshold is the row count above which windowed rendering kicks in.
// Below it every row is mounted and the window math is skipped entirely.
const VirtualThreshold = 100

const DefaultOverscan = 5

type VirtualRow struct {
	Index  int
	Offset int
	Size   int
}

// VirtualWindow is the subset of rows to mount plus the spacer heights that
// keep native scrollbar geometry correct.
type VirtualWindow struct {
	First        int
	Rows         []VirtualRow
	TotalHeight  int
	TopSpacer    int
	BottomSpacer int
	Virtual      bool
}

// Virtualizer computes mount windows from an estimated row size, refined by
// measured sizes fed back from rendered rows. It tolerates the row count
// changing under it: measurements for vanished indices are simply unused.
type Virtualizer struct {
	estimate int
	overscan int
	measured map[int]int
}

func NewVirtualizer(estimate, overscan int) *Virtualizer {
	if estimate <= 0 {
		estimate = 1
	}
	if overscan < 0 {
		overscan = DefaultOverscan
	}
	return &Virtualizer{
		estimate: estimate,
		overscan: overscan,
		measured: map[int]int{},
	}
}

// Measure feeds back the rendered size of one row.
func (v *Virtualizer) Measure(index, size int) {
	if size > 0 {
		v.measured[index] = size
	}
}

func (v *Virtualizer) ResetMeasurements() {
	v.measured = map[int]int{}
}

func (v *Virtualizer) size(index int) int {
	if s, ok := v.measured[index]; ok {
		return s
	}
	return v.estimate
}

// Window computes the rows to mount for the given scroll position. Total
// height covers every row so the scrollbar is sized for the whole set.
func (v *Virtualizer) Window(total, scrollTop, viewportHeight int) VirtualWindow {
	if scrollTop < 0 {
		scrollTop = 0
	}

	if total <= VirtualThreshold {
		return v.all(total)
	}

	w := VirtualWindow{Virtual: true, First: -1}
	offset := 0
	for i := 0; i < total; i++ {
		size := v.size(i)
		if offset+size > scrollTop && w.First < 0 {
			w.First = i
		}
		if w.First >= 0 && offset < scrollTop+viewportHeight {
			w.Rows = append(w.Rows, VirtualRow{Index: i, Offset: offset, Size: size})
		}
		offset += size
	}
	w.TotalHeight = offset
	if w.First < 0 {
		w.First = 0
	}

	w = v.withOverscan(w, total)
	if len(w.Rows) > 0 {
		w.TopSpacer = w.Rows[0].Offset
		last := w.Rows[len(w.Rows)-1]
		w.BottomSpacer = w.TotalHeight - (last.Offset + last.Size)
	}
	return w
}

func (v *Virtualizer) all(total int) VirtualWindow {
	w := VirtualWindow{}
	offset := 0
	for i := 0; i < total; i++ {
		size := v.size(i)
		w.Rows = append(w.Rows, VirtualRow{Index: i, Offset: offset, Size: size})
		offset += size
	}
	w.TotalHeight = offset
	return w
}

func (v *Virtualizer) withOverscan(w VirtualWindow, total int) VirtualWindow {
	if len(w.Rows) == 0 {
		return w
	}

	first := w.Rows[0].Index
	from := first - v.overscan
	if from < 0 {
		from = 0
	}
	offset := w.Rows[0].Offset
	var head []VirtualRow
	for i := first - 1; i >= from; i-- {
		offset -= v.size(i)
		head = append([]VirtualRow{{Index: i, Offset: offset, Size: v.size(i)}}, head...)
	}

	last := w.Rows[len(w.Rows)-1]
	to := last.Index + v.overscan
	if to > total-1 {
		to = total - 1
	}
	tail := []VirtualRow{}
	offset = last.Offset + last.Size
	for i := last.Index + 1; i <= to; i++ {
		tail = append(tail, VirtualRow{Index: i, Offset: offset, Size: v.size(i)})
		offset += v.size(i)
	}

	w.Rows = append(append(head, w.Rows...), tail...)
	w.First = w.Rows[0].Index
	return w
}
