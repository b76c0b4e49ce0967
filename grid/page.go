package grid

const DefaultPageSize = 25

type WindowMode int

const (
	PageMode WindowMode = iota
	InfiniteMode
)

// Pager selects the visible window over the working set: classic pages, or an
// incrementally growing visible count for infinite scroll.
type Pager struct {
	mode     WindowMode
	page     int
	pageSize int
	visible  int
}

func NewPager(mode WindowMode, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		mode:     mode,
		page:     1,
		pageSize: pageSize,
		visible:  pageSize,
	}
}

func (p *Pager) Mode() WindowMode  { return p.mode }
func (p *Pager) Page() int         { return p.page }
func (p *Pager) PageSize() int     { return p.pageSize }
func (p *Pager) VisibleCount() int { return p.visible }

func (p *Pager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

func (p *Pager) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p.pageSize = size
	p.Reset()
}

// Reset returns to the first window, keeping page size and mode.
func (p *Pager) Reset() {
	p.page = 1
	p.visible = p.pageSize
}

// Extend grows the visible count by one page, clipped to total. Only
// meaningful in infinite mode.
func (p *Pager) Extend(total int) {
	if p.mode != InfiniteMode {
		return
	}
	p.visible += p.pageSize
	if p.visible > total {
		p.visible = total
	}
}

func (p *Pager) Pages(total int) int {
	if total <= 0 {
		return 1
	}
	pages := total / p.pageSize
	if total%p.pageSize != 0 {
		pages++
	}
	return pages
}

// Window returns the [from, to) slice bounds over total rows.
func (p *Pager) Window(total int) (from, to int) {
	if p.mode == InfiniteMode {
		to = p.visible
		if to > total {
			to = total
		}
		return 0, to
	}

	from = (p.page - 1) * p.pageSize
	if from > total {
		from = total
	}
	to = from + p.pageSize
	if to > total {
		to = total
	}
	return from, to
}
