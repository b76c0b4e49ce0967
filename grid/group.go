package grid

import (
	"github.com/google/btree"
)

// Group is a collapsible cluster of rows sharing one column value. Groups are
// produced fresh on every apply; expansion defaults to true and is toggled
// independently afterward.
type Group struct {
	Value    string
	Rows     []Row
	Indices  []int
	Expanded bool
}

type Grouping struct {
	column string
	groups []*Group
}

// GroupRows clusters the working set by one column. Group order is the group
// key's string order, kept through a btree index while clustering.
func GroupRows(rows []Row, column string) *Grouping {
	index := btree.NewG(32, func(a, b *Group) bool {
		return a.Value < b.Value
	})

	for i, row := range rows {
		value := CellString(row.Cell(column))
		pivot := &Group{Value: value}
		group, found := index.Get(pivot)
		if !found {
			group = &Group{Value: value, Expanded: true}
			index.ReplaceOrInsert(group)
		}
		group.Rows = append(group.Rows, row)
		group.Indices = append(group.Indices, i)
	}

	grouping := &Grouping{column: column}
	index.Ascend(func(g *Group) bool {
		grouping.groups = append(grouping.groups, g)
		return true
	})
	return grouping
}

func (g *Grouping) Column() string {
	return g.column
}

func (g *Grouping) Groups() []*Group {
	return g.groups
}

// Toggle flips one group's expansion without touching the others.
func (g *Grouping) Toggle(value string) {
	for _, group := range g.groups {
		if group.Value == value {
			group.Expanded = !group.Expanded
			return
		}
	}
}

func (g *Grouping) ExpandAll(expanded bool) {
	for _, group := range g.groups {
		group.Expanded = expanded
	}
}

// FlatEntry is one line of the flattened grouped view: either a group header
// pseudo-row or a member row carrying its global index.
type FlatEntry struct {
	Header bool
	Group  *Group
	Row    Row
	Index  int
}

// Flatten interleaves headers and member rows. Collapsed groups contribute
// only their header.
func (g *Grouping) Flatten() []FlatEntry {
	entries := []FlatEntry{}
	for _, group := range g.groups {
		entries = append(entries, FlatEntry{Header: true, Group: group, Index: -1})
		if !group.Expanded {
			continue
		}
		for i, row := range group.Rows {
			entries = append(entries, FlatEntry{Group: group, Row: row, Index: group.Indices[i]})
		}
	}
	return entries
}
