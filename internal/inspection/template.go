package inspection

// Template is the fixed, admin-defined checklist taxonomy. It is loaded
// independently of any single inspection and is the superset every report
// merges against.
type Template struct {
	Sections []Section
}

// ItemCount totals the items across all sections.
func (t Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}

// Section groups ordered checklist items under a heading.
type Section struct {
	ID           int64
	Name         string
	DisplayOrder int
	// ColumnHint, when set, pins the section to a report column. Sections
	// without a hint fall back to name-based assignment.
	ColumnHint *int
	Items      []Item
}

// Item is a single checklist entry.
type Item struct {
	ID           int64
	Label        string
	DisplayOrder int
}

// LeakageItem is a fixed leakage-check definition.
type LeakageItem struct {
	ID    int64
	Label string
}
