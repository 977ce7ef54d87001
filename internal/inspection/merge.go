package inspection

// MergedItem is a template item joined with its recorded response, if any.
type MergedItem struct {
	ItemID int64
	Label  string
	Status ResponseStatus
	Notes  string
}

// MergedSection preserves the template section order and completeness.
type MergedSection struct {
	Name       string
	ColumnHint *int
	Items      []MergedItem
}

// MergeChecklist reconciles the complete template against the sparse recorded
// responses. Every template item appears exactly once in the output, in
// template order; items without a response carry StatusUnanswered and no
// notes. The intake form allows partial entry, so the report must show what
// was not checked, not just what was.
func MergeChecklist(tpl Template, responses []ChecklistResponse) []MergedSection {
	byItem := make(map[int64]ChecklistResponse, len(responses))
	for _, r := range responses {
		byItem[r.ItemID] = r
	}
	merged := make([]MergedSection, 0, len(tpl.Sections))
	for _, section := range tpl.Sections {
		items := make([]MergedItem, 0, len(section.Items))
		for _, item := range section.Items {
			row := MergedItem{ItemID: item.ID, Label: item.Label}
			if resp, ok := byItem[item.ID]; ok {
				row.Status = resp.Status
				row.Notes = resp.Notes
			}
			items = append(items, row)
		}
		merged = append(merged, MergedSection{
			Name:       section.Name,
			ColumnHint: section.ColumnHint,
			Items:      items,
		})
	}
	return merged
}

// LeakageRow is a leakage item merged with its recorded finding.
type LeakageRow struct {
	Label    string
	Recorded bool
	Found    bool
	Notes    string
}

// MergeLeakage enumerates every leakage item; unrecorded items render as
// unanswered rather than being omitted.
func MergeLeakage(items []LeakageItem, responses []LeakageResponse) []LeakageRow {
	byItem := make(map[int64]LeakageResponse, len(responses))
	for _, r := range responses {
		byItem[r.ItemID] = r
	}
	rows := make([]LeakageRow, 0, len(items))
	for _, item := range items {
		row := LeakageRow{Label: item.Label}
		if resp, ok := byItem[item.ID]; ok {
			row.Recorded = true
			row.Found = resp.Found
			row.Notes = resp.Notes
		}
		rows = append(rows, row)
	}
	return rows
}
