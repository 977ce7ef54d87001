package inspection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testTemplate() Template {
	return Template{Sections: []Section{
		{
			ID:   1,
			Name: "Engine Compartment",
			Items: []Item{
				{ID: 10, Label: "Oil level"},
				{ID: 11, Label: "Coolant level"},
				{ID: 12, Label: "Belt condition"},
			},
		},
		{
			ID:   2,
			Name: "Brakes",
			Items: []Item{
				{ID: 20, Label: "Pad wear"},
				{ID: 21, Label: "Fluid level"},
			},
		},
	}}
}

func TestMergeChecklistEveryItemAppearsOnce(t *testing.T) {
	tpl := testTemplate()
	responses := []ChecklistResponse{
		{ItemID: 11, Status: StatusFail, Notes: "low coolant"},
		{ItemID: 20, Status: StatusPass},
	}

	merged := MergeChecklist(tpl, responses)
	require.Len(t, merged, 2)

	var total int
	seen := map[int64]int{}
	for _, section := range merged {
		for _, item := range section.Items {
			total++
			seen[item.ItemID]++
		}
	}
	require.Equal(t, tpl.ItemCount(), total)
	for id, count := range seen {
		require.Equal(t, 1, count, "item %d duplicated", id)
	}
}

func TestMergeChecklistUnansweredDefaults(t *testing.T) {
	merged := MergeChecklist(testTemplate(), []ChecklistResponse{
		{ItemID: 11, Status: StatusFail, Notes: "low coolant"},
	})

	engine := merged[0]
	require.Equal(t, "Engine Compartment", engine.Name)
	require.Equal(t, StatusUnanswered, engine.Items[0].Status)
	require.Empty(t, engine.Items[0].Notes)
	require.Equal(t, StatusFail, engine.Items[1].Status)
	require.Equal(t, "low coolant", engine.Items[1].Notes)
}

func TestMergeChecklistIgnoresOrphanResponses(t *testing.T) {
	merged := MergeChecklist(testTemplate(), []ChecklistResponse{
		{ItemID: 999, Status: StatusPass},
	})

	var total int
	for _, section := range merged {
		total += len(section.Items)
	}
	require.Equal(t, 5, total)
	for _, section := range merged {
		for _, item := range section.Items {
			require.Equal(t, StatusUnanswered, item.Status)
		}
	}
}

func TestMergeChecklistPreservesTemplateOrder(t *testing.T) {
	merged := MergeChecklist(testTemplate(), nil)
	require.Equal(t, "Engine Compartment", merged[0].Name)
	require.Equal(t, "Brakes", merged[1].Name)
	require.EqualValues(t, 10, merged[0].Items[0].ItemID)
	require.EqualValues(t, 12, merged[0].Items[2].ItemID)
}

func TestMergeLeakageUnrecordedRows(t *testing.T) {
	items := []LeakageItem{
		{ID: 1, Label: "Engine oil"},
		{ID: 2, Label: "Coolant"},
		{ID: 3, Label: "Brake fluid"},
	}
	rows := MergeLeakage(items, []LeakageResponse{
		{ItemID: 2, Found: true, Notes: "seep at hose"},
		{ItemID: 3, Found: false},
	})

	require.Len(t, rows, 3)
	require.False(t, rows[0].Recorded)
	require.True(t, rows[1].Recorded)
	require.True(t, rows[1].Found)
	require.Equal(t, "seep at hose", rows[1].Notes)
	require.True(t, rows[2].Recorded)
	require.False(t, rows[2].Found)
}
