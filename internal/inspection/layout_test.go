package inspection

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubAssets struct{}

func (stubAssets) DataURI(name string) string {
	return "data:image/png;base64,AAAA-" + name
}

func intPtr(v int) *int { return &v }

func sectionNames(col []MergedSection) []string {
	out := make([]string, 0, len(col))
	for _, s := range col {
		out = append(out, s.Name)
	}
	return out
}

func TestDistributeSectionsHintWins(t *testing.T) {
	sections := []MergedSection{
		{Name: "Brakes", ColumnHint: intPtr(0)},
		{Name: "Exterior"},
	}
	cols := DistributeSections(sections, 3)
	require.Equal(t, []string{"Brakes"}, sectionNames(cols[0]))
	require.Equal(t, []string{"Exterior"}, sectionNames(cols[1]))
}

func TestDistributeSectionsNameMatchCaseInsensitive(t *testing.T) {
	sections := []MergedSection{
		{Name: "  engine   COMPARTMENT "},
		{Name: "Road Test"},
	}
	cols := DistributeSections(sections, 3)
	require.Equal(t, []string{"  engine   COMPARTMENT "}, sectionNames(cols[0]))
	require.Equal(t, []string{"Road Test"}, sectionNames(cols[2]))
}

func TestDistributeSectionsUnknownGoesLeastLoaded(t *testing.T) {
	sections := []MergedSection{
		{Name: "Engine Compartment"},
		{Name: "Transmission"},
		{Name: "Exterior"},
		{Name: "Custom Extras"},
	}
	cols := DistributeSections(sections, 3)
	// Column 2 is empty, so the unknown section lands there.
	require.Equal(t, []string{"Custom Extras"}, sectionNames(cols[2]))
}

func TestDistributeSectionsOutOfRangeHintFallsBack(t *testing.T) {
	sections := []MergedSection{
		{Name: "Brakes", ColumnHint: intPtr(9)},
	}
	cols := DistributeSections(sections, 3)
	require.Equal(t, []string{"Brakes"}, sectionNames(cols[2]))
}

func TestBuildViewsNumbersMarkersPerView(t *testing.T) {
	b := NewBuilder(stubAssets{}, t.TempDir(), slog.Default())
	markers := []DamageMarker{
		{View: ViewSide, X: 10, Y: 20, Type: MarkerDent},
		{View: ViewTop, X: 30, Y: 40, Type: MarkerScratch},
		{View: ViewSide, X: 50, Y: 60, Type: MarkerRust},
	}

	views := b.buildViews(markers)
	require.Len(t, views, 4)
	require.Equal(t, ViewTop, views[0].View)
	require.Len(t, views[0].Markers, 1)
	require.Equal(t, 1, views[0].Markers[0].Number)

	require.Equal(t, ViewSide, views[1].View)
	require.Len(t, views[1].Markers, 2)
	require.Equal(t, 1, views[1].Markers[0].Number)
	require.Equal(t, 2, views[1].Markers[1].Number)
	require.Equal(t, markerColors[MarkerRust], views[1].Markers[1].Color)

	require.Empty(t, views[2].Markers)
	require.Empty(t, views[3].Markers)
}

func TestBuildPhotosFailureLeavesEmptySlot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "front.jpg"), []byte("jpegdata"), 0o644))

	b := NewBuilder(stubAssets{}, dir, slog.Default())
	doc := b.Build(Inspection{Images: []Image{
		{Category: "EXTERIOR", Path: "front.jpg"},
		{Category: "INTERIOR", Path: "missing.jpg"},
	}}, nil, nil)

	require.Len(t, doc.Photos, 2)
	require.Contains(t, doc.Photos[0].ImageURI, "data:image/jpeg;base64,")
	require.Equal(t, "EXTERIOR", doc.Photos[0].Caption)
	require.Empty(t, doc.Photos[1].ImageURI)
	require.Equal(t, "INTERIOR", doc.Photos[1].Caption)
}

func TestBuildFillsPlaceholders(t *testing.T) {
	b := NewBuilder(stubAssets{}, t.TempDir(), slog.Default())
	fixed := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	b.WithNow(func() time.Time { return fixed })

	doc := b.Build(Inspection{Make: "Maruti Suzuki"}, nil, nil)

	require.Equal(t, "Pre-Delivery Inspection Report", doc.Title)
	require.Equal(t, "02 May 2026", doc.GeneratedText)
	require.Equal(t, "Maruti Suzuki", doc.VehicleFields[0].Value)
	// Absent model renders the placeholder glyph.
	require.Equal(t, "—", doc.VehicleFields[1].Value)
	require.Equal(t, "—", doc.InspectionDate)
	require.Len(t, doc.Columns, 3)
	require.Len(t, doc.Views, 4)
	require.Contains(t, doc.HeaderURI, "report-header.png")
}
