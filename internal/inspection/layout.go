package inspection

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/motormint/motormint/internal/assets"
	"github.com/motormint/motormint/internal/format"
)

const reportColumns = 3

// Static asset filenames consumed by the PDI document.
const (
	assetHeader        = "report-header.png"
	assetFooter        = "report-footer.png"
	assetDiagramPrefix = "diagram-" // diagram-top.png, diagram-side.png, ...
	assetDiagramSuffix = ".png"
)

// sectionColumns pins the well-known template sections to report columns.
// Lookup is by trimmed, lowercased name so minor label drift in the admin
// template does not scatter the layout. Unknown sections fall into the
// least-loaded column.
var sectionColumns = map[string]int{
	"engine compartment":    0,
	"transmission":          0,
	"suspension & steering": 0,
	"under vehicle":         0,
	"exterior":              1,
	"interior":              1,
	"electricals":           1,
	"air conditioning":      1,
	"brakes":                2,
	"wheels & tyres":        2,
	"road test":             2,
	"documentation":         2,
}

var markerColors = map[MarkerType]string{
	MarkerScratch: "#e67e22",
	MarkerDent:    "#8e44ad",
	MarkerCrack:   "#c0392b",
	MarkerChip:    "#16a085",
	MarkerRust:    "#a0522d",
	MarkerBroken:  "#e74c3c",
	MarkerOther:   "#7f8c8d",
}

var viewTitles = map[MarkerView]string{
	ViewTop:      "Top View",
	ViewSide:     "Side View",
	ViewInterior: "Interior",
	ViewBoot:     "Boot",
}

// Field is a fixed-label/value pair in a report grid.
type Field struct {
	Label string
	Value string
}

// OverlayMarker is a positioned, numbered damage annotation.
type OverlayMarker struct {
	Number      int
	X           float64
	Y           float64
	Color       string
	Type        MarkerType
	Severity    string
	Description string
}

// DiagramView couples a vehicle diagram with its marker overlay.
type DiagramView struct {
	View     MarkerView
	Title    string
	ImageURI string
	Markers  []OverlayMarker
}

// Photo is an inline-embedded inspection image. ImageURI is empty when the
// file could not be read; the slot still renders.
type Photo struct {
	Caption  string
	ImageURI string
}

// DocumentData is the complete view model handed to the PDI HTML template.
type DocumentData struct {
	Title          string
	StatusLabel    string
	HeaderURI      string
	FooterURI      string
	GeneratedAt    time.Time
	GeneratedText  string
	InspectionDate string
	Inspector      string
	CustomerName   string
	Comments       string
	VehicleFields  []Field
	CustomerFields []Field
	Columns        [][]MergedSection
	Leakage        []LeakageRow
	Views          []DiagramView
	Photos         []Photo
}

// Builder assembles the PDI document view model prior to rendering.
type Builder struct {
	assets    assets.Provider
	uploadDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewBuilder constructs a Builder. uploadDir is the root holding uploaded
// inspection photos.
func NewBuilder(provider assets.Provider, uploadDir string, logger *slog.Logger) *Builder {
	return &Builder{assets: provider, uploadDir: uploadDir, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (b *Builder) WithNow(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

// Build lays out the merged inspection data into the document view model.
func (b *Builder) Build(insp Inspection, sections []MergedSection, leakage []LeakageRow) DocumentData {
	generated := b.now()
	return DocumentData{
		Title:          "Pre-Delivery Inspection Report",
		StatusLabel:    format.Text(string(insp.Status)),
		HeaderURI:      b.assets.DataURI(assetHeader),
		FooterURI:      b.assets.DataURI(assetFooter),
		GeneratedAt:    generated,
		GeneratedText:  format.Date(generated),
		InspectionDate: format.DatePtr(insp.InspectionDate),
		Inspector:      format.Text(insp.Inspector),
		CustomerName:   format.Text(insp.CustomerName),
		Comments:       strings.TrimSpace(insp.Comments),
		VehicleFields: []Field{
			{Label: "Make", Value: format.Text(insp.Make)},
			{Label: "Model", Value: format.Text(insp.Model)},
			{Label: "Colour", Value: format.Text(insp.Color)},
			{Label: "Year", Value: format.Text(insp.Year)},
			{Label: "VIN", Value: format.Text(insp.VIN)},
			{Label: "Engine No.", Value: format.Text(insp.EngineNumber)},
			{Label: "Odometer", Value: format.Text(insp.Odometer)},
		},
		CustomerFields: []Field{
			{Label: "Customer", Value: format.Text(insp.CustomerName)},
			{Label: "Email", Value: format.Text(insp.CustomerEmail)},
			{Label: "Phone", Value: format.Text(insp.CustomerPhone)},
		},
		Columns: DistributeSections(sections, reportColumns),
		Leakage: leakage,
		Views:   b.buildViews(insp.Markers),
		Photos:  b.buildPhotos(insp.Images),
	}
}

// buildPhotos inlines each uploaded inspection image. A failed read leaves an
// empty slot; the rest of the document still renders.
func (b *Builder) buildPhotos(images []Image) []Photo {
	if len(images) == 0 {
		return nil
	}
	out := make([]Photo, 0, len(images))
	for _, img := range images {
		photo := Photo{Caption: img.Category}
		uri, err := assets.FileDataURI(filepath.Join(b.uploadDir, img.Path))
		if err != nil {
			if b.logger != nil {
				b.logger.Warn("inspection photo unreadable", slog.String("path", img.Path), slog.Any("error", err))
			}
		} else {
			photo.ImageURI = uri
		}
		out = append(out, photo)
	}
	return out
}

// DistributeSections assigns merged sections to a fixed number of columns.
// An explicit column hint wins; otherwise the section name is matched against
// the known assignments; anything else lands in the column holding the fewest
// sections, lowest index winning ties. The result is deterministic for a
// given input order.
func DistributeSections(sections []MergedSection, columns int) [][]MergedSection {
	if columns <= 0 {
		columns = reportColumns
	}
	out := make([][]MergedSection, columns)
	for i := range out {
		out[i] = []MergedSection{}
	}
	for _, section := range sections {
		col := -1
		if section.ColumnHint != nil && *section.ColumnHint >= 0 && *section.ColumnHint < columns {
			col = *section.ColumnHint
		} else if assigned, ok := sectionColumns[normaliseSectionName(section.Name)]; ok && assigned < columns {
			col = assigned
		}
		if col < 0 {
			col = leastLoaded(out)
		}
		out[col] = append(out[col], section)
	}
	return out
}

func normaliseSectionName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func leastLoaded(columns [][]MergedSection) int {
	best := 0
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) < len(columns[best]) {
			best = i
		}
	}
	return best
}

// buildViews produces one overlay per diagram view, always in fixed order.
// Markers are numbered sequentially within their view.
func (b *Builder) buildViews(markers []DamageMarker) []DiagramView {
	views := make([]DiagramView, 0, len(MarkerViews()))
	for _, view := range MarkerViews() {
		dv := DiagramView{
			View:     view,
			Title:    viewTitles[view],
			ImageURI: b.assets.DataURI(assetDiagramPrefix + strings.ToLower(string(view)) + assetDiagramSuffix),
		}
		for _, m := range markers {
			if m.View != view {
				continue
			}
			dv.Markers = append(dv.Markers, OverlayMarker{
				Number:      len(dv.Markers) + 1,
				X:           m.X,
				Y:           m.Y,
				Color:       markerColors[m.Type],
				Type:        m.Type,
				Severity:    m.Severity,
				Description: m.Description,
			})
		}
		views = append(views, dv)
	}
	return views
}
