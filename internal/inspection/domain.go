// Package inspection implements Pre-Delivery Inspection report generation:
// record fetching, checklist template merging, document layout, and the
// generate pipeline.
package inspection

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInspectionNotFound = errors.New("inspection: record not found")
	ErrTemplateEmpty      = errors.New("inspection: checklist template has no sections")
)

// ResponseStatus is the recorded outcome of a single checklist item.
type ResponseStatus string

const (
	StatusPass ResponseStatus = "PASS"
	StatusFail ResponseStatus = "FAIL"
	StatusWarn ResponseStatus = "WARN"
	// StatusUnanswered marks template items with no recorded response. Any
	// unrecognised stored value also maps here so layout never sees garbage.
	StatusUnanswered ResponseStatus = ""
)

// ParseResponseStatus normalises a stored status string.
func ParseResponseStatus(v string) ResponseStatus {
	switch ResponseStatus(strings.ToUpper(strings.TrimSpace(v))) {
	case StatusPass:
		return StatusPass
	case StatusFail:
		return StatusFail
	case StatusWarn:
		return StatusWarn
	default:
		return StatusUnanswered
	}
}

// InspectionStatus is the admin workflow state of the inspection record.
type InspectionStatus string

const (
	InspectionScheduled  InspectionStatus = "SCHEDULED"
	InspectionInProgress InspectionStatus = "IN_PROGRESS"
	InspectionCompleted  InspectionStatus = "COMPLETED"
	InspectionDelivered  InspectionStatus = "DELIVERED"
)

// MarkerView names one of the four fixed vehicle diagram views.
type MarkerView string

const (
	ViewTop      MarkerView = "TOP"
	ViewSide     MarkerView = "SIDE"
	ViewInterior MarkerView = "INTERIOR"
	ViewBoot     MarkerView = "BOOT"
)

// MarkerViews lists the diagram views in rendering order.
func MarkerViews() []MarkerView {
	return []MarkerView{ViewTop, ViewSide, ViewInterior, ViewBoot}
}

// MarkerType categorises a damage marker.
type MarkerType string

const (
	MarkerScratch MarkerType = "SCRATCH"
	MarkerDent    MarkerType = "DENT"
	MarkerCrack   MarkerType = "CRACK"
	MarkerChip    MarkerType = "CHIP"
	MarkerRust    MarkerType = "RUST"
	MarkerBroken  MarkerType = "BROKEN"
	MarkerOther   MarkerType = "OTHER"
)

// DamageMarker is a coordinate-positioned defect annotation over a diagram
// view. Coordinates are percentages relative to the rendered image box.
type DamageMarker struct {
	View        MarkerView `json:"view" validate:"oneof=TOP SIDE INTERIOR BOOT"`
	X           float64    `json:"x" validate:"min=0,max=100"`
	Y           float64    `json:"y" validate:"min=0,max=100"`
	Type        MarkerType `json:"type"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
}

var markerValidate = validator.New()

// ParseDamageMarkers decodes the serialized marker blob stored on the record.
// Markers are normalised and validated here, at the data-store boundary;
// entries that fail validation are dropped so a single bad marker cannot
// break layout. Only a malformed blob returns an error.
func ParseDamageMarkers(raw []byte) ([]DamageMarker, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var decoded []DamageMarker
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	markers := make([]DamageMarker, 0, len(decoded))
	for _, m := range decoded {
		m.View = MarkerView(strings.ToUpper(strings.TrimSpace(string(m.View))))
		m.Type = normaliseMarkerType(string(m.Type))
		if err := markerValidate.Struct(m); err != nil {
			continue
		}
		markers = append(markers, m)
	}
	return markers, nil
}

func normaliseMarkerType(v string) MarkerType {
	switch MarkerType(strings.ToUpper(strings.TrimSpace(v))) {
	case MarkerScratch, MarkerDent, MarkerCrack, MarkerChip, MarkerRust, MarkerBroken:
		return MarkerType(strings.ToUpper(strings.TrimSpace(v)))
	default:
		return MarkerOther
	}
}

// Inspection is a fully-resolved PDI record: the row plus every child
// collection the layout engine needs, loaded eagerly by the repository.
type Inspection struct {
	ID             int64
	CustomerUserID int64

	// Vehicle descriptors are plain strings; intake enforces no numeric shape.
	Make         string
	Model        string
	Color        string
	Year         string
	VIN          string
	EngineNumber string
	Odometer     string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	InspectionDate *time.Time
	Inspector      string
	Comments       string
	Status         InspectionStatus

	ReportPath        string
	ReportGeneratedAt *time.Time

	Responses []ChecklistResponse
	Leakages  []LeakageResponse
	Images    []Image
	Markers   []DamageMarker
}

// ChecklistResponse is one recorded checklist answer.
type ChecklistResponse struct {
	ItemID int64
	Status ResponseStatus
	Notes  string
}

// LeakageResponse is one recorded leakage-check answer.
type LeakageResponse struct {
	ItemID int64
	Found  bool
	Notes  string
}

// Image is an inspection photo reference.
type Image struct {
	Category string
	Path     string
	Position int
}

// RenderResult captures the output of the renderer.
type RenderResult struct {
	HTML   string
	PDF    []byte
	Length int64
}
