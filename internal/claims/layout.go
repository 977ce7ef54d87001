package claims

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/motormint/motormint/internal/assets"
	"github.com/motormint/motormint/internal/format"
)

const (
	assetHeader = "report-header.png"
	assetFooter = "report-footer.png"
)

var statusBadges = map[Status]string{
	StatusSubmitted:        "badge-neutral",
	StatusUnderReview:      "badge-info",
	StatusPendingDocuments: "badge-warn",
	StatusApproved:         "badge-ok",
	StatusRejected:         "badge-fail",
	StatusCompleted:        "badge-ok",
}

// Field is a fixed-label/value pair in a report grid.
type Field struct {
	Label string
	Value string
}

// FieldGroup is one bordered grid box of related fields.
type FieldGroup struct {
	Title  string
	Fields []Field
}

// Attachment is an inline-embedded claim document. ImageURI is empty when
// the file could not be read; the slot still renders.
type Attachment struct {
	Name     string
	Type     string
	ImageURI string
}

// DocumentData is the complete view model handed to the claim HTML template.
type DocumentData struct {
	Title         string
	ClaimNumber   string
	StatusLabel   string
	StatusClass   string
	HeaderURI     string
	FooterURI     string
	GeneratedAt   time.Time
	GeneratedText string
	Groups        []FieldGroup
	DamageAreas   []string
	ReviewNotes   string
	Attachments   []Attachment
}

// Builder assembles the claim document view model prior to rendering.
type Builder struct {
	assets    assets.Provider
	uploadDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewBuilder constructs a Builder. uploadDir is the root holding attached
// claim documents.
func NewBuilder(provider assets.Provider, uploadDir string, logger *slog.Logger) *Builder {
	return &Builder{assets: provider, uploadDir: uploadDir, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (b *Builder) WithNow(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

// Build lays out the claim into the document view model. Every field slot is
// visibly accounted for: absent values render the placeholder glyph.
func (b *Builder) Build(claim Claim) DocumentData {
	generated := b.now()
	return DocumentData{
		Title:         "Insurance Claim Report",
		ClaimNumber:   format.Text(claim.ClaimNumber),
		StatusLabel:   format.Text(string(claim.Status)),
		StatusClass:   badgeClass(claim.Status),
		HeaderURI:     b.assets.DataURI(assetHeader),
		FooterURI:     b.assets.DataURI(assetFooter),
		GeneratedAt:   generated,
		GeneratedText: format.Date(generated),
		Groups: []FieldGroup{
			{
				Title: "Claimant",
				Fields: []Field{
					{Label: "Name", Value: format.Text(claim.ClaimantName)},
					{Label: "Email", Value: format.Text(claim.ClaimantEmail)},
					{Label: "Phone", Value: format.Text(claim.ClaimantPhone)},
				},
			},
			{
				Title: "Vehicle",
				Fields: []Field{
					{Label: "Make", Value: format.Text(claim.Make)},
					{Label: "Model", Value: format.Text(claim.Model)},
					{Label: "Year", Value: format.Text(claim.Year)},
					{Label: "Registration No.", Value: format.Text(claim.RegistrationNumber)},
					{Label: "Chassis No.", Value: format.Text(claim.ChassisNumber)},
				},
			},
			{
				Title: "Policy",
				Fields: []Field{
					{Label: "Insurer", Value: format.Text(claim.Insurer)},
					{Label: "Policy No.", Value: format.Text(claim.PolicyNumber)},
					{Label: "Valid From", Value: format.DatePtr(claim.PolicyValidFrom)},
					{Label: "Valid To", Value: format.DatePtr(claim.PolicyValidTo)},
					{Label: "Insured Value", Value: format.INR(claim.InsuredValue)},
				},
			},
			{
				Title: "Incident",
				Fields: []Field{
					{Label: "Type", Value: format.Text(claim.IncidentType)},
					{Label: "Date", Value: format.DatePtr(claim.IncidentDate)},
					{Label: "Location", Value: format.Text(claim.IncidentLocation)},
					{Label: "Estimated Damage", Value: format.INR(claim.EstimatedDamage)},
					{Label: "Description", Value: format.Text(claim.IncidentDescription)},
				},
			},
			{
				Title: "Review",
				Fields: []Field{
					{Label: "Reviewed By", Value: format.Text(claim.ReviewedBy)},
					{Label: "Reviewed At", Value: format.DatePtr(claim.ReviewedAt)},
				},
			},
		},
		DamageAreas: claim.DamageAreas,
		ReviewNotes: claim.ReviewNotes,
		Attachments: b.buildAttachments(claim),
	}
}

func badgeClass(s Status) string {
	if cls, ok := statusBadges[s]; ok {
		return cls
	}
	return "badge-neutral"
}

// buildAttachments inlines each attached document image. A failed read
// leaves an empty slot; the rest of the document still renders.
func (b *Builder) buildAttachments(claim Claim) []Attachment {
	if len(claim.Documents) == 0 {
		return nil
	}
	out := make([]Attachment, 0, len(claim.Documents))
	for _, doc := range claim.Documents {
		att := Attachment{Name: format.Text(doc.FileName), Type: doc.Type}
		uri, err := assets.FileDataURI(filepath.Join(b.uploadDir, doc.Path))
		if err != nil {
			if b.logger != nil {
				b.logger.Warn("claim attachment unreadable", slog.String("path", doc.Path), slog.Any("error", err))
			}
		} else {
			att.ImageURI = uri
		}
		out = append(out, att)
	}
	return out
}
