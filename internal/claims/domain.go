// Package claims implements insurance claim report generation. Claims have
// no template merge step; recorded fields render directly into boxed grids.
package claims

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrClaimNotFound = errors.New("claims: record not found")

// Status is the review workflow state of a claim.
type Status string

const (
	StatusSubmitted        Status = "SUBMITTED"
	StatusUnderReview      Status = "UNDER_REVIEW"
	StatusPendingDocuments Status = "PENDING_DOCUMENTS"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusCompleted        Status = "COMPLETED"
)

// ParseStatus normalises a stored status. Unrecognised values come back
// empty so layout renders a neutral badge instead of crashing.
func ParseStatus(v string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(v))) {
	case StatusSubmitted, StatusUnderReview, StatusPendingDocuments, StatusApproved, StatusRejected, StatusCompleted:
		return Status(strings.ToUpper(strings.TrimSpace(v)))
	default:
		return ""
	}
}

// Claim is a fully-resolved insurance claim: the row, the submitting user's
// contact fields, attached documents, and the parsed damage-area list.
type Claim struct {
	ID          int64
	ClaimNumber string
	UserID      int64

	ClaimantName  string
	ClaimantEmail string
	ClaimantPhone string

	Make               string
	Model              string
	Year               string
	RegistrationNumber string
	ChassisNumber      string

	Insurer         string
	PolicyNumber    string
	PolicyValidFrom *time.Time
	PolicyValidTo   *time.Time
	InsuredValue    float64

	IncidentType        string
	IncidentDate        *time.Time
	IncidentLocation    string
	IncidentDescription string
	EstimatedDamage     float64
	DamageAreas         []string

	Status      Status
	ReviewNotes string
	ReviewedBy  string
	ReviewedAt  *time.Time

	ReportPath        string
	ReportGeneratedAt *time.Time

	Documents []Document
}

// Document is one file attached to the claim.
type Document struct {
	FileName string
	Path     string
	Type     string
}

// ParseDamageAreas decodes the serialized damage-area list stored on the
// claim row. A malformed blob loses the list, not the report.
func ParseDamageAreas(raw []byte) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var areas []string
	if err := json.Unmarshal(raw, &areas); err != nil {
		return nil
	}
	out := areas[:0]
	for _, a := range areas {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// RenderResult captures the output of the renderer.
type RenderResult struct {
	HTML   string
	PDF    []byte
	Length int64
}
