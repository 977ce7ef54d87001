package claims

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads claim records and writes back generated artifact paths.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository wrapper.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetClaim loads the claim row joined to the submitting user's contact
// fields, plus its attached documents and the parsed damage-area list.
func (r *Repository) GetClaim(ctx context.Context, id int64) (Claim, error) {
	if r == nil || r.pool == nil {
		return Claim{}, fmt.Errorf("claims: repository not initialised")
	}
	const query = `SELECT
    c.id,
    COALESCE(c.claim_number,''),
    c.user_id,
    COALESCE(u.name,''),
    COALESCE(u.email,''),
    COALESCE(u.phone,''),
    COALESCE(c.make,''),
    COALESCE(c.model,''),
    COALESCE(c.year,''),
    COALESCE(c.registration_number,''),
    COALESCE(c.chassis_number,''),
    COALESCE(c.insurer,''),
    COALESCE(c.policy_number,''),
    c.policy_valid_from,
    c.policy_valid_to,
    COALESCE(c.insured_value,0),
    COALESCE(c.incident_type,''),
    c.incident_date,
    COALESCE(c.incident_location,''),
    COALESCE(c.incident_description,''),
    COALESCE(c.estimated_damage,0),
    c.damage_areas,
    COALESCE(c.status,''),
    COALESCE(c.review_notes,''),
    COALESCE(c.reviewed_by,''),
    c.reviewed_at,
    COALESCE(c.report_path,''),
    c.report_generated_at
FROM insurance_claims c
JOIN users u ON u.id = c.user_id
WHERE c.id = $1`

	var (
		claim    Claim
		status   string
		rawAreas []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&claim.ID,
		&claim.ClaimNumber,
		&claim.UserID,
		&claim.ClaimantName,
		&claim.ClaimantEmail,
		&claim.ClaimantPhone,
		&claim.Make,
		&claim.Model,
		&claim.Year,
		&claim.RegistrationNumber,
		&claim.ChassisNumber,
		&claim.Insurer,
		&claim.PolicyNumber,
		&claim.PolicyValidFrom,
		&claim.PolicyValidTo,
		&claim.InsuredValue,
		&claim.IncidentType,
		&claim.IncidentDate,
		&claim.IncidentLocation,
		&claim.IncidentDescription,
		&claim.EstimatedDamage,
		&rawAreas,
		&status,
		&claim.ReviewNotes,
		&claim.ReviewedBy,
		&claim.ReviewedAt,
		&claim.ReportPath,
		&claim.ReportGeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Claim{}, ErrClaimNotFound
		}
		return Claim{}, fmt.Errorf("claims: load record %d: %w", id, err)
	}
	claim.Status = ParseStatus(status)
	claim.DamageAreas = ParseDamageAreas(rawAreas)

	if claim.Documents, err = r.loadDocuments(ctx, id); err != nil {
		return Claim{}, err
	}
	return claim, nil
}

func (r *Repository) loadDocuments(ctx context.Context, id int64) ([]Document, error) {
	const query = `SELECT COALESCE(file_name,''), COALESCE(stored_path,''), COALESCE(doc_type,'')
FROM claim_documents
WHERE claim_id = $1
ORDER BY id`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("claims: load documents: %w", err)
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.FileName, &doc.Path, &doc.Type); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateReportPath records the generated artifact on the claim row.
func (r *Repository) UpdateReportPath(ctx context.Context, id int64, path string, generatedAt time.Time) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("claims: repository not initialised")
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE insurance_claims SET report_path = $2, report_generated_at = $3, updated_at = now() WHERE id = $1`,
		id, path, generatedAt)
	if err != nil {
		return fmt.Errorf("claims: update report path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClaimNotFound
	}
	return nil
}
