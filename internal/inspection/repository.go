package inspection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads PDI records and the checklist template, and writes back
// generated artifact paths. All relations resolve eagerly; layout code never
// touches the data store.
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository constructs a repository wrapper.
func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *Repository {
	return &Repository{pool: pool, logger: logger}
}

// GetInspection loads the inspection row plus checklist responses, leakage
// responses, ordered images, and the parsed damage markers.
func (r *Repository) GetInspection(ctx context.Context, id int64) (Inspection, error) {
	if r == nil || r.pool == nil {
		return Inspection{}, fmt.Errorf("inspection: repository not initialised")
	}
	const query = `SELECT
    i.id,
    i.customer_user_id,
    COALESCE(i.make,''),
    COALESCE(i.model,''),
    COALESCE(i.color,''),
    COALESCE(i.year,''),
    COALESCE(i.vin,''),
    COALESCE(i.engine_number,''),
    COALESCE(i.odometer,''),
    COALESCE(i.customer_name,''),
    COALESCE(i.customer_email,''),
    COALESCE(i.customer_phone,''),
    i.inspection_date,
    COALESCE(i.inspector_name,''),
    COALESCE(i.admin_comments,''),
    COALESCE(i.status,''),
    COALESCE(i.report_path,''),
    i.report_generated_at,
    i.damage_markers
FROM pdi_inspections i
WHERE i.id = $1`

	var (
		insp       Inspection
		status     string
		rawMarkers []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&insp.ID,
		&insp.CustomerUserID,
		&insp.Make,
		&insp.Model,
		&insp.Color,
		&insp.Year,
		&insp.VIN,
		&insp.EngineNumber,
		&insp.Odometer,
		&insp.CustomerName,
		&insp.CustomerEmail,
		&insp.CustomerPhone,
		&insp.InspectionDate,
		&insp.Inspector,
		&insp.Comments,
		&status,
		&insp.ReportPath,
		&insp.ReportGeneratedAt,
		&rawMarkers,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Inspection{}, ErrInspectionNotFound
		}
		return Inspection{}, fmt.Errorf("inspection: load record %d: %w", id, err)
	}
	insp.Status = InspectionStatus(status)

	markers, err := ParseDamageMarkers(rawMarkers)
	if err != nil {
		// A corrupt blob loses its markers, not the whole report.
		if r.logger != nil {
			r.logger.Warn("damage marker blob unreadable", slog.Int64("inspection_id", id), slog.Any("error", err))
		}
	}
	insp.Markers = markers

	if insp.Responses, err = r.loadResponses(ctx, id); err != nil {
		return Inspection{}, err
	}
	if insp.Leakages, err = r.loadLeakages(ctx, id); err != nil {
		return Inspection{}, err
	}
	if insp.Images, err = r.loadImages(ctx, id); err != nil {
		return Inspection{}, err
	}
	return insp, nil
}

func (r *Repository) loadResponses(ctx context.Context, id int64) ([]ChecklistResponse, error) {
	const query = `SELECT cr.item_id, COALESCE(cr.status,''), COALESCE(cr.notes,'')
FROM pdi_checklist_responses cr
JOIN checklist_items ci ON ci.id = cr.item_id
JOIN checklist_sections cs ON cs.id = ci.section_id
WHERE cr.inspection_id = $1
ORDER BY cs.display_order, ci.display_order`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("inspection: load responses: %w", err)
	}
	defer rows.Close()
	var out []ChecklistResponse
	for rows.Next() {
		var resp ChecklistResponse
		var status string
		if err := rows.Scan(&resp.ItemID, &status, &resp.Notes); err != nil {
			return nil, err
		}
		resp.Status = ParseResponseStatus(status)
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *Repository) loadLeakages(ctx context.Context, id int64) ([]LeakageResponse, error) {
	const query = `SELECT lr.item_id, lr.found, COALESCE(lr.notes,'')
FROM pdi_leakage_responses lr
JOIN leakage_items li ON li.id = lr.item_id
WHERE lr.inspection_id = $1
ORDER BY li.display_order`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("inspection: load leakage responses: %w", err)
	}
	defer rows.Close()
	var out []LeakageResponse
	for rows.Next() {
		var resp LeakageResponse
		if err := rows.Scan(&resp.ItemID, &resp.Found, &resp.Notes); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *Repository) loadImages(ctx context.Context, id int64) ([]Image, error) {
	const query = `SELECT COALESCE(category,''), COALESCE(file_path,''), COALESCE(position,0)
FROM pdi_images
WHERE inspection_id = $1
ORDER BY position, id`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("inspection: load images: %w", err)
	}
	defer rows.Close()
	var out []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Category, &img.Path, &img.Position); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// GetTemplate loads the full checklist taxonomy in defined order.
func (r *Repository) GetTemplate(ctx context.Context) (Template, error) {
	if r == nil || r.pool == nil {
		return Template{}, fmt.Errorf("inspection: repository not initialised")
	}
	const query = `SELECT cs.id, cs.name, cs.display_order, cs.column_hint, ci.id, ci.label, ci.display_order
FROM checklist_sections cs
JOIN checklist_items ci ON ci.section_id = cs.id
ORDER BY cs.display_order, cs.id, ci.display_order, ci.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return Template{}, fmt.Errorf("inspection: load template: %w", err)
	}
	defer rows.Close()

	var tpl Template
	index := make(map[int64]int)
	for rows.Next() {
		var (
			section Section
			item    Item
		)
		if err := rows.Scan(&section.ID, &section.Name, &section.DisplayOrder, &section.ColumnHint, &item.ID, &item.Label, &item.DisplayOrder); err != nil {
			return Template{}, err
		}
		pos, ok := index[section.ID]
		if !ok {
			pos = len(tpl.Sections)
			index[section.ID] = pos
			tpl.Sections = append(tpl.Sections, section)
		}
		tpl.Sections[pos].Items = append(tpl.Sections[pos].Items, item)
	}
	if err := rows.Err(); err != nil {
		return Template{}, err
	}
	if len(tpl.Sections) == 0 {
		return Template{}, ErrTemplateEmpty
	}
	return tpl, nil
}

// ListLeakageItems loads the fixed leakage-check definitions.
func (r *Repository) ListLeakageItems(ctx context.Context) ([]LeakageItem, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("inspection: repository not initialised")
	}
	const query = `SELECT id, label FROM leakage_items ORDER BY display_order, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("inspection: load leakage items: %w", err)
	}
	defer rows.Close()
	var out []LeakageItem
	for rows.Next() {
		var item LeakageItem
		if err := rows.Scan(&item.ID, &item.Label); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpdateReportPath records the generated artifact on the inspection row.
func (r *Repository) UpdateReportPath(ctx context.Context, id int64, path string, generatedAt time.Time) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("inspection: repository not initialised")
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE pdi_inspections SET report_path = $2, report_generated_at = $3, updated_at = now() WHERE id = $1`,
		id, path, generatedAt)
	if err != nil {
		return fmt.Errorf("inspection: update report path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInspectionNotFound
	}
	return nil
}
