package database

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/postgres"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
	"github.com/menshealthfinder/clinicfinder/pkg/utils"
)

var clinicColumns = []interface{}{
	"id", "slug", "name", "street", "city", "state", "zip_code",
	"latitude", "longitude", "phone_number", "website", "description",
	"tier", "package", "services", "searchable_terms", "tags",
	"total_clicks", "top_search_terms", "verified", "is_active",
	"created_at", "updated_at",
}

// pageCursor is the keyset position encoded into an opaque cursor string.
// Listings order by (created_at DESC, id ASC), so the cursor carries both.
type pageCursor struct {
	CreatedAt time.Time `json:"created_at"`
	LastID    string    `json:"last_id"`
}

func encodeCursor(c pageCursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(s string) (pageCursor, error) {
	var c pageCursor
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, apperrors.NewValidationError("invalid page cursor")
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, apperrors.NewValidationError("invalid page cursor")
	}
	return c, nil
}

// ClinicAdapter implements the ClinicRepository interface on PostgreSQL
type ClinicAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewClinicAdapter creates a new clinic adapter
func NewClinicAdapter(client *postgres.Client) repositories.ClinicRepository {
	return &ClinicAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new clinic
func (a *ClinicAdapter) Create(ctx context.Context, clinic *entities.Clinic) error {
	record := clinicRecord(clinic)
	record["id"] = clinic.ID
	record["total_clicks"] = clinic.TrafficMeta.TotalClicks
	record["top_search_terms"] = pq.Array(clinic.TrafficMeta.TopSearchTerms)
	record["created_at"] = clinic.CreatedAt

	query, args, err := a.db.Insert("clinics").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create clinic", err)
	}

	return nil
}

// GetByID retrieves a clinic by ID
func (a *ClinicAdapter) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	return a.getByField(ctx, "id", id)
}

// GetBySlug retrieves a clinic by its URL slug
func (a *ClinicAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Clinic, error) {
	return a.getByField(ctx, "slug", slug)
}

func (a *ClinicAdapter) getByField(ctx context.Context, field, value string) (*entities.Clinic, error) {
	query, args, err := a.db.Select(clinicColumns...).
		From("clinics").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	clinic, err := scanClinic(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("clinic with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get clinic", err)
	}

	return clinic, nil
}

// Update updates a clinic
func (a *ClinicAdapter) Update(ctx context.Context, clinic *entities.Clinic) error {
	clinic.UpdatedAt = time.Now()

	query, args, err := a.db.Update("clinics").
		Set(clinicRecord(clinic)).
		Where(goqu.Ex{"id": clinic.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update clinic", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", clinic.ID))
	}

	return nil
}

// Delete deletes a clinic (soft delete)
func (a *ClinicAdapter) Delete(ctx context.Context, id string) error {
	query := `UPDATE clinics SET is_active = false, updated_at = $2 WHERE id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return apperrors.NewInternalError("failed to delete clinic", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", id))
	}

	return nil
}

// FetchPage retrieves one page of clinics matching the query, ordered by
// (created_at DESC, id ASC). It fetches one row beyond pageSize to decide
// whether a further page exists.
func (a *ClinicAdapter) FetchPage(ctx context.Context, filter repositories.ClinicQuery, pageSize int, cursor string) (*repositories.ClinicPage, error) {
	if pageSize <= 0 {
		return nil, apperrors.NewValidationError("page size must be positive")
	}

	ds := a.db.Select(clinicColumns...).From("clinics")

	if filter.ActiveOnly {
		ds = ds.Where(goqu.Ex{"is_active": true})
	}
	if filter.State != "" {
		ds = ds.Where(goqu.Ex{"state": filter.State})
	}
	if filter.City != "" {
		ds = ds.Where(goqu.Ex{"city": filter.City})
	}
	if filter.Tier != "" {
		ds = ds.Where(goqu.Ex{"tier": utils.NormalizeTier(filter.Tier)})
	}
	if filter.VerifiedOnly {
		ds = ds.Where(goqu.Ex{"verified": true})
	}
	if len(filter.Services) > 0 {
		services := filter.Services
		if len(services) > repositories.MaxServiceFilterValues {
			services = services[:repositories.MaxServiceFilterValues]
		}
		ds = ds.Where(goqu.L("services && ?", pq.Array(services)))
	}

	if cursor != "" {
		pos, err := decodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		ds = ds.Where(goqu.Or(
			goqu.C("created_at").Lt(pos.CreatedAt),
			goqu.And(
				goqu.C("created_at").Eq(pos.CreatedAt),
				goqu.C("id").Gt(pos.LastID),
			),
		))
	}

	ds = ds.Order(goqu.C("created_at").Desc(), goqu.C("id").Asc()).
		Limit(uint(pageSize) + 1)

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build page query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to fetch clinics", err)
	}
	defer rows.Close()

	clinics := []*entities.Clinic{}
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan clinic", err)
		}
		clinics = append(clinics, clinic)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating clinics", err)
	}

	page := &repositories.ClinicPage{Clinics: clinics}
	if len(clinics) > pageSize {
		page.Clinics = clinics[:pageSize]
		page.HasMore = true
		last := page.Clinics[pageSize-1]
		page.NextCursor = encodeCursor(pageCursor{
			CreatedAt: last.CreatedAt,
			LastID:    last.ID,
		})
	}

	return page, nil
}

// IncrementClicks atomically bumps a clinic's click counter and records the
// search term that led to the click, all inside one row-locked transaction.
func (a *ClinicAdapter) IncrementClicks(ctx context.Context, id, searchTerm string) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var totalClicks int64
	var topTerms pq.StringArray

	err = tx.QueryRowContext(ctx,
		`SELECT total_clicks, top_search_terms FROM clinics WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&totalClicks, &topTerms)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("clinic with id %s not found", id))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to lock clinic row", err)
	}

	traffic := entities.TrafficMeta{
		TotalClicks:    totalClicks + 1,
		TopSearchTerms: []string(topTerms),
	}
	traffic.RecordSearchTerm(searchTerm)

	_, err = tx.ExecContext(ctx,
		`UPDATE clinics SET total_clicks = $2, top_search_terms = $3, updated_at = $4 WHERE id = $1`,
		id,
		traffic.TotalClicks,
		pq.Array(traffic.TopSearchTerms),
		time.Now(),
	)
	if err != nil {
		return apperrors.NewInternalError("failed to update clinic clicks", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit click update", err)
	}

	return nil
}

// clinicRecord builds the column set shared by inserts and updates.
func clinicRecord(clinic *entities.Clinic) goqu.Record {
	return goqu.Record{
		"slug":             clinic.Slug,
		"name":             clinic.Name,
		"street":           clinic.Address.Street,
		"city":             clinic.Address.City,
		"state":            clinic.Address.State,
		"zip_code":         clinic.Address.ZipCode,
		"latitude":         nullFloat(clinic.Location.Latitude, clinic.HasCoordinates()),
		"longitude":        nullFloat(clinic.Location.Longitude, clinic.HasCoordinates()),
		"phone_number":     sql.NullString{String: clinic.PhoneNumber, Valid: clinic.PhoneNumber != ""},
		"website":          sql.NullString{String: clinic.Website, Valid: clinic.Website != ""},
		"description":      sql.NullString{String: clinic.Description, Valid: clinic.Description != ""},
		"tier":             utils.NormalizeTier(clinic.Tier),
		"package":          sql.NullString{},
		"services":         pq.Array(clinic.Services),
		"searchable_terms": pq.Array(clinic.SearchableTerms),
		"tags":             pq.Array(clinic.Tags),
		"verified":         clinic.Verified,
		"is_active":        clinic.IsActive,
		"updated_at":       clinic.UpdatedAt,
	}
}

func nullFloat(v float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: valid}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanClinic maps one database row onto a Clinic. Listing tiers may arrive
// through the legacy package column, so both are read and resolved.
func scanClinic(row rowScanner) (*entities.Clinic, error) {
	clinic := &entities.Clinic{}
	var (
		lat, lng             sql.NullFloat64
		phone, website, desc sql.NullString
		tier, legacyPackage  sql.NullString
		services             pq.StringArray
		searchableTerms      pq.StringArray
		tags                 pq.StringArray
		topTerms             pq.StringArray
	)

	err := row.Scan(
		&clinic.ID,
		&clinic.Slug,
		&clinic.Name,
		&clinic.Address.Street,
		&clinic.Address.City,
		&clinic.Address.State,
		&clinic.Address.ZipCode,
		&lat,
		&lng,
		&phone,
		&website,
		&desc,
		&tier,
		&legacyPackage,
		&services,
		&searchableTerms,
		&tags,
		&clinic.TrafficMeta.TotalClicks,
		&topTerms,
		&clinic.Verified,
		&clinic.IsActive,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		clinic.Location.Latitude = lat.Float64
		clinic.Location.Longitude = lng.Float64
	}
	clinic.PhoneNumber = phone.String
	clinic.Website = website.String
	clinic.Description = desc.String
	clinic.Tier = utils.ResolveTier(tier.String, legacyPackage.String)
	clinic.Services = []string(services)
	clinic.SearchableTerms = []string(searchableTerms)
	clinic.Tags = []string(tags)
	clinic.TrafficMeta.TopSearchTerms = []string(topTerms)

	return clinic, nil
}
