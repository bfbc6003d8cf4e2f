package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/postgres"
	apperrors "github.com/menshealthfinder/clinicfinder/pkg/errors"
	"github.com/menshealthfinder/clinicfinder/pkg/utils"
)

func setupMockAdapter(t *testing.T) (*ClinicAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := postgres.NewClientWithDB(db)
	return NewClinicAdapter(client).(*ClinicAdapter), mock
}

var clinicColumnNames = []string{
	"id", "slug", "name", "street", "city", "state", "zip_code",
	"latitude", "longitude", "phone_number", "website", "description",
	"tier", "package", "services", "searchable_terms", "tags",
	"total_clicks", "top_search_terms", "verified", "is_active",
	"created_at", "updated_at",
}

func clinicRow(id, tier, legacyPackage string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(clinicColumnNames).AddRow(
		id, "test-clinic-austin-tx", "Test Clinic", "100 Main St", "Austin", "TX", "78701",
		30.2672, -97.7431, "+15125550100", "https://example.com", "A men's health clinic",
		tier, legacyPackage, "{TRT,\"ED Treatment\"}", "{trt,ed}", "{}",
		int64(12), "{trt}", true, true,
		createdAt, createdAt,
	)
}

func TestClinicAdapter_GetByID(t *testing.T) {
	adapter, mock := setupMockAdapter(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "clinics"`).
		WillReturnRows(clinicRow("clinic-1", "advanced", "", now))

	clinic, err := adapter.GetByID(context.Background(), "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, "clinic-1", clinic.ID)
	assert.Equal(t, "Austin", clinic.Address.City)
	assert.Equal(t, utils.TierAdvanced, clinic.Tier)
	assert.Equal(t, []string{"TRT", "ED Treatment"}, clinic.Services)
	assert.Equal(t, int64(12), clinic.TrafficMeta.TotalClicks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicAdapter_GetByID_NotFound(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	mock.ExpectQuery(`SELECT (.+) FROM "clinics"`).
		WillReturnRows(sqlmock.NewRows(clinicColumnNames))

	clinic, err := adapter.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, clinic)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestClinicAdapter_GetByID_ResolvesLegacyPackage(t *testing.T) {
	adapter, mock := setupMockAdapter(t)
	now := time.Now()

	// Older rows carry the listing level in the package column only.
	mock.ExpectQuery(`SELECT (.+) FROM "clinics"`).
		WillReturnRows(clinicRow("clinic-2", "", "premium", now))

	clinic, err := adapter.GetByID(context.Background(), "clinic-2")
	require.NoError(t, err)
	assert.Equal(t, utils.TierAdvanced, clinic.Tier)
}

func TestClinicAdapter_FetchPage(t *testing.T) {
	t.Run("returns full page with cursor when more rows exist", func(t *testing.T) {
		adapter, mock := setupMockAdapter(t)
		base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		// Three rows returned for pageSize 2 means a further page exists.
		rows := sqlmock.NewRows(clinicColumnNames)
		for i, id := range []string{"c-1", "c-2", "c-3"} {
			created := base.Add(-time.Duration(i) * time.Hour)
			rows.AddRow(
				id, "slug-"+id, "Clinic "+id, "1 St", "Austin", "TX", "78701",
				30.0, -97.0, "", "", "",
				"free", "", "{}", "{}", "{}",
				int64(0), "{}", false, true,
				created, created,
			)
		}
		mock.ExpectQuery(`SELECT (.+) FROM "clinics"`).WillReturnRows(rows)

		page, err := adapter.FetchPage(context.Background(), repositories.ClinicQuery{ActiveOnly: true}, 2, "")
		require.NoError(t, err)
		assert.Len(t, page.Clinics, 2)
		assert.True(t, page.HasMore)
		assert.NotEmpty(t, page.NextCursor)

		// The cursor decodes back to the last returned row's position.
		pos, err := decodeCursor(page.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, "c-2", pos.LastID)
	})

	t.Run("returns partial page without cursor", func(t *testing.T) {
		adapter, mock := setupMockAdapter(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM "clinics"`).
			WillReturnRows(clinicRow("only-one", "free", "", now))

		page, err := adapter.FetchPage(context.Background(), repositories.ClinicQuery{}, 10, "")
		require.NoError(t, err)
		assert.Len(t, page.Clinics, 1)
		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("rejects malformed cursor", func(t *testing.T) {
		adapter, _ := setupMockAdapter(t)

		_, err := adapter.FetchPage(context.Background(), repositories.ClinicQuery{}, 10, "not a cursor!!")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects non-positive page size", func(t *testing.T) {
		adapter, _ := setupMockAdapter(t)

		_, err := adapter.FetchPage(context.Background(), repositories.ClinicQuery{}, 0, "")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestClinicAdapter_IncrementClicks(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT total_clicks, top_search_terms FROM clinics WHERE id = \$1 FOR UPDATE`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"total_clicks", "top_search_terms"}).
			AddRow(int64(7), "{trt,\"ed treatment\"}"))
	mock.ExpectExec(`UPDATE clinics SET total_clicks = \$2, top_search_terms = \$3, updated_at = \$4 WHERE id = \$1`).
		WithArgs("clinic-1", int64(8), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := adapter.IncrementClicks(context.Background(), "clinic-1", "bpc-157")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicAdapter_IncrementClicks_NotFound(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT total_clicks, top_search_terms FROM clinics WHERE id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"total_clicks", "top_search_terms"}))
	mock.ExpectRollback()

	err := adapter.IncrementClicks(context.Background(), "missing", "trt")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestClinicAdapter_Delete_NotFound(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	mock.ExpectExec(`UPDATE clinics SET is_active = false`).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestCursorRoundTrip(t *testing.T) {
	pos := pageCursor{
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		LastID:    "clinic-42",
	}

	decoded, err := decodeCursor(encodeCursor(pos))
	require.NoError(t, err)
	assert.True(t, pos.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, pos.LastID, decoded.LastID)
}
