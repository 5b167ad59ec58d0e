package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"realtor-site/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propertyRowColumns = []string{
	"id", "status", "address", "city", "province", "postal_code",
	"property_type", "price", "bedrooms", "bathrooms", "square_feet",
	"year_built", "features", "media", "hero_image", "description",
	"listing_date", "created_at", "updated_at",
}

func setupPropertiesRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresPropertiesRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresPropertiesRepository(db)
}

func propertyRow(id string, listed time.Time, hero any, media string) []driver.Value {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "active", "1 Bloor St", "Toronto", "ON", "M4W1A8",
		"condo", int64(1500000), "3+1", 2, 1800,
		2015, `["Pool"]`, media, hero, "Corner suite",
		listed, now, now,
	}
}

func TestSearchProperties_GroupsImagesPerProperty(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	newer := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(append(append([]string{}, propertyRowColumns...), "url")).
		AddRow(append(propertyRow("p1", newer, nil, `[]`), "https://img/1a.jpg")...).
		AddRow(append(propertyRow("p1", newer, nil, `[]`), "https://img/1b.jpg")...).
		AddRow(append(propertyRow("p2", older, "https://img/hero2.jpg", `["https://img/2a.jpg"]`), "https://img/2a.jpg")...).
		AddRow(append(propertyRow("p3", older, nil, `[]`), nil)...)

	mock.ExpectQuery(`WITH matched AS`).
		WithArgs("Toronto", 10).
		WillReturnRows(rows)

	out, err := repo.SearchProperties(context.Background(), PropertySearch{City: "Toronto", Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, []string{"https://img/1a.jpg", "https://img/1b.jpg"}, out[0].Media)
	require.NotNil(t, out[0].HeroImage)
	assert.Equal(t, "https://img/1a.jpg", *out[0].HeroImage)
	assert.Equal(t, []string{"Pool"}, out[0].Features)
	assert.Equal(t, "3+1", out[0].Bedrooms)
	require.NotNil(t, out[0].Bathrooms)
	assert.Equal(t, 2, *out[0].Bathrooms)

	// Media already holding the image URL is not duplicated.
	assert.Equal(t, []string{"https://img/2a.jpg"}, out[1].Media)
	assert.Equal(t, "https://img/hero2.jpg", *out[1].HeroImage)

	assert.Empty(t, out[2].Media)
	assert.Nil(t, out[2].HeroImage)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchProperties_QueryError(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	mock.ExpectQuery(`WITH matched AS`).WillReturnError(errors.New("connection reset"))

	_, err := repo.SearchProperties(context.Background(), PropertySearch{Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetProperty_NotFound(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM properties p WHERE p.id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(propertyRowColumns))

	_, err := repo.GetProperty(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProperty_MergesImages(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	listed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM properties p WHERE p.id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(propertyRowColumns).AddRow(propertyRow("p1", listed, nil, `["https://img/a.jpg"]`)...))
	mock.ExpectQuery(`SELECT url FROM property_images`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"url"}).AddRow("https://img/a.jpg").AddRow("https://img/b.jpg"))

	p, err := repo.GetProperty(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, p.Media)
	assert.Equal(t, "https://img/a.jpg", *p.HeroImage)
	assert.Equal(t, listed, *p.ListingDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProperties_ExcludesArchivedByDefault(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties p WHERE p.status <> 'archived' AND \(p.address ILIKE \$1`).
		WithArgs("%bloor%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs("%bloor%", 20, 0).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns).AddRow(propertyRow("p1", time.Now(), nil, `[]`)...))

	out, total, err := repo.ListProperties(context.Background(), PropertiesFilter{Search: "bloor"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, out, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProperty(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	now := time.Now().UTC()
	baths := 3
	p := &domain.Property{
		ID: "p9", Status: domain.StatusComingSoon, Address: "9 Main St", City: "Oakville", Province: "ON",
		PropertyType: domain.TypeDetached, Price: 3200000, Bedrooms: "5", Bathrooms: &baths,
	}

	mock.ExpectQuery(`INSERT INTO properties`).
		WithArgs("p9", "coming_soon", "9 Main St", "Oakville", "ON", "", "detached",
			int64(3200000), "5", 3, nil, nil, []byte(`[]`), []byte(`[]`), nil, "", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.CreateProperty(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProperty_NotFound(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE properties SET`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.UpdateProperty(context.Background(), &domain.Property{ID: "gone", Status: domain.StatusSold, PropertyType: domain.TypeCondo})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveProperty(t *testing.T) {
	db, mock, repo := setupPropertiesRepo(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE properties SET status = 'archived'`).
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ArchiveProperty(context.Background(), "p1"))

	mock.ExpectExec(`UPDATE properties SET status = 'archived'`).
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.ArchiveProperty(context.Background(), "p1"), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
