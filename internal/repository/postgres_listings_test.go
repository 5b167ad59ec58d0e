package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"realtor-site/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingRowColumns = []string{
	"listing_key", "unparsed_address", "street_number", "street_name",
	"street_suffix", "unit_number", "formatted_address", "address_standardized",
	"city", "state_or_province", "postal_code", "property_type",
	"bedrooms_total", "bathrooms_total_integer", "living_area", "list_price",
	"public_remarks", "standard_status", "list_date", "latitude", "longitude",
}

var mediaRowColumns = []string{"media_key", "listing_key", "media_url", "is_preferred", "display_order"}

func setupListingsRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresListingsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresListingsRepository(db)
}

func listingRow(key string, listed any) []driver.Value {
	return []driver.Value{
		key, "123 Queen St W, Toronto", "123", "Queen", "St", "", "", false,
		"Toronto", "ON", "M5H 2M9", "Condo Apartment",
		2, 2, nil, "1250000",
		"Bright unit", "Active", listed, 43.65, -79.38,
	}
}

func TestSearchListings_FetchesMediaInOneQuery(t *testing.T) {
	db, mock, repo := setupListingsRepo(t)
	defer db.Close()

	listed := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM mls_listings l WHERE l.standard_status = 'Active'`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(listingRowColumns).
			AddRow(listingRow("X1", listed)...).
			AddRow(listingRow("X2", nil)...))
	mock.ExpectQuery(`FROM mls_media\s+WHERE listing_key = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(mediaRowColumns).
			AddRow("m1", "X1", "https://cdn/x1-a.jpg", false, 0).
			AddRow("m2", "X1", "https://cdn/x1-b.jpg", true, 1))

	listings, media, err := repo.SearchListings(context.Background(), PropertySearch{Limit: 3})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "X1", listings[0].ListingKey)
	assert.Equal(t, "1250000", listings[0].ListPrice)
	require.NotNil(t, listings[0].BedroomsTotal)
	assert.Equal(t, 2, *listings[0].BedroomsTotal)
	assert.Nil(t, listings[0].LivingArea)
	assert.Equal(t, listed, *listings[0].ListDate)
	assert.Nil(t, listings[1].ListDate)

	require.Len(t, media["X1"], 2)
	assert.True(t, media["X1"][1].IsPreferred)
	assert.Empty(t, media["X2"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchListings_EmptySkipsMediaQuery(t *testing.T) {
	db, mock, repo := setupListingsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM mls_listings l`).
		WillReturnRows(sqlmock.NewRows(listingRowColumns))

	listings, media, err := repo.SearchListings(context.Background(), PropertySearch{Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Empty(t, media)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetListing_NotFound(t *testing.T) {
	db, mock, repo := setupListingsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE l.listing_key = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(listingRowColumns))

	_, _, err := repo.GetListing(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAddresses_CountThenPage(t *testing.T) {
	db, mock, repo := setupListingsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM mls_listings l WHERE`).
		WithArgs("123%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs("123%", 20, 20).
		WillReturnRows(sqlmock.NewRows(listingRowColumns).AddRow(listingRow("X1", nil)...))

	out, total, err := repo.SearchAddresses(context.Background(), AddressQuery{
		Query: "123", SearchType: AddressPrefix, Limit: 20, Offset: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 41, total)
	assert.Len(t, out, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestValues(t *testing.T) {
	db, mock, repo := setupListingsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT l.city, COUNT\(\*\)`).
		WithArgs("%tor%", 5).
		WillReturnRows(sqlmock.NewRows([]string{"city", "count"}).
			AddRow("Toronto", 120).
			AddRow("East York (Toronto)", 4))

	out, err := repo.SuggestValues(context.Background(), domain.SuggestionCity, "tor", 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.Suggestion{
		{Type: domain.SuggestionCity, Value: "Toronto", Count: 120},
		{Type: domain.SuggestionCity, Value: "East York (Toronto)", Count: 4},
	}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestValues_UnknownType(t *testing.T) {
	db, _, repo := setupListingsRepo(t)
	defer db.Close()

	_, err := repo.SuggestValues(context.Background(), domain.SuggestionType("price"), "1", 5)
	assert.Error(t, err)
}
