package catalog

import (
	"context"
	"testing"
	"time"

	"autovia-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedListing(t *testing.T, db *gorm.DB, title string, price int64, year int, city string, age time.Duration) domain.Listing {
	t.Helper()
	l := domain.Listing{
		Title:     title,
		Price:     price,
		Year:      year,
		Mileage:   50000,
		City:      city,
		Slug:      title + "-seed",
		CreatedAt: time.Now().Add(-age),
	}
	require.NoError(t, db.Create(&l).Error)
	return l
}

func seedFilterData(t *testing.T, svc *Service) (old, mid, newest domain.Listing) {
	t.Helper()
	old = seedListing(t, svc.DB, "nissan-versa", 90000, 2015, domain.CityCDMX, 3*time.Hour)
	mid = seedListing(t, svc.DB, "mazda-3", 158000, 2017, domain.CityCDMX, 2*time.Hour)
	newest = seedListing(t, svc.DB, "audi-a4", 250000, 2020, domain.CityCDMX, 1*time.Hour)
	return old, mid, newest
}

func TestSearch_NoCriteriaReturnsAllNewestFirst(t *testing.T) {
	svc, _, _ := setupService(t)
	old, mid, newest := seedFilterData(t, svc)

	got, err := svc.Search(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, newest.ID, got[0].ID)
	assert.Equal(t, mid.ID, got[1].ID)
	assert.Equal(t, old.ID, got[2].ID)
}

func TestSearch_PriceRangeAndCity(t *testing.T) {
	svc, _, _ := setupService(t)
	_, mid, _ := seedFilterData(t, svc)

	lo, hi := int64(100000), int64(200000)
	got, err := svc.Search(context.Background(), Filter{MinPrice: &lo, MaxPrice: &hi, City: domain.CityCDMX})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mid.ID, got[0].ID)
	assert.EqualValues(t, 158000, got[0].Price)
}

func TestSearch_TermMatchesTitleAndDescription(t *testing.T) {
	svc, _, _ := setupService(t)
	l := seedListing(t, svc.DB, "honda-civic", 180000, 2019, domain.CityGuadalajara, time.Hour)
	require.NoError(t, svc.DB.Model(&l).Update("description", "Un solo dueño, Factura Original").Error)
	seedListing(t, svc.DB, "chevrolet-aveo", 95000, 2016, domain.CityGuadalajara, 2*time.Hour)

	got, err := svc.Search(context.Background(), Filter{Term: "CIVIC"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, l.ID, got[0].ID)

	got, err = svc.Search(context.Background(), Filter{Term: "solo dueño"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, l.ID, got[0].ID)
}

func TestSearch_InvalidCityIsDroppedNotAnError(t *testing.T) {
	svc, _, _ := setupService(t)
	seedFilterData(t, svc)

	got, err := svc.Search(context.Background(), Filter{City: "Monterrey"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearch_YearIsExactMatch(t *testing.T) {
	svc, _, _ := setupService(t)
	_, mid, _ := seedFilterData(t, svc)

	year := 2017
	got, err := svc.Search(context.Background(), Filter{Year: &year})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mid.ID, got[0].ID)

	// Not "at least this year": 2016 matches nothing seeded.
	year = 2016
	got, err = svc.Search(context.Background(), Filter{Year: &year})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_SoldFlag(t *testing.T) {
	svc, _, _ := setupService(t)
	_, mid, _ := seedFilterData(t, svc)
	require.NoError(t, svc.DB.Model(&mid).Update("is_sold", true).Error)

	sold := true
	got, err := svc.Search(context.Background(), Filter{Sold: &sold})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mid.ID, got[0].ID)

	// Absent criterion returns both sold and unsold.
	got, err = svc.Search(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearch_RepuveStatus(t *testing.T) {
	svc, _, _ := setupService(t)
	old, _, _ := seedFilterData(t, svc)
	require.NoError(t, svc.DB.Model(&old).Update("repuve_status", domain.RepuveReported).Error)

	got, err := svc.Search(context.Background(), Filter{RepuveStatus: domain.RepuveReported})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, old.ID, got[0].ID)
}

func TestSearch_LimitCapsRowCount(t *testing.T) {
	svc, _, _ := setupService(t)
	_, _, newest := seedFilterData(t, svc)

	got, err := svc.Search(context.Background(), Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newest.ID, got[0].ID)
}
