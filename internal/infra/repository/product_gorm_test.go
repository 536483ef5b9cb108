package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"wbparser/internal/config"
	"wbparser/internal/domain/model"
	"wbparser/internal/infra/db"
	"wbparser/internal/logging"
	repo "wbparser/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// =====================
// SQL（DryRun：DB不要）
// =====================

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=wbparser sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return gdb
}

func TestProductGorm_FilterSQL_AllConditions(t *testing.T) {
	gdb := dryRunDB(t)
	r := NewProductGormRepository(gdb, logging.Discard())

	minPrice := decimal.NewFromInt(100)
	maxPrice := decimal.NewFromInt(500)
	minRating := 4.0
	minReviews := 10

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []model.Product
		return r.filtered(tx, repo.ProductFilter{
			Query:           "laptop",
			Limit:           5,
			Category:        "electronics",
			MinPrice:        &minPrice,
			MaxPrice:        &maxPrice,
			MinRating:       &minRating,
			MinReviewsCount: &minReviews,
		}).Find(&out)
	})

	assert.Contains(t, sql, `FROM "products"`)
	assert.Contains(t, sql, "product_name ILIKE '%laptop%'")
	assert.Contains(t, sql, "category = 'electronics'")
	assert.Contains(t, sql, "price >= ")
	assert.Contains(t, sql, "price <= ")
	assert.Contains(t, sql, "rating >= 4")
	assert.Contains(t, sql, "reviews_count >= 10")
	assert.Contains(t, sql, "LIMIT 5")
}

// 未指定の条件はSQLに出ない（0も「指定あり」として扱う）
func TestProductGorm_FilterSQL_OnlyQuery(t *testing.T) {
	gdb := dryRunDB(t)
	r := NewProductGormRepository(gdb, logging.Discard())

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []model.Product
		return r.filtered(tx, repo.ProductFilter{Query: "  "}).Find(&out)
	})

	assert.Contains(t, sql, "product_name ILIKE '%%'")
	assert.NotContains(t, sql, "category")
	assert.NotContains(t, sql, "price")
	assert.NotContains(t, sql, "LIMIT")

	zero := 0
	sql = gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []model.Product
		return r.filtered(tx, repo.ProductFilter{MinReviewsCount: &zero}).Find(&out)
	})
	assert.Contains(t, sql, "reviews_count >= 0")
}

func TestProductGorm_CreateOrUpdate_ValidationError(t *testing.T) {
	r := NewProductGormRepository(dryRunDB(t), logging.Discard())

	cases := map[string]model.ParsedProduct{
		"blank id":         {ProductName: "x", ProductURL: "u"},
		"blank name":       {ProductID: "1", ProductURL: "u"},
		"blank url":        {ProductID: "1", ProductName: "x"},
		"negative price":   {ProductID: "1", ProductName: "x", ProductURL: "u", Price: decimal.NewFromInt(-1)},
		"negative rating":  {ProductID: "1", ProductName: "x", ProductURL: "u", Rating: -0.5},
		"negative reviews": {ProductID: "1", ProductName: "x", ProductURL: "u", ReviewsCount: -1},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.CreateOrUpdate(context.Background(), in)
			assert.True(t, errors.Is(err, repo.ErrValidation))

			var ve *repo.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

// =====================
// Postgres（TEST_DATABASE_URLがあるときだけ）
// =====================

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := db.Connect(config.Config{DatabaseURL: dsn, GoEnv: "test"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// テストごとに一意なcategoryで分けて、終わったら消す
func uniqueCategory(t *testing.T, gdb *gorm.DB) string {
	t.Helper()

	category := "test-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		gdb.Where("category = ?", category).Delete(&model.Product{})
	})
	return category
}

func TestProductGorm_CreateOrUpdate_Idempotent(t *testing.T) {
	gdb := integrationDB(t)
	category := uniqueCategory(t, gdb)
	ctx := context.Background()

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewProductGormRepository(gdb, logging.Discard()).WithClock(func() time.Time { return t1 })

	productID := "it-" + uuid.NewString()[:12]
	in := model.ParsedProduct{
		ProductID:    productID,
		ProductName:  "Laptop",
		Price:        decimal.RequireFromString("100.00"),
		Rating:       4.5,
		ReviewsCount: 3,
		ProductURL:   "https://www.wildberries.ru/catalog/1/detail.aspx",
		Category:     category,
		SearchQuery:  "laptop",
	}

	created, err := r.CreateOrUpdate(ctx, in)
	require.NoError(t, err)
	assert.Nil(t, created.UpdatedAt)

	//2回目は同じ行を更新する
	t2 := t1.Add(time.Hour)
	r.WithClock(func() time.Time { return t2 })
	in.Price = decimal.RequireFromString("90.00")
	in.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("80.00"))

	updated, err := r.CreateOrUpdate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	require.NotNil(t, updated.UpdatedAt)

	var count int64
	require.NoError(t, gdb.Model(&model.Product{}).Where("product_id = ?", productID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := r.FindByProductID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "90.00", stored.Price.StringFixed(2))
	require.True(t, stored.DiscountPrice.Valid)
	assert.Equal(t, "80.00", stored.DiscountPrice.Decimal.StringFixed(2))
	assert.True(t, stored.CreatedAt.Equal(t1))
}

func TestProductGorm_FindByFilters_Conjunction(t *testing.T) {
	gdb := integrationDB(t)
	category := uniqueCategory(t, gdb)
	ctx := context.Background()
	r := NewProductGormRepository(gdb, logging.Discard())

	for i, row := range []struct {
		price  string
		rating float64
	}{
		{"50", 3}, {"150", 4.5}, {"300", 5},
	} {
		_, err := r.CreateOrUpdate(ctx, model.ParsedProduct{
			ProductID:   category + "-" + string(rune('a'+i)),
			ProductName: "Filter Laptop",
			Price:       decimal.RequireFromString(row.price),
			Rating:      row.rating,
			ProductURL:  "u",
			Category:    category,
		})
		require.NoError(t, err)
	}

	minPrice := decimal.NewFromInt(100)
	minRating := 4.0
	out, err := r.FindByFilters(ctx, repo.ProductFilter{
		Query:     "filter laptop",
		Limit:     10,
		Category:  category,
		MinPrice:  &minPrice,
		MinRating: &minRating,
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = r.FindByFilters(ctx, repo.ProductFilter{Query: "laptop", Limit: 1, Category: category})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestProductGorm_FindByProductID_NotFound(t *testing.T) {
	gdb := integrationDB(t)
	r := NewProductGormRepository(gdb, logging.Discard())

	_, err := r.FindByProductID(context.Background(), "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
