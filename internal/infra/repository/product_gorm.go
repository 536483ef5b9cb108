package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wbparser/internal/domain/model"
	"wbparser/internal/logging"
	repo "wbparser/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db     *gorm.DB
	logger logging.Logger
	now    func() time.Time
}

// DI
func NewProductGormRepository(db *gorm.DB, logger logging.Logger) *ProductGormRepository {
	return &ProductGormRepository{db: db, logger: logger, now: time.Now}
}

// created_at / updated_at の時刻を差し替える（テスト用）
func (r *ProductGormRepository) WithClock(now func() time.Time) *ProductGormRepository {
	r.now = now
	return r
}

// product_id（WBのID）で1件取得
func (r *ProductGormRepository) FindByProductID(ctx context.Context, productID string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		r.logger.Errorf("find product %s: %v", productID, err)
		return model.Product{}, err
	}
	return p, nil
}

// 無ければ作成、あれば可変項目を更新。1件ごとにcommitする。
func (r *ProductGormRepository) CreateOrUpdate(ctx context.Context, in model.ParsedProduct) (model.Product, error) {
	if err := validateParsed(in); err != nil {
		r.logger.Warnf("skip product %q: %v", in.ProductID, err)
		return model.Product{}, err
	}

	productID := strings.TrimSpace(in.ProductID)
	var saved model.Product

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ?", productID).
			Limit(1).
			Find(&existing)
		if res.Error != nil {
			return res.Error
		}

		now := r.now()

		//新規作成
		if res.RowsAffected == 0 {
			saved = model.Product{
				ID:            uuid.New(),
				ProductID:     productID,
				ProductName:   in.ProductName,
				Price:         in.Price,
				DiscountPrice: in.DiscountPrice,
				Rating:        in.Rating,
				ReviewsCount:  in.ReviewsCount,
				ProductURL:    in.ProductURL,
				Category:      in.Category,
				SearchQuery:   in.SearchQuery,
				CreatedAt:     now,
			}
			return tx.Create(&saved).Error
		}

		//更新（id / created_at は触らない）
		upd := tx.Model(&model.Product{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"product_name":   in.ProductName,
			"price":          in.Price,
			"discount_price": in.DiscountPrice,
			"rating":         in.Rating,
			"reviews_count":  in.ReviewsCount,
			"product_url":    in.ProductURL,
			"category":       in.Category,
			"search_query":   in.SearchQuery,
			"updated_at":     now,
		})
		if upd.Error != nil {
			return upd.Error
		}

		existing.ProductName = in.ProductName
		existing.Price = in.Price
		existing.DiscountPrice = in.DiscountPrice
		existing.Rating = in.Rating
		existing.ReviewsCount = in.ReviewsCount
		existing.ProductURL = in.ProductURL
		existing.Category = in.Category
		existing.SearchQuery = in.SearchQuery
		existing.UpdatedAt = &now
		saved = existing
		return nil
	})
	if err != nil {
		r.logger.Errorf("save product %s: %v", productID, err)
		return model.Product{}, fmt.Errorf("save product %s: %w", productID, err)
	}

	return saved, nil
}

// 名前の部分一致 + 任意の条件をANDで絞り込む。件数制限はSQL側で行う。
func (r *ProductGormRepository) FindByFilters(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	var products []model.Product

	if err := r.filtered(r.db.WithContext(ctx), f).Find(&products).Error; err != nil {
		r.logger.Errorf("filter products: %v", err)
		return nil, err
	}
	return products, nil
}

func (r *ProductGormRepository) filtered(tx *gorm.DB, f repo.ProductFilter) *gorm.DB {
	tx = tx.Model(&model.Product{}).
		Where("product_name ILIKE ?", "%"+strings.TrimSpace(f.Query)+"%")

	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		tx = tx.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		tx = tx.Where("rating >= ?", *f.MinRating)
	}
	if f.MinReviewsCount != nil {
		tx = tx.Where("reviews_count >= ?", *f.MinReviewsCount)
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	return tx
}

func (r *ProductGormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func validateParsed(p model.ParsedProduct) error {
	switch {
	case strings.TrimSpace(p.ProductID) == "":
		return &repo.ValidationError{Field: "product_id", Reason: "is required"}
	case strings.TrimSpace(p.ProductName) == "":
		return &repo.ValidationError{Field: "product_name", Reason: "is required"}
	case strings.TrimSpace(p.ProductURL) == "":
		return &repo.ValidationError{Field: "product_url", Reason: "is required"}
	case p.Price.IsNegative():
		return &repo.ValidationError{Field: "price", Reason: "must be >= 0"}
	case p.Rating < 0:
		return &repo.ValidationError{Field: "rating", Reason: "must be >= 0"}
	case p.ReviewsCount < 0:
		return &repo.ValidationError{Field: "reviews_count", Reason: "must be >= 0"}
	}
	return nil
}
