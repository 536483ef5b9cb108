package usecase

import (
	"context"
	"net/http"
	"strings"

	"wbparser/internal/domain/model"
	"wbparser/internal/logging"
	repo "wbparser/internal/repository"

	"github.com/shopspring/decimal"
)

// 入力チェックの約束（実装はvalidatorパッケージ）
type ProductValidator interface {
	ValidateList(ctx context.Context, in ListProductsInput) error
	ValidateParse(ctx context.Context, in ParseInput) error
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	validator   ProductValidator
	logger      logging.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, validator ProductValidator, logger logging.Logger) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		validator:   validator,
		logger:      logger,
	}
}

// GET /api/productsの入力DTO
type ListProductsInput struct {
	Query           string
	Limit           int
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MinRating       *float64
	MinReviewsCount *int
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if err := u.validator.ValidateList(ctx, in); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u.logger.Infof("list products: query=%q category=%q min_price=%v max_price=%v min_rating=%v min_reviews_count=%v",
		in.Query, in.Category, fmtPtr(in.MinPrice), fmtPtr(in.MaxPrice), fmtPtr(in.MinRating), fmtPtr(in.MinReviewsCount))

	items, err := u.productRepo.FindByFilters(ctx, repo.ProductFilter{
		Query:           strings.TrimSpace(in.Query),
		Limit:           in.Limit,
		Category:        strings.TrimSpace(in.Category),
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		MinRating:       in.MinRating,
		MinReviewsCount: in.MinReviewsCount,
	})
	if err != nil {
		u.logger.Errorf("list products: %v", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 1件分の保存結果
type ItemResult struct {
	ProductID string
	Product   model.Product
	Err       error
}

func (r ItemResult) OK() bool {
	return r.Err == nil
}

// まとめて保存した結果
type SaveResult struct {
	Items  []ItemResult
	Saved  int
	Failed int
}

// 1件ずつ順番に保存する。失敗した1件は数えずに次へ進み、先に保存した分は戻さない。
func (u *ProductUsecase) SaveProducts(ctx context.Context, items []model.ParsedProduct) SaveResult {
	u.logger.Infof("saving %d products", len(items))

	res := SaveResult{Items: make([]ItemResult, 0, len(items))}
	for _, item := range items {
		p, err := u.productRepo.CreateOrUpdate(ctx, item)
		r := ItemResult{ProductID: item.ProductID, Product: p, Err: err}
		res.Items = append(res.Items, r)

		if !r.OK() {
			res.Failed++
			u.logger.Warnf("product %q not saved: %v", item.ProductID, err)
			continue
		}
		res.Saved++
	}

	u.logger.Infof("saved %d products, failed %d", res.Saved, res.Failed)
	return res
}

func fmtPtr[T any](p *T) interface{} {
	if p == nil {
		return "-"
	}
	return *p
}
