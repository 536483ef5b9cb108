package repository

import (
	"context"
	"errors"
	"fmt"

	"wbparser/internal/domain/model"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")

	// 必須項目の欠落など、1件分の保存を中断するエラー
	ErrValidation = errors.New("validation error")
)

// どの項目が原因で保存できなかったか
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// 一覧検索の条件。nilのものは絞り込みに使わない。
type ProductFilter struct {
	Query           string
	Limit           int
	Category        string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MinRating       *float64
	MinReviewsCount *int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	FindByProductID(ctx context.Context, productID string) (model.Product, error)
	CreateOrUpdate(ctx context.Context, p model.ParsedProduct) (model.Product, error)
	FindByFilters(ctx context.Context, f ProductFilter) ([]model.Product, error)
	Ping(ctx context.Context) error
}
