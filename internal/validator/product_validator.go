package validator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"wbparser/internal/usecase"
)

const (
	MaxLimit       = 100
	maxQueryLen    = 200 // search_query列の長さ
	maxCategoryLen = 100 // category列の長さ
	maxRating      = 5
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

type productValidator struct{}

// Usecaseは interface を依存注入
func NewProductValidator() usecase.ProductValidator {
	return &productValidator{}
}

// 一覧の入力を検証
func (v *productValidator) ValidateList(ctx context.Context, in usecase.ListProductsInput) error {
	if err := checkLimit(in.Limit); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Query) > maxQueryLen {
		return invalid("query too long")
	}
	if utf8.RuneCountInString(in.Category) > maxCategoryLen {
		return invalid("category too long")
	}

	//価格帯
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return invalid("min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return invalid("max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return invalid("min_price must be <= max_price")
	}

	if in.MinRating != nil && (math.IsNaN(*in.MinRating) || *in.MinRating < 0 || *in.MinRating > maxRating) {
		return invalid("min_rating must be between 0 and 5")
	}
	if in.MinReviewsCount != nil && *in.MinReviewsCount < 0 {
		return invalid("min_reviews_count must be >= 0")
	}
	return nil
}

// 取り込みの入力を検証
func (v *productValidator) ValidateParse(ctx context.Context, in usecase.ParseInput) error {
	q := strings.TrimSpace(in.Query)
	if q == "" {
		return invalid("query required")
	}
	if utf8.RuneCountInString(q) > maxQueryLen {
		return invalid("query too long")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Category)) > maxCategoryLen {
		return invalid("category too long")
	}
	return checkLimit(in.Limit)
}

func checkLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return invalid("invalid limit")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
