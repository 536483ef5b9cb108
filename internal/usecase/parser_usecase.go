package usecase

import (
	"context"
	"net/http"
	"strings"

	"wbparser/internal/domain/model"
	"wbparser/internal/logging"
)

// 検索APIから生データを取ってくる約束（実装はinfra/wildberries）
type ListingFetcher interface {
	Search(ctx context.Context, query string, limit int) []model.RawListing
}

// まとめて保存する約束（実装はProductUsecase）
type ProductSaver interface {
	SaveProducts(ctx context.Context, items []model.ParsedProduct) SaveResult
}

// 検索 → 正規化 → 保存 をまとめる
type ParserUsecase struct {
	fetcher    ListingFetcher
	normalizer *Normalizer
	saver      ProductSaver
	validator  ProductValidator
	logger     logging.Logger
}

// DI
func NewParserUsecase(
	fetcher ListingFetcher,
	normalizer *Normalizer,
	saver ProductSaver,
	validator ProductValidator,
	logger logging.Logger,
) *ParserUsecase {
	return &ParserUsecase{
		fetcher:    fetcher,
		normalizer: normalizer,
		saver:      saver,
		validator:  validator,
		logger:     logger,
	}
}

// POST /api/parseの入力DTO
type ParseInput struct {
	Query    string
	Category string
	Limit    int
}

type ParseOutput struct {
	Fetched int
	Parsed  int
	Saved   int
	Failed  int
}

func (u *ParserUsecase) ParseAndSave(ctx context.Context, in ParseInput) (ParseOutput, error) {
	if err := u.validator.ValidateParse(ctx, in); err != nil {
		return ParseOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	query := strings.TrimSpace(in.Query)
	category := strings.TrimSpace(in.Category)

	raws := u.fetcher.Search(ctx, query, in.Limit)
	if len(raws) == 0 {
		u.logger.Infof("no listings for %q", query)
		return ParseOutput{}, nil
	}

	parsed := u.normalizer.NormalizeAll(raws)

	//呼び出し側の文脈で上書き（URLは最終的なIDから作り直す）
	for i := range parsed {
		parsed[i].SearchQuery = query
		parsed[i].Category = category
		parsed[i].ProductURL = u.normalizer.ProductURL(parsed[i].ProductID)
	}

	res := u.saver.SaveProducts(ctx, parsed)

	out := ParseOutput{
		Fetched: len(raws),
		Parsed:  len(parsed),
		Saved:   res.Saved,
		Failed:  res.Failed,
	}
	u.logger.Infof("parse %q: fetched=%d parsed=%d saved=%d failed=%d",
		query, out.Fetched, out.Parsed, out.Saved, out.Failed)
	return out, nil
}
