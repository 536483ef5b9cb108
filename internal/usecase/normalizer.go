package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"wbparser/internal/domain/model"
	"wbparser/internal/logging"

	"github.com/shopspring/decimal"
)

// 名前が空の商品に入れる値
const NoNamePlaceholder = "No name"

// 検索APIの生データを保存用の形にそろえる。
type Normalizer struct {
	baseURL string
	logger  logging.Logger
}

func NewNormalizer(catalogBaseURL string, logger logging.Logger) *Normalizer {
	return &Normalizer{
		baseURL: strings.TrimRight(catalogBaseURL, "/"),
		logger:  logger,
	}
}

// 商品ページのURL
func (n *Normalizer) ProductURL(productID string) string {
	return fmt.Sprintf("%s/catalog/%s/detail.aspx", n.baseURL, productID)
}

// 1件を正規化する。category / search_query は呼び出し側で埋める。
func (n *Normalizer) Normalize(raw model.RawListing) (model.ParsedProduct, error) {
	if raw.ID <= 0 {
		return model.ParsedProduct{}, fmt.Errorf("%w: missing id", ErrMalformedListing)
	}
	if raw.PriceU < 0 || raw.SalePriceU < 0 {
		return model.ParsedProduct{}, fmt.Errorf("%w: negative price for %d", ErrMalformedListing, raw.ID)
	}
	if raw.Feedbacks < 0 {
		return model.ParsedProduct{}, fmt.Errorf("%w: negative feedbacks for %d", ErrMalformedListing, raw.ID)
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = NoNamePlaceholder
	}

	price, discount := resolvePrice(raw.PriceU, raw.SalePriceU)

	rating := raw.Rating
	if rating == 0 && raw.ReviewRating > 0 {
		rating = raw.ReviewRating
	}

	id := strconv.FormatInt(raw.ID, 10)
	return model.ParsedProduct{
		ProductID:     id,
		ProductName:   name,
		Price:         price,
		DiscountPrice: discount,
		Rating:        rating,
		ReviewsCount:  raw.Feedbacks,
		ProductURL:    n.ProductURL(id),
	}, nil
}

// 壊れた1件はログに残して飛ばす。全体は止めない。
func (n *Normalizer) NormalizeAll(raws []model.RawListing) []model.ParsedProduct {
	out := make([]model.ParsedProduct, 0, len(raws))
	for _, raw := range raws {
		p, err := n.Normalize(raw)
		if err != nil {
			n.logger.Errorf("normalize listing: %v", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

// 割引価格はsale < listのときだけ。それ以外は正の方（saleを優先）をpriceにする。
func resolvePrice(listMinor, saleMinor int64) (decimal.Decimal, decimal.NullDecimal) {
	list := decimal.New(listMinor, -2)
	sale := decimal.New(saleMinor, -2)

	if sale.IsPositive() && sale.LessThan(list) {
		return list, decimal.NewNullDecimal(sale)
	}
	if sale.IsPositive() {
		return sale, decimal.NullDecimal{}
	}
	return list, decimal.NullDecimal{}
}
