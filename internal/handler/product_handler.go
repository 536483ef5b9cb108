package handler

import (
	"context"
	"net/http"
	"strconv"

	"wbparser/internal/domain/model"
	"wbparser/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductLister interface {
	ListProducts(ctx context.Context, in usecase.ListProductsInput) ([]model.Product, error)
}

type ProductParser interface {
	ParseAndSave(ctx context.Context, in usecase.ParseInput) (usecase.ParseOutput, error)
}

// 一覧の1件
type ProductResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductName   string    `json:"product_name"`
	Price         string    `json:"price"`
	DiscountPrice *string   `json:"discount_price"`
	Rating        float64   `json:"rating"`
	ReviewsCount  int       `json:"reviews_count"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// /api/products の公開API
type ProductHandler struct {
	lister       ProductLister
	parser       ProductParser
	defaultLimit int
}

// DI
func NewProductHandler(lister ProductLister, parser ProductParser, defaultLimit int) *ProductHandler {
	return &ProductHandler{lister: lister, parser: parser, defaultLimit: defaultLimit}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
}

func (h *ProductHandler) list(c echo.Context) error {
	limit, err := queryLimit(c, h.defaultLimit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	in := usecase.ListProductsInput{
		Query:    c.QueryParam("query"),
		Limit:    limit,
		Category: c.QueryParam("category"),
	}

	if in.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
	}
	if in.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
	}
	if in.MinRating, err = queryFloat(c, "min_rating"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_rating"})
	}
	if in.MinReviewsCount, err = queryInt(c, "min_reviews_count"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_reviews_count"})
	}

	//refresh=true なら一覧の前に取り込む
	if v := c.QueryParam("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid refresh"})
		}
		if refresh {
			if _, err := h.parser.ParseAndSave(c.Request().Context(), usecase.ParseInput{
				Query:    in.Query,
				Category: in.Category,
				Limit:    in.Limit,
			}); err != nil {
				return writeError(c, err)
			}
		}
	}

	items, err := h.lister.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	out := ProductListResponse{Products: make([]ProductResponse, 0, len(items))}
	for _, p := range items {
		out.Products = append(out.Products, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

func toProductResponse(p model.Product) ProductResponse {
	r := ProductResponse{
		ID:           p.ID,
		ProductName:  p.ProductName,
		Price:        p.Price.StringFixed(2),
		Rating:       p.Rating,
		ReviewsCount: p.ReviewsCount,
	}
	if p.DiscountPrice.Valid {
		s := p.DiscountPrice.Decimal.StringFixed(2)
		r.DiscountPrice = &s
	}
	return r
}

func queryLimit(c echo.Context, def int) (int, error) {
	v := c.QueryParam("limit")
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func queryDecimal(c echo.Context, key string) (*decimal.Decimal, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func queryFloat(c echo.Context, key string) (*float64, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func queryInt(c echo.Context, key string) (*int, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
