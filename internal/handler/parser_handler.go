package handler

import (
	"fmt"
	"net/http"

	"wbparser/internal/usecase"

	"github.com/labstack/echo/v4"
)

// POST /api/parse（WB検索 → 保存）
type ParserHandler struct {
	parser       ProductParser
	defaultLimit int
}

// DI
func NewParserHandler(parser ProductParser, defaultLimit int) *ParserHandler {
	return &ParserHandler{parser: parser, defaultLimit: defaultLimit}
}

// guardsは認証系ミドルウェア（JWT_SECRETが無ければ空）
func (h *ParserHandler) RegisterRoutes(g *echo.Group, guards ...echo.MiddlewareFunc) {
	g.POST("/parse", h.parse, guards...)
}

func (h *ParserHandler) parse(c echo.Context) error {
	limit, err := queryLimit(c, h.defaultLimit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.parser.ParseAndSave(c.Request().Context(), usecase.ParseInput{
		Query:    c.QueryParam("query"),
		Category: c.QueryParam("category"),
		Limit:    limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: fmt.Sprintf("Saved %d products", out.Saved)})
}
