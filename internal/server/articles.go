package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/satirist/internal/store"
)

// ArticlesHandler serves /api/articles.
type ArticlesHandler struct {
	Store store.Store
}

func (h *ArticlesHandler) Register(g *echo.Group) {
	g.GET("", h.listPublished)
	g.POST("", h.create)
	g.GET("/drafts", h.listDrafts)
	g.GET("/:id", h.get)
	g.PATCH("/:id/publish", h.publish)
	g.DELETE("/:id", h.delete)
}

func (h *ArticlesHandler) listPublished(c echo.Context) error {
	items, err := h.Store.ListPublished(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ArticlesHandler) listDrafts(c echo.Context) error {
	items, err := h.Store.ListDrafts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ArticlesHandler) create(c echo.Context) error {
	var req store.ArticleInput
	if err := c.Bind(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.Store.Create(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *ArticlesHandler) get(c echo.Context) error {
	a, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ArticlesHandler) publish(c echo.Context) error {
	if err := h.Store.Publish(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Article published successfully"})
}

func (h *ArticlesHandler) delete(c echo.Context) error {
	if err := h.Store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Article deleted successfully"})
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
