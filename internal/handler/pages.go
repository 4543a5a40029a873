package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/web"
)

// Index renders the landing page.
func (h *Handler) Index(c echo.Context) error {
	return h.render(c, http.StatusOK, "pages/home.html", web.Page{})
}
