package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Page returns a placeholder handler for a portal page. The guards in
// front of it are the point; page content is rendered elsewhere.
func Page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"page": name})
	}
}
