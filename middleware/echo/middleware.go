package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	di "github.com/reoring/defaultinput"
	"github.com/reoring/defaultinput/middleware"
)

// Defaults fills the JSON body of each request from s, stores Decoded[any]
// in context on success, or returns 400 with Issues when applying fails.
func Defaults(s di.Scheme, opt di.ParseOpt) echo.MiddlewareFunc {
	if opt.MaxBytes == 0 {
		opt.MaxBytes = middleware.DefaultParseOpt().MaxBytes
	}
	if opt.MaxDepth == 0 {
		opt.MaxDepth = middleware.DefaultParseOpt().MaxDepth
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req, err := middleware.ApplyRequest(c.Request(), s, opt)
			if err != nil {
				if iss, ok := di.AsIssues(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				}
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			c.SetRequest(req)
			return next(c)
		}
	}
}

// GetDecoded fetches the applied body and its presence from echo.Context.
func GetDecoded(c echo.Context) (di.Decoded[any], bool) {
	return middleware.DecodedFromContext[any](c.Request().Context())
}
