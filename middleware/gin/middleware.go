package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	di "github.com/reoring/defaultinput"
	"github.com/reoring/defaultinput/middleware"
)

// Defaults fills the JSON body of each request from s and stores Decoded[any]
// in the request context; failures abort with 400 and an Issues payload.
// Zero opt.MaxBytes and opt.MaxDepth take the DefaultParseOpt caps.
func Defaults(s di.Scheme, opt di.ParseOpt) gin.HandlerFunc {
	if opt.MaxBytes == 0 {
		opt.MaxBytes = middleware.DefaultParseOpt().MaxBytes
	}
	if opt.MaxDepth == 0 {
		opt.MaxDepth = middleware.DefaultParseOpt().MaxDepth
	}
	return func(c *gin.Context) {
		req, err := middleware.ApplyRequest(c.Request, s, opt)
		if err != nil {
			if iss, ok := di.AsIssues(err); ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Request = req
		c.Next()
	}
}

// GetDecoded fetches the applied body and its presence from gin.Context.
func GetDecoded(c *gin.Context) (di.Decoded[any], bool) {
	return middleware.DecodedFromContext[any](c.Request.Context())
}
