package common

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError sends a JSON error response. Errors that are not an
// APIError are reported as a generic internal error without details.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		_ = c.Error(err)
		apiErr = ErrInternalServer
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}
