package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/nucleus/errors"
)

// RespondWithError writes err as the standard error body. AppErrors keep
// their code and status; anything else becomes a 500 INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	c.JSON(errors.StatusOf(appErr), appErr.ToResponse())
}
