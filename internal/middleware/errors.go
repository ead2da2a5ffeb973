package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/sqlerr"
)

// ErrorHandler renders the last error pushed with c.Error as errs.Response.
// It must be registered before any handler that reports errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		original := c.Errors.Last().Err

		var e *errs.Error
		if !errors.As(sqlerr.Translate(original, ""), &e) {
			e = errs.Internal(original)
		}

		log := GetLogger(c)
		if e.Kind == errs.KindInternal {
			log.Error().Err(original).Str("error_code", e.Code).Msg("request failed")
		} else {
			log.Debug().Err(original).Int("status", e.Status()).Str("error_code", e.Code).Msg(e.Message)
		}

		if !c.Writer.Written() {
			c.JSON(e.Status(), e.Response())
		}
	}
}

// Abort stops the chain with err.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Recovery turns panics into a 500 in the usual error shape.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log := GetLogger(c)
		log.Error().Interface("panic", recovered).Msg("panic recovered")
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errs.Internal(nil).Response())
			return
		}
		c.Abort()
	})
}
