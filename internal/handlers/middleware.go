package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/metrics"
	"xelaConnect/internal/models"
	"xelaConnect/internal/msgs"
	"xelaConnect/internal/utils"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

func MustAuthenticateMiddleware(jwtKey []byte) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := utils.ExtractBearerToken(ctx.GetHeader("Authorization"))
		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, jwtKey)
		if err != nil || claims.UserID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrInvalidToken},
			})
			return
		}

		ctx.Set(ContextUserID, claims.UserID)
		ctx.Set(ContextUserEmail, claims.Email)
		ctx.Next()
	}
}

// RequestMetricsMiddleware counts requests by matched route and status.
func RequestMetricsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, http.StatusText(ctx.Writer.Status())).Inc()
	}
}
