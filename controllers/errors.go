package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/car-rent-api/services"
	"go.uber.org/zap"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindValidation:   http.StatusBadRequest,
	services.KindConflict:     http.StatusConflict,
	services.KindForbidden:    http.StatusForbidden,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindNotFound:     http.StatusNotFound,
}

// respondError writes err in the error envelope. Unclassified errors are
// logged and reported as 500 without their details.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	svcErr, ok := services.AsServiceError(err)
	if !ok {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		errorJSON(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	var details interface{}
	if len(svcErr.Details) > 0 {
		details = svcErr.Details
	}
	errorJSON(c, statusByKind[svcErr.Kind], svcErr.Code, svcErr.Message, details)
}

func errorJSON(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

func success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
