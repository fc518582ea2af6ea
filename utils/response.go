package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSON200(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func JSON201(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func JSON400(c *gin.Context, message string) {
	jsonError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func JSON401(c *gin.Context, message string) {
	jsonError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func JSON404(c *gin.Context, message string) {
	jsonError(c, http.StatusNotFound, "NOT_FOUND", message)
}

func JSON500(c *gin.Context, message string) {
	jsonError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

func jsonError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"error":   code,
		"message": message,
	})
}
