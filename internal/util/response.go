package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK 统一成功返回，data 直接作为响应体
func OK(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, data)
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}
