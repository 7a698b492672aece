package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Kline 返回清洗后的本地日线K线
func (h *Handler) Kline(c *gin.Context) {
	code := c.Param("code")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "250"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit参数错误"})
		return
	}

	bars, err := h.svc.Bars(code, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "data": bars})
}
