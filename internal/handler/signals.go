package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MultiTimeframeSignals 多周期共振信号
func (h *Handler) MultiTimeframeSignals(c *gin.Context) {
	code := c.Param("code")
	result, err := h.svc.MultiTimeframe(code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// backtestRequest 回测请求
type backtestRequest struct {
	StockCode string `json:"stock_code" binding:"required"`
	Window    int    `json:"window"`
	Horizon   int    `json:"horizon" binding:"required,min=1"`
	Step      int    `json:"step"`
}

// Backtest 滚动回测
func (h *Handler) Backtest(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误: " + err.Error(),
		})
		return
	}

	result, err := h.svc.BacktestSymbol(req.StockCode, req.Window, req.Horizon, req.Step)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Evaluate 预测准确率评估
func (h *Handler) Evaluate(c *gin.Context) {
	code := c.Param("code")
	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", "5"))
	if err != nil || horizon < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "horizon参数错误"})
		return
	}

	eval, err := h.svc.EvaluateSymbol(code, horizon)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, eval)
}
