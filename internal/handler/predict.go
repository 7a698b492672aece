// Package handler HTTP接口层
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-forecast-engine/internal/model"
	"stock-forecast-engine/internal/service"
)

// Handler 预测接口
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Predict 多日预测
func (h *Handler) Predict(c *gin.Context) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误: " + err.Error(),
		})
		return
	}

	resp, err := h.svc.Predict(&req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PredictProfessional 专业策略预测
func (h *Handler) PredictProfessional(c *gin.Context) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误: " + err.Error(),
		})
		return
	}

	resp, err := h.svc.PredictProfessional(&req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeError 统一错误映射
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "股票代码格式错误"})
	case errors.Is(err, model.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "历史数据不足"})
	case errors.Is(err, model.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "模型不存在"})
	case errors.Is(err, model.ErrStoreFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
