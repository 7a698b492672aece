package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListModels 列出已训练模型，可按stock_code过滤
func (h *Handler) ListModels(c *gin.Context) {
	infos, err := h.svc.ListModels(c.Query("stock_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": infos})
}
