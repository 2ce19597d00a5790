package httpHandler

import (
	"net/http"

	"expense-server/usecases"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	useCase *usecases.SummaryUseCase
}

func NewSummaryHandler(useCase *usecases.SummaryUseCase) *SummaryHandler {
	return &SummaryHandler{useCase: useCase}
}

// GetUserSummary handles GET /api/users/:id/summary and its alternate path
// GET /api/summary/:id
func (h *SummaryHandler) GetUserSummary(c *gin.Context) {
	summary, err := h.useCase.GetMonthlySummary(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
