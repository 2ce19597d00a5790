package httpHandler

import (
	"net/http"

	"expense-server/usecases"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	useCase *usecases.ExpenseUseCase
}

func NewExpenseHandler(useCase *usecases.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{useCase: useCase}
}

// CreateExpense handles POST /api/expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var input usecases.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	expense, err := h.useCase.CreateExpense(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    expense,
	})
}

// GetUserExpenses handles GET /api/users/:id/expenses and its alternate
// path GET /api/expenses/user/:id
func (h *ExpenseHandler) GetUserExpenses(c *gin.Context) {
	query := usecases.ExpenseListQuery{
		Category:  c.Query("category"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	}

	expenses, pagination, err := h.useCase.ListUserExpenses(c.Param("id"), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       expenses,
		"pagination": pagination,
	})
}

// UpdateExpense handles PUT /api/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var input usecases.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	expense, err := h.useCase.UpdateExpense(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Expense updated successfully",
		"data":    expense,
	})
}

// PatchExpense handles PATCH /api/expenses/:id
func (h *ExpenseHandler) PatchExpense(c *gin.Context) {
	var input usecases.PatchExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	expense, err := h.useCase.PatchExpense(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Expense updated successfully",
		"data":    expense,
	})
}

// DeleteExpense handles DELETE /api/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.useCase.DeleteExpense(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Expense deleted successfully",
	})
}
