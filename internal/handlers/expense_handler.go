package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/middleware"
	service "github.com/bagaichadharanadm/bagaicha-dharan/internal/services/expense"
)

type ExpenseHandler struct {
	service *service.Service
}

func NewExpenseHandler(s *service.Service) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

// Create accepts a batch of expense lines and persists them
// all-or-nothing.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var in service.CreateBatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeValidationError(c, "Validation failed. Please check your input.")
		return
	}

	if err := h.service.CreateExpenses(c.Request.Context(), in); err != nil {
		writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusCreated, "Expenses added successfully.")
}

// Edit saves a full reviewed batch. The service enforces the admin role
// so the authorization failure surfaces as a typed error.
func (h *ExpenseHandler) Edit(c *gin.Context) {
	var in service.EditBatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeValidationError(c, "Invalid fields provided")
		return
	}

	err := h.service.EditExpenses(c.Request.Context(), in, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusOK, "Expenses updated successfully.")
}

// Daily returns the joined expense view for one YYYYMMDD date key.
func (h *ExpenseHandler) Daily(c *gin.Context) {
	rows, err := h.service.DailyExpenses(c.Request.Context(), c.Param("tranDate"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ExpenseHandler) Unreviewed(c *gin.Context) {
	expenses, err := h.service.UnreviewedExpenses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) AcceptAll(c *gin.Context) {
	count, err := h.service.AcceptAll(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all pending expenses accepted", "records_updated": count})
}

func (h *ExpenseHandler) RejectAll(c *gin.Context) {
	count, err := h.service.RejectAll(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all pending expenses rejected", "records_updated": count})
}

func (h *ExpenseHandler) Accept(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid expense ID")
		return
	}

	expense, svcErr := h.service.AcceptExpense(c.Request.Context(), id, middleware.UserID(c))
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense accepted", "expense": expense})
}

func (h *ExpenseHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeValidationError(c, "invalid expense ID")
		return
	}

	expense, svcErr := h.service.RejectExpense(c.Request.Context(), id, middleware.UserID(c))
	if svcErr != nil {
		writeError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense rejected", "expense": expense})
}

// CreateSupplierExpense records a supplier bill with its item details.
func (h *ExpenseHandler) CreateSupplierExpense(c *gin.Context) {
	var in service.SupplierExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeValidationError(c, "Validation failed. Please check your input.")
		return
	}

	if err := h.service.CreateSupplierExpense(c.Request.Context(), in); err != nil {
		writeError(c, err)
		return
	}
	writeSuccess(c, http.StatusCreated, "Supplier expense added successfully.")
}

func (h *ExpenseHandler) DailySupplierExpenses(c *gin.Context) {
	rows, err := h.service.DailySupplierExpenses(c.Request.Context(), c.Param("tranDate"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
