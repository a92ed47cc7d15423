package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/repository"
)

// ReferenceHandler serves the master-data lists the expense forms
// select from.
type ReferenceHandler struct {
	refs *repository.ReferenceRepository
}

func NewReferenceHandler(refs *repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

func (h *ReferenceHandler) Suppliers(c *gin.Context) {
	suppliers, err := h.refs.SupplierNamesAndIDs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *ReferenceHandler) Items(c *gin.Context) {
	items, err := h.refs.ItemNamesAndIDs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ReferenceHandler) Employees(c *gin.Context) {
	employees, err := h.refs.EmployeeNamesAndIDs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}
