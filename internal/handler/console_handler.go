package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_console/internal/models"
	"github.com/GTDGit/gtd_console/internal/pagination"
	"github.com/GTDGit/gtd_console/internal/store"
	"github.com/GTDGit/gtd_console/internal/utils"
)

// ProductStore is the part of the store the HTTP surface needs.
type ProductStore interface {
	Dispatch(in store.Intent)
	GetState() store.State
}

// ConsoleHandler exposes the product store over HTTP. Write endpoints only
// enqueue intents; results are observed through the snapshot or the stream.
type ConsoleHandler struct {
	store  ProductStore
	radius int
}

// NewConsoleHandler constructs a ConsoleHandler.
func NewConsoleHandler(s ProductStore, radius int) *ConsoleHandler {
	return &ConsoleHandler{store: s, radius: radius}
}

// listRequest is the optional body of POST /products/list.
type listRequest struct {
	Page   *int    `json:"page"`
	Limit  *int    `json:"limit"`
	Search *string `json:"search"`
}

// GetSnapshot handles GET /v1/console/products
// The window is left out when there is nothing to page through.
func (h *ConsoleHandler) GetSnapshot(c *gin.Context) {
	s := h.store.GetState()
	data := gin.H{"state": s}
	if w := pagination.Project(s.Pagination, h.radius); !w.Empty() {
		data["window"] = w
	}
	utils.Success(c, 200, "Products state retrieved", data)
}

// ListCategories handles GET /v1/console/categories
func (h *ConsoleHandler) ListCategories(c *gin.Context) {
	utils.Success(c, 200, "Categories retrieved", models.Categories)
}

// RequestList handles POST /v1/console/products/list
func (h *ConsoleHandler) RequestList(c *gin.Context) {
	page, limit := 1, models.DefaultPageSize
	search := strings.TrimSpace(c.Query("search"))

	if v := c.Query("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			utils.Error(c, 400, "INVALID_PAGE", "Page must be a number")
			return
		}
		page = p
	}
	if v := c.Query("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			utils.Error(c, 400, "INVALID_PAGE", "Limit must be a number")
			return
		}
		limit = l
	}

	if c.Request.ContentLength > 0 {
		var req listRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
			return
		}
		if req.Page != nil {
			page = *req.Page
		}
		if req.Limit != nil {
			limit = *req.Limit
		}
		if req.Search != nil {
			search = strings.TrimSpace(*req.Search)
		}
	}

	h.accept(c, store.ListRequested(page, limit, search), "List requested")
}

// CreateProduct handles POST /v1/console/products
func (h *ConsoleHandler) CreateProduct(c *gin.Context) {
	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	h.accept(c, store.CreateRequested(draft), "Create requested")
}

// UpdateProduct handles PUT /v1/console/products/:id
func (h *ConsoleHandler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	h.accept(c, store.UpdateRequested(id, draft), "Update requested")
}

// DeleteProduct handles DELETE /v1/console/products/:id
func (h *ConsoleHandler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	h.accept(c, store.DeleteRequested(id), "Delete requested")
}

func (h *ConsoleHandler) accept(c *gin.Context, in store.Intent, message string) {
	h.store.Dispatch(in)
	utils.Success(c, 202, message, gin.H{
		"intentId": in.ID,
		"kind":     in.Kind,
	})
}

func productID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		utils.Error(c, 400, "INVALID_ID", "Invalid product ID")
		return "", false
	}
	return id, true
}
