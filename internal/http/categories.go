package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annuaire-qc/directory/internal/importer"
)

type CategoriesController struct {
	categories *importer.CategoryTable
}

func NewCategoriesController(categories *importer.CategoryTable) *CategoriesController {
	return &CategoriesController{categories: categories}
}

// ListCategories handles GET /api/categories
func (cc *CategoriesController) ListCategories(c *gin.Context) {
	rules := cc.categories.Rules()
	c.JSON(http.StatusOK, gin.H{
		"categories": rules,
		"total":      len(rules),
	})
}
