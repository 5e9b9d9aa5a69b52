package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/placebook/internal/category"
)

type CategoriesController struct {
	categories CategoryResolver
}

func NewCategoriesController(categories CategoryResolver) *CategoriesController {
	return &CategoriesController{categories: categories}
}

type CategoryInfo struct {
	Name category.Category `json:"name"`
	Icon category.Icon     `json:"icon"`
}

// List handles GET /api/categories
func (cc *CategoriesController) List(c *gin.Context) {
	cats := cc.categories.Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, cat := range cats {
		icon, _ := cc.categories.IconFor(cat)
		out = append(out, CategoryInfo{Name: cat, Icon: icon})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// Classify handles GET /api/categories/classify?type=bakery or ?code=11.
// Unknown types classify as Other.
func (cc *CategoriesController) Classify(c *gin.Context) {
	var cat category.Category
	var placeType string

	switch {
	case c.Query("type") != "":
		placeType = c.Query("type")
		cat = cc.categories.CategoryForName(placeType)
	case c.Query("code") != "":
		code, err := strconv.Atoi(c.Query("code"))
		if err != nil {
			respondBadRequest(c, "code must be an integer")
			return
		}
		placeType = category.PlaceType(code).String()
		cat = cc.categories.CategoryFor(category.PlaceType(code))
	default:
		respondBadRequest(c, "type or code is required")
		return
	}

	icon, _ := cc.categories.IconFor(cat)
	c.JSON(http.StatusOK, gin.H{
		"place_type": placeType,
		"category":   cat,
		"icon":       icon,
	})
}
