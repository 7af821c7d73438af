package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/mapping"
	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

const foodCategoriesPath = "/admin/food-categories"

// FoodCategoriesHandler serves the food category pages of the admin area
type FoodCategoriesHandler struct {
	categories inbound.FoodCategoriesService
	views      *Views
	logger     *zap.Logger
}

func NewFoodCategoriesHandler(categories inbound.FoodCategoriesService, views *Views, logger *zap.Logger) *FoodCategoriesHandler {
	return &FoodCategoriesHandler{
		categories: categories,
		views:      views,
		logger:     logger.Named("food-categories-handler"),
	}
}

func (h *FoodCategoriesHandler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/food-categories")
	{
		categories.GET("", h.Index)
		categories.GET("/add", h.AddForm)
		categories.POST("/add", h.Add)
		categories.GET("/:id", h.Details)
		categories.GET("/:id/edit", h.EditForm)
		categories.POST("/:id/edit", h.Edit)
		categories.GET("/:id/delete", h.DeleteConfirm)
		categories.POST("/:id/delete", h.Delete)
	}
}

// Index lists categories, filtered by ?name= when given
func (h *FoodCategoriesHandler) Index(c *gin.Context) {
	query := strings.TrimSpace(c.Query("name"))
	all, err := mapping.MapAll[FoodCategoryViewModel](h.views.mapper, h.categories.GetAllFoodCategories(c.Request.Context()))
	if err != nil {
		h.views.Fail(c, err)
		return
	}

	items := all
	if query != "" {
		items = nil
		for _, category := range all {
			if strings.Contains(strings.ToLower(category.Name), strings.ToLower(query)) {
				items = append(items, category)
			}
		}
	}

	pager := h.views.Page(c, len(items))
	h.views.Render(c, http.StatusOK, "food-categories/index", "Food categories", Grid[FoodCategoryViewModel]{
		Items:      paged(items, pager),
		Pager:      pager,
		Query:      query,
		QueryParam: "name",
	})
}

func (h *FoodCategoriesHandler) Details(c *gin.Context) {
	category, ok := h.load(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "food-categories/details", category.Name, category)
}

func (h *FoodCategoriesHandler) AddForm(c *gin.Context) {
	h.views.Render(c, http.StatusOK, "food-categories/add", "Add food category", Form[foodCategoryForm]{
		Action: foodCategoriesPath + "/add",
	})
}

func (h *FoodCategoriesHandler) Add(c *gin.Context) {
	var form foodCategoryForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "food_category", "add", "The food category could not be added.", apperrors.NewValidationError(err.Error()))
		h.views.Render(c, http.StatusBadRequest, "food-categories/add", "Add food category", Form[foodCategoryForm]{
			Values: form,
			Errors: formErrors(err),
			Action: foodCategoriesPath + "/add",
		})
		return
	}

	category, err := h.categories.AddFoodCategory(c.Request.Context(), form.Name)
	if err != nil {
		h.views.Mutated(c, "food_category", "add", fmt.Sprintf("Food category %q could not be added.", form.Name), err)
		redirect(c, foodCategoriesPath)
		return
	}

	h.views.Mutated(c, "food_category", "add", fmt.Sprintf("Food category %q was added.", category.Name), nil)
	redirect(c, foodCategoriesPath)
}

func (h *FoodCategoriesHandler) EditForm(c *gin.Context) {
	category, ok := h.load(c)
	if !ok {
		return
	}
	h.renderEditForm(c, http.StatusOK, category, foodCategoryForm{Name: category.Name}, nil)
}

// Edit renames the category. The running total is not editable.
func (h *FoodCategoriesHandler) Edit(c *gin.Context) {
	category, ok := h.load(c)
	if !ok {
		return
	}

	var form foodCategoryForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "food_category", "edit", fmt.Sprintf("Food category %q could not be updated.", category.Name), apperrors.NewValidationError(err.Error()))
		h.renderEditForm(c, http.StatusBadRequest, category, form, formErrors(err))
		return
	}

	category.Name = form.Name
	if err := h.categories.EditFoodCategory(c.Request.Context(), category); err != nil {
		h.views.Mutated(c, "food_category", "edit", fmt.Sprintf("Food category %q could not be updated.", category.Name), err)
		redirect(c, fmt.Sprintf("%s/%s/edit", foodCategoriesPath, category.ID))
		return
	}

	h.views.Mutated(c, "food_category", "edit", fmt.Sprintf("Food category %q was updated.", category.Name), nil)
	redirect(c, foodCategoriesPath)
}

func (h *FoodCategoriesHandler) DeleteConfirm(c *gin.Context) {
	category, ok := h.load(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "food-categories/delete", "Delete "+category.Name, category)
}

func (h *FoodCategoriesHandler) Delete(c *gin.Context) {
	id, ok := h.views.routeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	category, err := h.categories.GetFoodCategoryByID(ctx, id)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	if category == nil {
		h.views.Mutated(c, "food_category", "delete", "The food category no longer exists.", apperrors.NewNotFoundError("food category"))
		h.views.NotFound(c)
		return
	}

	if err := h.categories.DeleteFoodCategory(ctx, category); err != nil {
		h.views.Mutated(c, "food_category", "delete", fmt.Sprintf("Food category %q could not be deleted.", category.Name), err)
		redirect(c, foodCategoriesPath)
		return
	}

	h.views.Mutated(c, "food_category", "delete", fmt.Sprintf("Food category %q was deleted.", category.Name), nil)
	redirect(c, foodCategoriesPath)
}

func (h *FoodCategoriesHandler) load(c *gin.Context) (*food.FoodCategory, bool) {
	id, ok := h.views.routeID(c)
	if !ok {
		return nil, false
	}

	category, err := h.categories.GetFoodCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.views.Fail(c, err)
		return nil, false
	}
	if category == nil {
		h.views.NotFound(c)
		return nil, false
	}
	return category, true
}

func (h *FoodCategoriesHandler) render(c *gin.Context, status int, name, title string, category *food.FoodCategory) {
	view, err := mapping.Map[FoodCategoryViewModel](h.views.mapper, category)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	h.views.Render(c, status, name, title, view)
}

func (h *FoodCategoriesHandler) renderEditForm(c *gin.Context, status int, category *food.FoodCategory, values foodCategoryForm, errs []string) {
	view, err := mapping.Map[FoodCategoryViewModel](h.views.mapper, category)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	h.views.Render(c, status, "food-categories/edit", "Edit "+view.Name, Form[foodCategoryForm]{
		Values:  values,
		Errors:  errs,
		Action:  fmt.Sprintf("%s/%s/edit", foodCategoriesPath, view.ID),
		Options: map[string]any{"Category": view},
	})
}
