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

const recipesPath = "/admin/recipes"

// RecipesHandler serves the recipe pages of the admin area
type RecipesHandler struct {
	recipes    inbound.RecipesService
	categories inbound.FoodCategoriesService
	views      *Views
	logger     *zap.Logger
}

// NewRecipesHandler creates a new recipes handler
func NewRecipesHandler(recipes inbound.RecipesService, categories inbound.FoodCategoriesService, views *Views, logger *zap.Logger) *RecipesHandler {
	return &RecipesHandler{
		recipes:    recipes,
		categories: categories,
		views:      views,
		logger:     logger.Named("recipes-handler"),
	}
}

// RegisterRoutes registers the recipe routes below r
func (h *RecipesHandler) RegisterRoutes(r *gin.RouterGroup) {
	recipes := r.Group("/recipes")
	{
		recipes.GET("", h.Index)
		recipes.GET("/add", h.AddForm)
		recipes.POST("/add", h.Add)
		recipes.GET("/:id", h.Details)
		recipes.GET("/:id/edit", h.EditForm)
		recipes.POST("/:id/edit", h.Edit)
		recipes.GET("/:id/delete", h.DeleteConfirm)
		recipes.POST("/:id/delete", h.Delete)
	}
}

// Index lists recipes, filtered by ?title= when given
func (h *RecipesHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("title"))

	seq := h.recipes.GetAllRecipes(ctx)
	if query != "" {
		seq = h.recipes.SearchRecipesByTitle(ctx, query)
	}
	items, err := mapping.MapAll[RecipeViewModel](h.views.mapper, seq)
	if err != nil {
		h.views.Fail(c, err)
		return
	}

	pager := h.views.Page(c, len(items))
	h.views.Render(c, http.StatusOK, "recipes/index", "Recipes", Grid[RecipeViewModel]{
		Items:      paged(items, pager),
		Pager:      pager,
		Query:      query,
		QueryParam: "title",
	})
}

func (h *RecipesHandler) Details(c *gin.Context) {
	recipe, ok := h.load(c)
	if !ok {
		return
	}
	h.views.Render(c, http.StatusOK, "recipes/details", recipe.Title, recipe)
}

func (h *RecipesHandler) AddForm(c *gin.Context) {
	h.renderAddForm(c, http.StatusOK, recipeAddForm{DishType: string(food.DishTypeMainDish)}, nil)
}

// Add creates a recipe with its ingredients from parallel form fields
func (h *RecipesHandler) Add(c *gin.Context) {
	var form recipeAddForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "recipe", "add", fmt.Sprintf("Recipe %q could not be added.", form.Title), apperrors.NewValidationError(err.Error()))
		h.renderAddForm(c, http.StatusBadRequest, form, formErrors(err))
		return
	}
	form = form.withoutBlankRows()

	dishType, _ := food.ParseDishType(form.DishType)
	prices, err := parseDecimals(form.Prices)
	if err != nil {
		h.renderAddForm(c, http.StatusBadRequest, form, []string{err.Error()})
		return
	}
	categoryIDs, err := parseIDs(form.FoodCategoryIDs)
	if err != nil {
		h.renderAddForm(c, http.StatusBadRequest, form, []string{err.Error()})
		return
	}

	recipe := food.NewRecipe(form.Title, dishType)
	err = h.recipes.AddRecipe(c.Request.Context(), recipe, form.IngredientNames, form.Quantities, prices, categoryIDs)
	if err != nil {
		h.views.Mutated(c, "recipe", "add", fmt.Sprintf("Recipe %q could not be added.", form.Title), err)
		if apperrors.IsInvalidArgument(err) {
			h.renderAddForm(c, http.StatusBadRequest, form, []string{describe(err)})
			return
		}
		redirect(c, recipesPath)
		return
	}

	h.views.Mutated(c, "recipe", "add", fmt.Sprintf("Recipe %q was added.", recipe.Title), nil)
	redirect(c, recipesPath)
}

func (h *RecipesHandler) EditForm(c *gin.Context) {
	recipe, ok := h.load(c)
	if !ok {
		return
	}
	h.renderEditForm(c, http.StatusOK, recipe, recipeEditForm{Title: recipe.Title, DishType: string(recipe.DishType)}, nil)
}

// Edit changes title and dish type. Costing figures are left as they are.
func (h *RecipesHandler) Edit(c *gin.Context) {
	id, ok := h.views.routeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	recipe, err := h.recipes.GetRecipeByID(ctx, id)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	if recipe == nil {
		h.views.NotFound(c)
		return
	}

	var form recipeEditForm
	if err := c.ShouldBind(&form); err != nil {
		view, mapErr := mapping.Map[RecipeViewModel](h.views.mapper, recipe)
		if mapErr != nil {
			h.views.Fail(c, mapErr)
			return
		}
		h.views.Mutated(c, "recipe", "edit", fmt.Sprintf("Recipe %q could not be updated.", recipe.Title), apperrors.NewValidationError(err.Error()))
		h.renderEditForm(c, http.StatusBadRequest, view, form, formErrors(err))
		return
	}

	recipe.Title = form.Title
	recipe.DishType, _ = food.ParseDishType(form.DishType)
	err = h.recipes.EditRecipe(ctx, recipe)
	if err != nil {
		h.views.Mutated(c, "recipe", "edit", fmt.Sprintf("Recipe %q could not be updated.", recipe.Title), err)
		redirect(c, fmt.Sprintf("%s/%s/edit", recipesPath, id))
		return
	}

	h.views.Mutated(c, "recipe", "edit", fmt.Sprintf("Recipe %q was updated.", recipe.Title), nil)
	redirect(c, recipesPath)
}

func (h *RecipesHandler) DeleteConfirm(c *gin.Context) {
	recipe, ok := h.load(c)
	if !ok {
		return
	}
	h.views.Render(c, http.StatusOK, "recipes/delete", "Delete "+recipe.Title, recipe)
}

// Delete removes the recipe. Its ingredients stay.
func (h *RecipesHandler) Delete(c *gin.Context) {
	id, ok := h.views.routeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	recipe, err := h.recipes.GetRecipeByID(ctx, id)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	if recipe == nil {
		h.views.Mutated(c, "recipe", "delete", "The recipe no longer exists.", apperrors.NewNotFoundError("recipe"))
		h.views.NotFound(c)
		return
	}

	err = h.recipes.DeleteRecipe(ctx, recipe)
	if err != nil {
		h.views.Mutated(c, "recipe", "delete", fmt.Sprintf("Recipe %q could not be deleted.", recipe.Title), err)
		redirect(c, recipesPath)
		return
	}

	h.views.Mutated(c, "recipe", "delete", fmt.Sprintf("Recipe %q was deleted.", recipe.Title), nil)
	redirect(c, recipesPath)
}

// load resolves :id to a recipe view model, rendering 404 when there is none
func (h *RecipesHandler) load(c *gin.Context) (*RecipeViewModel, bool) {
	id, ok := h.views.routeID(c)
	if !ok {
		return nil, false
	}

	recipe, err := h.recipes.GetRecipeByID(c.Request.Context(), id)
	if err != nil {
		h.views.Fail(c, err)
		return nil, false
	}
	if recipe == nil {
		h.views.NotFound(c)
		return nil, false
	}

	view, err := mapping.Map[RecipeViewModel](h.views.mapper, recipe)
	if err != nil {
		h.views.Fail(c, err)
		return nil, false
	}
	return view, true
}

func (h *RecipesHandler) renderAddForm(c *gin.Context, status int, values recipeAddForm, errs []string) {
	categories, err := mapping.MapAll[FoodCategoryViewModel](h.views.mapper, h.categories.GetAllFoodCategories(c.Request.Context()))
	if err != nil {
		h.views.Fail(c, err)
		return
	}

	h.views.Render(c, status, "recipes/add", "Add recipe", Form[recipeAddForm]{
		Values:  values,
		Errors:  errs,
		Action:  recipesPath + "/add",
		Options: map[string]any{"Categories": categories},
	})
}

func (h *RecipesHandler) renderEditForm(c *gin.Context, status int, recipe *RecipeViewModel, values recipeEditForm, errs []string) {
	h.views.Render(c, status, "recipes/edit", "Edit "+recipe.Title, Form[recipeEditForm]{
		Values:  values,
		Errors:  errs,
		Action:  fmt.Sprintf("%s/%s/edit", recipesPath, recipe.ID),
		Options: map[string]any{"Recipe": recipe},
	})
}
