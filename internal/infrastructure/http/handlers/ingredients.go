package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/mapping"
	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

const ingredientsPath = "/admin/ingredients"

// IngredientsHandler serves the ingredient pages of the admin area
type IngredientsHandler struct {
	ingredients inbound.IngredientsService
	recipes     inbound.RecipesService
	categories  inbound.FoodCategoriesService
	views       *Views
	logger      *zap.Logger
}

// NewIngredientsHandler creates a new ingredients handler
func NewIngredientsHandler(
	ingredients inbound.IngredientsService,
	recipes inbound.RecipesService,
	categories inbound.FoodCategoriesService,
	views *Views,
	logger *zap.Logger,
) *IngredientsHandler {
	return &IngredientsHandler{
		ingredients: ingredients,
		recipes:     recipes,
		categories:  categories,
		views:       views,
		logger:      logger.Named("ingredients-handler"),
	}
}

// RegisterRoutes registers the ingredient routes below r
func (h *IngredientsHandler) RegisterRoutes(r *gin.RouterGroup) {
	ingredients := r.Group("/ingredients")
	{
		ingredients.GET("", h.Index)
		ingredients.GET("/add", h.AddForm)
		ingredients.POST("/add", h.Add)
		ingredients.GET("/:id", h.Details)
		ingredients.GET("/:id/edit", h.EditForm)
		ingredients.POST("/:id/edit", h.Edit)
		ingredients.GET("/:id/delete", h.DeleteConfirm)
		ingredients.POST("/:id/delete", h.Delete)
	}
}

// Index lists ingredients with their recipes, filtered by ?name= when given
func (h *IngredientsHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("name"))

	seq := h.ingredients.GetAllIngredientsIncludingRecipes(ctx)
	if query != "" {
		seq = h.ingredients.SearchIngredientsByName(ctx, query)
	}
	items, err := mapping.MapAll[IngredientViewModel](h.views.mapper, seq)
	if err != nil {
		h.views.Fail(c, err)
		return
	}

	pager := h.views.Page(c, len(items))
	h.views.Render(c, http.StatusOK, "ingredients/index", "Ingredients", Grid[IngredientViewModel]{
		Items:      paged(items, pager),
		Pager:      pager,
		Query:      query,
		QueryParam: "name",
	})
}

func (h *IngredientsHandler) Details(c *gin.Context) {
	ingredient, ok := h.load(c)
	if !ok {
		return
	}
	view, err := mapping.Map[IngredientViewModel](h.views.mapper, ingredient)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	h.views.Render(c, http.StatusOK, "ingredients/details", view.Name, view)
}

func (h *IngredientsHandler) AddForm(c *gin.Context) {
	values := ingredientAddForm{RecipeID: c.Query("recipeId")}
	h.renderAddForm(c, http.StatusOK, values, nil)
}

// Add attaches a new ingredient to a recipe. The category total is left as it is.
func (h *IngredientsHandler) Add(c *gin.Context) {
	var form ingredientAddForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "ingredient", "add", fmt.Sprintf("Ingredient %q could not be added.", form.Name), apperrors.NewValidationError(err.Error()))
		h.renderAddForm(c, http.StatusBadRequest, form, formErrors(err))
		return
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		h.renderAddForm(c, http.StatusBadRequest, form, []string{"price must be a number"})
		return
	}

	ingredient, err := h.ingredients.AddIngredient(c.Request.Context(),
		form.Name,
		uuid.MustParse(form.FoodCategoryID),
		price,
		form.Quantity,
		uuid.MustParse(form.RecipeID),
	)
	if err != nil {
		h.views.Mutated(c, "ingredient", "add", fmt.Sprintf("Ingredient %q could not be added.", form.Name), err)
		if apperrors.IsInvalidArgument(err) {
			h.renderAddForm(c, http.StatusBadRequest, form, []string{describe(err)})
			return
		}
		redirect(c, ingredientsPath)
		return
	}

	h.views.Mutated(c, "ingredient", "add", fmt.Sprintf("Ingredient %q was added.", ingredient.Name), nil)
	redirect(c, ingredientsPath)
}

func (h *IngredientsHandler) EditForm(c *gin.Context) {
	ingredient, ok := h.load(c)
	if !ok {
		return
	}
	values := ingredientEditForm{
		Name:     ingredient.Name,
		Price:    ingredient.PricePerMeasuringUnit.String(),
		Quantity: ingredient.QuantityInMeasuringUnit,
	}
	h.renderEditForm(c, http.StatusOK, ingredient, values, nil)
}

// Edit changes name, price and quantity. Neither the recipe's costing nor
// the category's running total follows.
func (h *IngredientsHandler) Edit(c *gin.Context) {
	ingredient, ok := h.load(c)
	if !ok {
		return
	}

	var form ingredientEditForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "ingredient", "edit", fmt.Sprintf("Ingredient %q could not be updated.", ingredient.Name), apperrors.NewValidationError(err.Error()))
		h.renderEditForm(c, http.StatusBadRequest, ingredient, form, formErrors(err))
		return
	}
	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		h.renderEditForm(c, http.StatusBadRequest, ingredient, form, []string{"price must be a number"})
		return
	}

	ingredient.Name = form.Name
	ingredient.PricePerMeasuringUnit = price
	ingredient.QuantityInMeasuringUnit = form.Quantity
	if err := h.ingredients.EditIngredient(c.Request.Context(), ingredient); err != nil {
		h.views.Mutated(c, "ingredient", "edit", fmt.Sprintf("Ingredient %q could not be updated.", ingredient.Name), err)
		redirect(c, fmt.Sprintf("%s/%s/edit", ingredientsPath, ingredient.ID))
		return
	}

	h.views.Mutated(c, "ingredient", "edit", fmt.Sprintf("Ingredient %q was updated.", ingredient.Name), nil)
	redirect(c, ingredientsPath)
}

func (h *IngredientsHandler) DeleteConfirm(c *gin.Context) {
	ingredient, ok := h.load(c)
	if !ok {
		return
	}
	view, err := mapping.Map[IngredientViewModel](h.views.mapper, ingredient)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	h.views.Render(c, http.StatusOK, "ingredients/delete", "Delete "+view.Name, view)
}

func (h *IngredientsHandler) Delete(c *gin.Context) {
	id, ok := h.views.routeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ingredient, err := h.ingredients.GetIngredientByID(ctx, id)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	if ingredient == nil {
		h.views.Mutated(c, "ingredient", "delete", "The ingredient no longer exists.", apperrors.NewNotFoundError("ingredient"))
		h.views.NotFound(c)
		return
	}

	if err := h.ingredients.DeleteIngredient(ctx, ingredient); err != nil {
		h.views.Mutated(c, "ingredient", "delete", fmt.Sprintf("Ingredient %q could not be deleted.", ingredient.Name), err)
		redirect(c, ingredientsPath)
		return
	}

	h.views.Mutated(c, "ingredient", "delete", fmt.Sprintf("Ingredient %q was deleted.", ingredient.Name), nil)
	redirect(c, ingredientsPath)
}

// load resolves :id to an ingredient, rendering 404 when there is none
func (h *IngredientsHandler) load(c *gin.Context) (*food.Ingredient, bool) {
	id, ok := h.views.routeID(c)
	if !ok {
		return nil, false
	}

	ingredient, err := h.ingredients.GetIngredientByID(c.Request.Context(), id)
	if err != nil {
		h.views.Fail(c, err)
		return nil, false
	}
	if ingredient == nil {
		h.views.NotFound(c)
		return nil, false
	}
	return ingredient, true
}

func (h *IngredientsHandler) renderAddForm(c *gin.Context, status int, values ingredientAddForm, errs []string) {
	ctx := c.Request.Context()
	categories, err := mapping.MapAll[FoodCategoryViewModel](h.views.mapper, h.categories.GetAllFoodCategories(ctx))
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	recipes, err := mapping.MapAll[RecipeOption](h.views.mapper, h.recipes.GetAllRecipes(ctx))
	if err != nil {
		h.views.Fail(c, err)
		return
	}

	h.views.Render(c, status, "ingredients/add", "Add ingredient", Form[ingredientAddForm]{
		Values: values,
		Errors: errs,
		Action: ingredientsPath + "/add",
		Options: map[string]any{
			"Categories": categories,
			"Recipes":    recipes,
		},
	})
}

func (h *IngredientsHandler) renderEditForm(c *gin.Context, status int, ingredient *food.Ingredient, values ingredientEditForm, errs []string) {
	view, err := mapping.Map[IngredientViewModel](h.views.mapper, ingredient)
	if err != nil {
		h.views.Fail(c, err)
		return
	}

	h.views.Render(c, status, "ingredients/edit", "Edit "+view.Name, Form[ingredientEditForm]{
		Values:  values,
		Errors:  errs,
		Action:  fmt.Sprintf("%s/%s/edit", ingredientsPath, view.ID),
		Options: map[string]any{"Ingredient": view},
	})
}
