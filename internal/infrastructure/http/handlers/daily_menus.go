package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/mapping"
	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/ports/inbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

const dailyMenusPath = "/admin/daily-menus"

// DailyMenusHandler serves the daily menu pages of the admin area
type DailyMenusHandler struct {
	menus   inbound.DailyMenuService
	recipes inbound.RecipesService
	views   *Views
	logger  *zap.Logger
}

// NewDailyMenusHandler creates a new daily menus handler
func NewDailyMenusHandler(menus inbound.DailyMenuService, recipes inbound.RecipesService, views *Views, logger *zap.Logger) *DailyMenusHandler {
	return &DailyMenusHandler{
		menus:   menus,
		recipes: recipes,
		views:   views,
		logger:  logger.Named("daily-menus-handler"),
	}
}

// RegisterRoutes registers the daily menu routes below r
func (h *DailyMenusHandler) RegisterRoutes(r *gin.RouterGroup) {
	menus := r.Group("/daily-menus")
	{
		menus.GET("", h.Index)
		menus.GET("/search", h.Search)
		menus.GET("/add", h.AddForm)
		menus.POST("/add", h.Add)
		menus.GET("/:id", h.Details)
		menus.GET("/:id/edit", h.EditForm)
		menus.POST("/:id/edit", h.Edit)
		menus.GET("/:id/delete", h.DeleteConfirm)
		menus.POST("/:id/delete", h.Delete)
	}
}

// Index lists menus, filtered by ?recipeTitle= when given
func (h *DailyMenusHandler) Index(c *gin.Context) {
	grid, err := h.search(c)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	h.views.Render(c, http.StatusOK, "daily-menus/index", "Daily menus", grid)
}

// Search returns only the grid fragment, for in-place refresh of the index
func (h *DailyMenusHandler) Search(c *gin.Context) {
	grid, err := h.search(c)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	h.views.Partial(c, "daily-menus/grid", grid)
}

func (h *DailyMenusHandler) Details(c *gin.Context) {
	menu, ok := h.load(c)
	if !ok {
		return
	}
	h.views.Render(c, http.StatusOK, "daily-menus/details", "Menu for "+menu.Date.Format("02 Jan 2006"), menu)
}

func (h *DailyMenusHandler) AddForm(c *gin.Context) {
	values := dailyMenuForm{Date: food.TruncateToDay(time.Now()).Format(dateLayout)}
	h.renderForm(c, http.StatusOK, "daily-menus/add", "Add daily menu", dailyMenusPath+"/add", values, nil, nil)
}

// Add creates a menu for the selected date from the checked recipes
func (h *DailyMenusHandler) Add(c *gin.Context) {
	var form dailyMenuForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "daily_menu", "add", fmt.Sprintf("The menu for %s could not be added.", form.Date), apperrors.NewValidationError(err.Error()))
		h.renderForm(c, http.StatusBadRequest, "daily-menus/add", "Add daily menu", dailyMenusPath+"/add", form, nil, formErrors(err))
		return
	}
	date, recipeIDs, err := form.parse()
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, "daily-menus/add", "Add daily menu", dailyMenusPath+"/add", form, nil, []string{err.Error()})
		return
	}

	menu, err := h.menus.AddDailyMenu(c.Request.Context(), date, recipeIDs)
	if err != nil {
		h.views.Mutated(c, "daily_menu", "add", fmt.Sprintf("The menu for %s could not be added.", displayDate(date)), err)
		if apperrors.IsInvalidArgument(err) {
			h.renderForm(c, http.StatusBadRequest, "daily-menus/add", "Add daily menu", dailyMenusPath+"/add", form, recipeIDs, []string{describe(err)})
			return
		}
		redirect(c, dailyMenusPath)
		return
	}

	h.views.Mutated(c, "daily_menu", "add", fmt.Sprintf("The menu for %s was added.", displayDate(menu.Date)), nil)
	redirect(c, dailyMenusPath)
}

func (h *DailyMenusHandler) EditForm(c *gin.Context) {
	menu, ok := h.load(c)
	if !ok {
		return
	}
	values := dailyMenuForm{Date: menu.Date.Format(dateLayout)}
	action := fmt.Sprintf("%s/%s/edit", dailyMenusPath, menu.ID)
	h.renderForm(c, http.StatusOK, "daily-menus/edit", "Edit daily menu", action, values, menu.RecipeIDs(), nil)
}

// Edit replaces the date and the recipe selection of a menu
func (h *DailyMenusHandler) Edit(c *gin.Context) {
	id, ok := h.views.routeID(c)
	if !ok {
		return
	}
	action := fmt.Sprintf("%s/%s/edit", dailyMenusPath, id)

	var form dailyMenuForm
	if err := c.ShouldBind(&form); err != nil {
		h.views.Mutated(c, "daily_menu", "edit", fmt.Sprintf("The menu for %s could not be updated.", form.Date), apperrors.NewValidationError(err.Error()))
		h.renderForm(c, http.StatusBadRequest, "daily-menus/edit", "Edit daily menu", action, form, nil, formErrors(err))
		return
	}
	date, recipeIDs, err := form.parse()
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, "daily-menus/edit", "Edit daily menu", action, form, nil, []string{err.Error()})
		return
	}

	menu, err := h.menus.EditDailyMenu(c.Request.Context(), id, date, recipeIDs)
	if err != nil {
		h.views.Mutated(c, "daily_menu", "edit", fmt.Sprintf("The menu for %s could not be updated.", displayDate(date)), err)
		if apperrors.IsInvalidArgument(err) {
			h.renderForm(c, http.StatusBadRequest, "daily-menus/edit", "Edit daily menu", action, form, recipeIDs, []string{describe(err)})
			return
		}
		redirect(c, action)
		return
	}
	if menu == nil {
		h.views.NotFound(c)
		return
	}

	h.views.Mutated(c, "daily_menu", "edit", fmt.Sprintf("The menu for %s was updated.", displayDate(menu.Date)), nil)
	redirect(c, dailyMenusPath)
}

func (h *DailyMenusHandler) DeleteConfirm(c *gin.Context) {
	menu, ok := h.load(c)
	if !ok {
		return
	}
	h.views.Render(c, http.StatusOK, "daily-menus/delete", "Delete daily menu", menu)
}

// Delete removes a menu. A menu that is already gone renders 404.
func (h *DailyMenusHandler) Delete(c *gin.Context) {
	id, ok := h.views.routeID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	menu, err := h.menus.GetDailyMenuByID(ctx, id)
	if err != nil {
		h.views.Fail(c, err)
		return
	}
	if menu == nil {
		h.views.Mutated(c, "daily_menu", "delete", "The daily menu no longer exists.", apperrors.NewNotFoundError("daily menu"))
		h.views.NotFound(c)
		return
	}

	if err := h.menus.DeleteDailyMenu(ctx, menu); err != nil {
		h.views.Mutated(c, "daily_menu", "delete", fmt.Sprintf("The menu for %s could not be deleted.", displayDate(menu.Date)), err)
		redirect(c, dailyMenusPath)
		return
	}

	h.views.Mutated(c, "daily_menu", "delete", fmt.Sprintf("The menu for %s was deleted.", displayDate(menu.Date)), nil)
	redirect(c, dailyMenusPath)
}

func (h *DailyMenusHandler) search(c *gin.Context) (Grid[DailyMenuViewModel], error) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("recipeTitle"))

	seq := h.menus.GetAllDailyMenus(ctx)
	if query != "" {
		seq = h.menus.SearchDailyMenusByRecipeTitle(ctx, query)
	}
	items, err := mapping.MapAll[DailyMenuViewModel](h.views.mapper, seq)
	if err != nil {
		return Grid[DailyMenuViewModel]{}, err
	}

	pager := h.views.Page(c, len(items))
	return Grid[DailyMenuViewModel]{
		Items:      paged(items, pager),
		Pager:      pager,
		Query:      query,
		QueryParam: "recipeTitle",
	}, nil
}

func (h *DailyMenusHandler) load(c *gin.Context) (*DailyMenuViewModel, bool) {
	id, ok := h.views.routeID(c)
	if !ok {
		return nil, false
	}

	menu, err := h.menus.GetDailyMenuByID(c.Request.Context(), id)
	if err != nil {
		h.views.Fail(c, err)
		return nil, false
	}
	if menu == nil {
		h.views.NotFound(c)
		return nil, false
	}

	view, err := mapping.Map[DailyMenuViewModel](h.views.mapper, menu)
	if err != nil {
		h.views.Fail(c, err)
		return nil, false
	}
	return view, true
}

// renderForm shows every recipe grouped by dish type, with selected pre-checked
func (h *DailyMenusHandler) renderForm(c *gin.Context, status int, name, title, action string, values dailyMenuForm, selected []uuid.UUID, errs []string) {
	ctx := c.Request.Context()
	groups := make([]DishGroup, 0, len(food.AllDishTypes()))
	for _, dishType := range food.AllDishTypes() {
		recipes, err := mapping.MapAll[RecipeOption](h.views.mapper, h.recipes.GetAllOfDishType(ctx, dishType))
		if err != nil {
			h.views.Fail(c, err)
			return
		}
		groups = append(groups, DishGroup{DishType: dishType, Recipes: recipes})
	}

	h.views.Render(c, status, name, title, Form[dailyMenuForm]{
		Values: values,
		Errors: errs,
		Action: action,
		Options: map[string]any{
			"Groups":   groups,
			"Selected": selected,
		},
	})
}

func (f dailyMenuForm) parse() (time.Time, []uuid.UUID, error) {
	date, err := time.ParseInLocation(dateLayout, f.Date, time.Local)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid date %q", f.Date)
	}
	ids, err := parseIDs(f.RecipeIDs)
	if err != nil {
		return time.Time{}, nil, err
	}
	return date, ids, nil
}

func displayDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}
