// Package handlers holds the server-rendered admin controllers of the back office
package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/mapping"
	"github.com/homemadefood/backoffice/internal/domain/food"
	"github.com/homemadefood/backoffice/internal/infrastructure/http/middleware"
	"github.com/homemadefood/backoffice/internal/infrastructure/monitoring"
	"github.com/homemadefood/backoffice/internal/infrastructure/security"
	"github.com/homemadefood/backoffice/internal/ports/outbound"
	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

//go:embed templates
var templatesFS embed.FS

const (
	toastSuccessTitle = "Success"
	toastFailureTitle = "Failure"
	dateLayout        = "2006-01-02"
)

// ParseTemplates compiles every embedded view. A view is named after its
// path below templates/ without the extension, e.g. "recipes/index".
func ParseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Monday, 02 Jan 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format(dateLayout)
		},
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"quantity": func(q float64) string {
			return fmt.Sprintf("%.3f", q)
		},
		"dishLabel": func(d food.DishType) string {
			return d.Label()
		},
		"dishTypes": food.AllDishTypes,
		"add": func(a, b int) int {
			return a + b
		},
		"rows": func(n int) []int {
			return make([]int, n)
		},
		"contains": func(ids []uuid.UUID, id uuid.UUID) bool {
			for _, candidate := range ids {
				if candidate == id {
					return true
				}
			}
			return false
		},
	}

	tmpl := template.New("").Funcs(funcMap)
	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}

		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Page is what every full view is executed with
type Page struct {
	Title     string
	UserEmail string
	CSRFToken string
	Toasts    []outbound.Toast
	Data      any
}

// Views renders pages and carries the collaborators every controller shares
type Views struct {
	mapper   *mapping.Mapper
	toasts   outbound.ToastStore
	metrics  *monitoring.MetricsCollector
	pageSize int
	logger   *zap.Logger
}

// NewViews creates the shared rendering helpers
func NewViews(mapper *mapping.Mapper, toasts outbound.ToastStore, metrics *monitoring.MetricsCollector, pageSize int, logger *zap.Logger) *Views {
	if pageSize <= 0 {
		pageSize = 25
	}
	return &Views{
		mapper:   mapper,
		toasts:   toasts,
		metrics:  metrics,
		pageSize: pageSize,
		logger:   logger.Named("views"),
	}
}

// Render executes a full page, draining the session's pending toasts into it
func (v *Views) Render(c *gin.Context, status int, name, title string, data any) {
	page := Page{
		Title:     title,
		CSRFToken: c.GetString(middleware.ContextCSRFToken),
		Data:      data,
	}
	if claims, ok := security.CurrentClaims(c); ok {
		page.UserEmail = claims.Email
	}

	toasts, err := v.toasts.Pop(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		v.logger.Warn("Failed to read toasts", zap.Error(err))
	}
	page.Toasts = toasts

	c.HTML(status, name, page)
}

// Partial executes a fragment without the layout, leaving toasts queued
func (v *Views) Partial(c *gin.Context, name string, data any) {
	c.HTML(http.StatusOK, name, data)
}

// Toast queues a notification for the next rendered page
func (v *Views) Toast(c *gin.Context, toastType outbound.ToastType, title, message string) {
	toast := outbound.Toast{Title: title, Message: message, Type: toastType}
	if err := v.toasts.Push(c.Request.Context(), c.GetString(middleware.ContextSessionID), toast); err != nil {
		v.logger.Warn("Failed to queue toast", zap.String("title", title), zap.Error(err))
		return
	}
	v.metrics.ToastQueued(string(toastType))
}

// Mutated records the outcome of a kitchen mutation and toasts it
func (v *Views) Mutated(c *gin.Context, entity, operation, message string, err error) {
	v.metrics.KitchenMutation(entity, operation, err)
	if err != nil {
		fields := []zap.Field{
			zap.String("entity", entity),
			zap.String("operation", operation),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
			zap.Error(err),
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.StatusCode() < http.StatusInternalServerError {
			v.logger.Warn("Kitchen mutation rejected", fields...)
		} else {
			v.logger.Error("Kitchen mutation failed", fields...)
		}
		v.Toast(c, outbound.ToastError, toastFailureTitle, message)
		return
	}
	v.Toast(c, outbound.ToastSuccess, toastSuccessTitle, message)
}

// NotFound renders the 404 view
func (v *Views) NotFound(c *gin.Context) {
	v.Render(c, http.StatusNotFound, "errors/404", "Not found", nil)
}

// Fail renders the error view with the status the error carries
func (v *Views) Fail(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err, "Something went wrong. Please try again.")
	status := appErr.StatusCode()
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		message = "Something went wrong. Please try again."
		v.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
			zap.Error(err),
		)
	} else if appErr.Details != "" {
		message += ": " + appErr.Details
	}

	v.Render(c, status, "errors/error", "Error", gin.H{"Message": message})
}

// Page returns the 1-based page requested in ?page= and the slice bounds it covers
func (v *Views) Page(c *gin.Context, total int) Pager {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &page); err != nil || page < 1 {
			page = 1
		}
	}
	return newPager(page, v.pageSize, total)
}

// Pager describes one page of a grid
type Pager struct {
	Page         int
	PageSize     int
	TotalRecords int
	TotalPages   int
	From, To     int
}

func newPager(page, size, total int) Pager {
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		page = pages
	}
	from := (page - 1) * size
	to := min(from+size, total)
	return Pager{
		Page:         page,
		PageSize:     size,
		TotalRecords: total,
		TotalPages:   pages,
		From:         from,
		To:           to,
	}
}

// HasPrevious reports whether a page precedes this one
func (p Pager) HasPrevious() bool { return p.Page > 1 }

// HasNext reports whether a page follows this one
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// paged cuts items down to the pager's window
func paged[T any](items []T, p Pager) []T {
	if p.From >= len(items) {
		return nil
	}
	return items[p.From:p.To]
}

// routeID parses the :id parameter. The empty identifier and unparsable
// values both render the 404 view.
func (v *Views) routeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		v.NotFound(c)
		return uuid.Nil, false
	}
	return id, true
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// describe renders an error for display next to a form
func describe(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Details != "" {
		return appErr.Details
	}
	return err.Error()
}
