// Package notestub serves an in-memory notes API with the same shape as
// the real todo server, for local development and tests.
package notestub

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/idilsaglam/todo-client/internal/model"
)

// Prefix is the mount point of the API.
const Prefix = "/api"

// New returns an echo server exposing store under /api/notes.
func New(store *Store, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	h := &handler{store: store}
	g := e.Group(Prefix + "/notes")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.remove)
	return e
}

type handler struct {
	store *Store
}

func (h *handler) list(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.List())
}

func (h *handler) create(c echo.Context) error {
	var in model.NewTodo
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if in.Title == "" || in.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and content are required")
	}
	n, err := h.store.Add(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *handler) get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	n, err := h.store.Get(id)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *handler) remove(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.store.Delete(id); err != nil {
		return notFound(err)
	}
	return c.NoContent(http.StatusOK)
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return err
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"request_id", req.Header.Get("X-Request-Id"),
				"took", time.Since(start))
			return nil
		}
	}
}
