package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/signpath/signpath-server/internal/learning"
)

// Learning handles the catalog and AI learning module endpoints.
type Learning struct {
	catalog *learning.Catalog
	module  *learning.Module
}

// NewLearning creates a new Learning handler.
func NewLearning(catalog *learning.Catalog, module *learning.Module) *Learning {
	return &Learning{catalog: catalog, module: module}
}

type selectRequest struct {
	Lesson string `json:"lesson" validate:"required"`
}

type jumpRequest struct {
	Index *int `json:"index" validate:"required"`
}

// Levels handles GET /v1/levels.
func (h *Learning) Levels(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Levels)
}

// Lessons handles GET /v1/lessons.
func (h *Learning) Lessons(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Lessons)
}

// State handles GET /v1/learning.
func (h *Learning) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.module.State())
}

// Select handles POST /v1/learning/select.
func (h *Learning) Select(c echo.Context) error {
	var in selectRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	st, err := h.module.Select(in.Lesson)
	if errors.Is(err, learning.ErrUnknownLesson) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Next handles POST /v1/learning/next.
func (h *Learning) Next(c echo.Context) error {
	return c.JSON(http.StatusOK, h.module.Next())
}

// Prev handles POST /v1/learning/prev.
func (h *Learning) Prev(c echo.Context) error {
	return c.JSON(http.StatusOK, h.module.Prev())
}

// Jump handles POST /v1/learning/jump.
func (h *Learning) Jump(c echo.Context) error {
	var in jumpRequest
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	st, err := h.module.Jump(*in.Index)
	if errors.Is(err, learning.ErrOutOfRange) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Complete handles POST /v1/learning/complete.
func (h *Learning) Complete(c echo.Context) error {
	return c.JSON(http.StatusOK, h.module.MarkCompleted())
}

// Reset handles POST /v1/learning/reset.
func (h *Learning) Reset(c echo.Context) error {
	return c.JSON(http.StatusOK, h.module.Reset())
}
