package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableTypeHandler exposes admin CRUD for table types.
type TableTypeHandler struct {
	Types *repository.TableTypeRepo
}

func NewTableTypeHandler(types *repository.TableTypeRepo) *TableTypeHandler {
	return &TableTypeHandler{Types: types}
}

type tableTypeReq struct {
	Name             string  `json:"name"`
	BasePricePerHour float64 `json:"base_price_per_hour"`
	IsActive         *bool   `json:"is_active"`
}

type tableTypeResp struct {
	ID               uint64  `json:"id"`
	Name             string  `json:"name"`
	BasePricePerHour float64 `json:"base_price_per_hour"`
	IsActive         bool    `json:"is_active"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toTableTypeResp(tt *model.TableType) tableTypeResp {
	return tableTypeResp{
		ID:               tt.ID,
		Name:             tt.Name,
		BasePricePerHour: tt.BasePricePerHour,
		IsActive:         tt.IsActive,
		CreatedAt:        tt.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        tt.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create adds a table type.
// POST /v1/table-types
func (h *TableTypeHandler) Create(c echo.Context) error {
	var req tableTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.BasePricePerHour < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_per_hour must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tt := &model.TableType{Name: req.Name, BasePricePerHour: req.BasePricePerHour}
	if err := h.Types.Create(ctx, tt); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table type name already exists"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toTableTypeResp(tt))
}

// Get returns one table type.
// GET /v1/table-types/:id
func (h *TableTypeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tt, err := h.Types.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table type not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTableTypeResp(tt))
}

// List returns all table types.
// GET /v1/table-types
func (h *TableTypeHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	types, err := h.Types.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]tableTypeResp, 0, len(types))
	for i := range types {
		out = append(out, toTableTypeResp(&types[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"table_types": out})
}

// Update rewrites name, rate and active flag.
// PUT /v1/table-types/:id
func (h *TableTypeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req tableTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.BasePricePerHour < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_per_hour must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tt, err := h.Types.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table type not found"))
		}
		return respondError(c, err)
	}
	tt.Name = req.Name
	tt.BasePricePerHour = req.BasePricePerHour
	if req.IsActive != nil {
		tt.IsActive = *req.IsActive
	}
	if err := h.Types.Update(ctx, tt); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table type name already exists"})
		}
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table type not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTableTypeResp(tt))
}

// Delete removes a type, or deactivates it when tables still reference
// it.
// DELETE /v1/table-types/:id
func (h *TableTypeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hard, err := h.Types.Delete(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table type not found"))
		}
		return respondError(c, err)
	}
	if !hard {
		return c.JSON(http.StatusOK, echo.Map{"deactivated": true, "message": "table type is referenced by tables and was deactivated instead"})
	}
	return c.NoContent(http.StatusNoContent)
}
