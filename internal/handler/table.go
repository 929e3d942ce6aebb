package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableHandler exposes admin CRUD for restaurant tables.
type TableHandler struct {
	Tables *repository.TableRepo
	Types  *repository.TableTypeRepo
}

func NewTableHandler(tables *repository.TableRepo, types *repository.TableTypeRepo) *TableHandler {
	return &TableHandler{Tables: tables, Types: types}
}

type createTableReq struct {
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	TableTypeID uint64 `json:"table_type_id"`
}

type updateTableReq struct {
	Capacity *int    `json:"capacity"`
	Location *string `json:"location"`
	Status   *string `json:"status"`
}

type tableResp struct {
	ID          uint64 `json:"id"`
	Code        string `json:"code"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	TableTypeID uint64 `json:"table_type_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toTableResp(t *model.Table) tableResp {
	return tableResp{
		ID:          t.ID,
		Code:        t.Code,
		Capacity:    t.Capacity,
		Location:    t.Location,
		TableTypeID: t.TableTypeID,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create adds a table under an existing active type.  The table code is
// generated server-side from the type name.
// POST /v1/tables
func (h *TableHandler) Create(c echo.Context) error {
	var req createTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tt, err := h.Types.GetByID(ctx, req.TableTypeID)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table type not found"))
		}
		return respondError(c, err)
	}
	if !tt.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table type is inactive"})
	}

	t := &model.Table{
		Capacity:    req.Capacity,
		Location:    strings.TrimSpace(req.Location),
		TableTypeID: req.TableTypeID,
	}
	if err := h.Tables.Create(ctx, t, tt.Name); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table code already exists"})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toTableResp(t))
}

// Get returns one table.
// GET /v1/tables/:id
func (h *TableHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTableResp(t))
}

// List returns tables, optionally filtered by type.
// GET /v1/tables?table_type_id=N
func (h *TableHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		tables []model.Table
		err    error
	)
	if raw := c.QueryParam("table_type_id"); raw != "" {
		typeID, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			return respondError(c, booking.Validation("invalid table_type_id"))
		}
		tables, err = h.Tables.ListByType(ctx, typeID)
	} else {
		tables, err = h.Tables.List(ctx)
	}
	if err != nil {
		return respondError(c, err)
	}
	out := make([]tableResp, 0, len(tables))
	for i := range tables {
		out = append(out, toTableResp(&tables[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}

// Update writes capacity, location and status.  The type binding is
// immutable.
// PATCH /v1/tables/:id
func (h *TableHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table not found"))
		}
		return respondError(c, err)
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
		}
		t.Capacity = *req.Capacity
	}
	if req.Location != nil {
		t.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if status != model.TableActive && status != model.TableInactive {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or INACTIVE"})
		}
		t.Status = status
	}
	if err := h.Tables.Update(ctx, t); err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTableResp(t))
}
