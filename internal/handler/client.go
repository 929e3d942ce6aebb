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

// ClientHandler exposes CRUD for restaurant clients.  Clients are only
// ever deactivated, never deleted, so reservation history keeps its
// references.
type ClientHandler struct {
	Clients *repository.ClientRepo
}

func NewClientHandler(clients *repository.ClientRepo) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

type clientReq struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type clientResp struct {
	ID        uint64 `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toClientResp(cl *model.Client) clientResp {
	return clientResp{
		ID:        cl.ID,
		FullName:  cl.FullName,
		Phone:     cl.Phone,
		Email:     cl.Email,
		Status:    cl.Status,
		CreatedAt: cl.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: cl.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ClientHandler) bindAndValidate(c echo.Context, req *clientReq) error {
	if err := c.Bind(req); err != nil {
		return booking.Validation("invalid body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" {
		return booking.Validation("full_name required")
	}
	if req.Phone == "" {
		return booking.Validation("phone required")
	}
	return nil
}

// Create registers a client in ACTIVE status.
// POST /v1/clients
func (h *ClientHandler) Create(c echo.Context) error {
	var req clientReq
	if err := h.bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl := &model.Client{FullName: req.FullName, Phone: req.Phone, Email: req.Email}
	if err := h.Clients.Create(ctx, cl); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toClientResp(cl))
}

// Get returns one client.
// GET /v1/clients/:id
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Client not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toClientResp(cl))
}

// List returns all clients.
// GET /v1/clients
func (h *ClientHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	clients, err := h.Clients.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]clientResp, 0, len(clients))
	for i := range clients {
		out = append(out, toClientResp(&clients[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": out})
}

// Update rewrites the contact fields.
// PUT /v1/clients/:id
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req clientReq
	if err := h.bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cl, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Client not found"))
		}
		return respondError(c, err)
	}
	cl.FullName = req.FullName
	cl.Phone = req.Phone
	cl.Email = req.Email
	if err := h.Clients.Update(ctx, cl); err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Client not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toClientResp(cl))
}

// SetStatus activates or deactivates a client.
// PATCH /v1/clients/:id/status
func (h *ClientHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.ClientActive && status != model.ClientInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or INACTIVE"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Clients.SetStatus(ctx, id, status); err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Client not found"))
		}
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
