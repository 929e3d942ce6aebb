package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	q "github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// ReservationHandler exposes the booking engine over HTTP.  Listing
// endpoints read through the repository directly; every mutation goes
// through the engine so validation order and conflict handling stay in
// one place.
type ReservationHandler struct {
	Engine       *booking.Engine
	Reservations *repository.ReservationRepo
	Clients      *repository.ClientRepo
	Tables       *repository.TableRepo
}

func NewReservationHandler(engine *booking.Engine, reservations *repository.ReservationRepo, clients *repository.ClientRepo, tables *repository.TableRepo) *ReservationHandler {
	return &ReservationHandler{Engine: engine, Reservations: reservations, Clients: clients, Tables: tables}
}

// ----- DTOs -----

type createReservationReq struct {
	ClientID  uint64 `json:"client_id"`
	TableID   uint64 `json:"table_id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Guests    int    `json:"guests"`
	Notes     string `json:"notes"`
}

type patchReservationReq struct {
	TableID   *uint64 `json:"table_id"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Guests    *int    `json:"guests"`
	Notes     *string `json:"notes"`
	Status    *string `json:"status"`
}

type reservationResp struct {
	ID         uint64  `json:"id"`
	ClientID   uint64  `json:"client_id"`
	TableID    uint64  `json:"table_id"`
	CreatedBy  uint64  `json:"created_by_user_id"`
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Guests     int     `json:"guests"`
	BasePrice  float64 `json:"base_price"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
	Version    uint64  `json:"version"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toReservationResp(r *model.Reservation) reservationResp {
	return reservationResp{
		ID:         r.ID,
		ClientID:   r.ClientID,
		TableID:    r.TableID,
		CreatedBy:  r.CreatedByUserID,
		Date:       r.Date.Format(booking.DateLayout),
		StartTime:  booking.FormatClock(r.StartMinutes),
		EndTime:    booking.FormatClock(r.EndMinutes),
		Guests:     r.Guests,
		BasePrice:  r.BasePrice,
		TotalPrice: r.TotalPrice,
		Status:     r.Status.String(),
		Notes:      r.Notes,
		Version:    r.Version,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// parseWindow builds a TimeWindow from request strings.
func parseWindow(date, start, end string) (booking.TimeWindow, error) {
	d, err := booking.ParseDate(date)
	if err != nil {
		return booking.TimeWindow{}, booking.Validation("%v", err)
	}
	s, err := booking.ParseClock(start)
	if err != nil {
		return booking.TimeWindow{}, booking.Validation("%v", err)
	}
	e, err := booking.ParseClock(end)
	if err != nil {
		return booking.TimeWindow{}, booking.Validation("%v", err)
	}
	return booking.NewTimeWindow(d, s, e), nil
}

// Create books a table for a client.
// POST /v1/reservations
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	w, err := parseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	r, err := h.Engine.Create(ctx, booking.CreateRequest{
		ActorID:  actorID(c),
		ClientID: req.ClientID,
		TableID:  req.TableID,
		Window:   w,
		Guests:   req.Guests,
		Notes:    req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.publishBooked(ctx, r)
	return c.JSON(http.StatusCreated, toReservationResp(r))
}

// Get returns one reservation.
// GET /v1/reservations/:id
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Reservation not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// List returns reservations filtered by date or client.
// GET /v1/reservations?date=YYYY-MM-DD | ?client_id=N
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		out []model.Reservation
		err error
	)
	switch {
	case c.QueryParam("date") != "":
		var d time.Time
		d, err = booking.ParseDate(c.QueryParam("date"))
		if err != nil {
			return respondError(c, booking.Validation("%v", err))
		}
		out, err = h.Reservations.ListByDate(ctx, d)
	case c.QueryParam("client_id") != "":
		var cid uint64
		cid, err = strconv.ParseUint(c.QueryParam("client_id"), 10, 64)
		if err != nil {
			return respondError(c, booking.Validation("invalid client_id"))
		}
		out, err = h.Reservations.ListByClient(ctx, cid)
	default:
		return respondError(c, booking.Validation("date or client_id query parameter required"))
	}
	if err != nil {
		return respondError(c, err)
	}

	resp := make([]reservationResp, 0, len(out))
	for i := range out {
		resp = append(resp, toReservationResp(&out[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": resp})
}

// Patch partially updates a reservation.
// PATCH /v1/reservations/:id
func (h *ReservationHandler) Patch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req patchReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var patch booking.Patch
	patch.TableID = req.TableID
	patch.Guests = req.Guests
	patch.Notes = req.Notes
	if req.Date != nil {
		d, err := booking.ParseDate(*req.Date)
		if err != nil {
			return respondError(c, booking.Validation("%v", err))
		}
		patch.Date = &d
	}
	if req.StartTime != nil {
		s, err := booking.ParseClock(*req.StartTime)
		if err != nil {
			return respondError(c, booking.Validation("%v", err))
		}
		patch.Start = &s
	}
	if req.EndTime != nil {
		e, err := booking.ParseClock(*req.EndTime)
		if err != nil {
			return respondError(c, booking.Validation("%v", err))
		}
		patch.End = &e
	}
	if req.Status != nil {
		st := model.ReservationStatus(*req.Status)
		patch.Status = &st
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	r, err := h.Engine.Update(ctx, actorID(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(r))
}

// Cancel marks a reservation CANCELLED.
// DELETE /v1/reservations/:id
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Engine.Cancel(ctx, actorID(c), id); err != nil {
		return respondError(c, err)
	}
	h.publishCancelled(ctx, id)
	return c.NoContent(http.StatusNoContent)
}

// Availability reports whether one table is free for a window, or,
// when table_id is omitted, lists every active table that is free.
// GET /v1/availability?[table_id=N&]date=...&start_time=...&end_time=...
func (h *ReservationHandler) Availability(c echo.Context) error {
	w, err := parseWindow(c.QueryParam("date"), c.QueryParam("start_time"), c.QueryParam("end_time"))
	if err != nil {
		return respondError(c, err)
	}
	if err := w.Validate(); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw := c.QueryParam("table_id"); raw != "" {
		tableID, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil || tableID == 0 {
			return respondError(c, booking.Validation("invalid table_id"))
		}
		free, err := h.Engine.CheckAvailability(ctx, tableID, w, 0)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"table_id":   tableID,
			"date":       w.Date.Format(booking.DateLayout),
			"start_time": booking.FormatClock(w.Start),
			"end_time":   booking.FormatClock(w.End),
			"available":  free,
		})
	}

	tables, err := h.Tables.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	free := make([]tableResp, 0, len(tables))
	for i := range tables {
		t := &tables[i]
		if !t.IsActive() {
			continue
		}
		ok, err := h.Engine.CheckAvailability(ctx, t.ID, w, 0)
		if err != nil {
			return respondError(c, err)
		}
		if ok {
			free = append(free, toTableResp(t))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":        w.Date.Format(booking.DateLayout),
		"start_time":  booking.FormatClock(w.Start),
		"end_time":    booking.FormatClock(w.End),
		"free_tables": free,
	})
}

// Quote prices a window without booking it.
// GET /v1/pricing/quote?table_id=N&date=...&start_time=...&end_time=...
func (h *ReservationHandler) Quote(c echo.Context) error {
	tableID, err := strconv.ParseUint(c.QueryParam("table_id"), 10, 64)
	if err != nil || tableID == 0 {
		return respondError(c, booking.Validation("invalid table_id"))
	}
	w, err := parseWindow(c.QueryParam("date"), c.QueryParam("start_time"), c.QueryParam("end_time"))
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	quote, err := h.Engine.CalculatePrice(ctx, tableID, w)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// publishBooked emits a reservation.booked event.  Failures are logged
// by the publisher and never fail the request.
func (h *ReservationHandler) publishBooked(ctx context.Context, r *model.Reservation) {
	ev := q.ReservationBookedEvent{
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		TableID:       r.TableID,
		Date:          r.Date.Format(booking.DateLayout),
		StartTime:     booking.FormatClock(r.StartMinutes),
		EndTime:       booking.FormatClock(r.EndMinutes),
		Guests:        r.Guests,
		TotalPrice:    r.TotalPrice,
		BookedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if cl, err := h.Clients.GetByID(ctx, r.ClientID); err == nil {
		ev.ClientName = cl.FullName
	}
	if t, err := h.Tables.GetByID(ctx, r.TableID); err == nil {
		ev.TableCode = t.Code
	}
	_ = queue_publisher.PublishReservationBooked(ctx, ev)
}

// publishCancelled emits a reservation.cancelled event.
func (h *ReservationHandler) publishCancelled(ctx context.Context, reservationID uint64) {
	r, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return
	}
	ev := q.ReservationCancelledEvent{
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		TableID:       r.TableID,
		Date:          r.Date.Format(booking.DateLayout),
		StartTime:     booking.FormatClock(r.StartMinutes),
		EndTime:       booking.FormatClock(r.EndMinutes),
		CancelledAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if t, err := h.Tables.GetByID(ctx, r.TableID); err == nil {
		ev.TableCode = t.Code
	}
	_ = queue_publisher.PublishReservationCancelled(ctx, ev)
}
