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

// PricingRuleHandler exposes admin CRUD for surcharge rules.
type PricingRuleHandler struct {
	Rules *repository.PricingRuleRepo
	Types *repository.TableTypeRepo
}

func NewPricingRuleHandler(rules *repository.PricingRuleRepo, types *repository.TableTypeRepo) *PricingRuleHandler {
	return &PricingRuleHandler{Rules: rules, Types: types}
}

type pricingRuleReq struct {
	Name         string   `json:"name"`
	RuleType     string   `json:"rule_type"`
	StartTime    string   `json:"start_time"` // HH:MM
	EndTime      string   `json:"end_time"`   // HH:MM
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // YYYY-MM-DD
	SurchargePct float64  `json:"surcharge_percentage"`
	TableTypeID  uint64   `json:"table_type_id"`
	Days         []int    `json:"days"` // 0=Sunday .. 6=Saturday
	IsActive     *bool    `json:"is_active"`
}

type pricingRuleResp struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	RuleType     string  `json:"rule_type"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	SurchargePct float64 `json:"surcharge_percentage"`
	TableTypeID  uint64  `json:"table_type_id"`
	IsActive     bool    `json:"is_active"`
	Days         []int   `json:"days"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toPricingRuleResp(r *model.PricingRule) pricingRuleResp {
	days := make([]int, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, int(d))
	}
	return pricingRuleResp{
		ID:           r.ID,
		Name:         r.Name,
		RuleType:     r.RuleType,
		StartTime:    booking.FormatClock(r.StartMinutes),
		EndTime:      booking.FormatClock(r.EndMinutes),
		StartDate:    r.StartDate.Format(booking.DateLayout),
		EndDate:      r.EndDate.Format(booking.DateLayout),
		SurchargePct: r.SurchargePct,
		TableTypeID:  r.TableTypeID,
		IsActive:     r.IsActive,
		Days:         days,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ruleFromReq validates the request and builds a model.PricingRule.
func ruleFromReq(req pricingRuleReq) (*model.PricingRule, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, booking.Validation("name required")
	}
	if req.SurchargePct < -100 || req.SurchargePct > 100 {
		return nil, booking.Validation("surcharge_percentage must be between -100 and 100")
	}
	start, err := booking.ParseClock(req.StartTime)
	if err != nil {
		return nil, booking.Validation("%v", err)
	}
	end, err := booking.ParseClock(req.EndTime)
	if err != nil {
		return nil, booking.Validation("%v", err)
	}
	if end <= start {
		return nil, booking.Validation("end time must be after start time")
	}
	startDate, err := booking.ParseDate(req.StartDate)
	if err != nil {
		return nil, booking.Validation("%v", err)
	}
	endDate, err := booking.ParseDate(req.EndDate)
	if err != nil {
		return nil, booking.Validation("%v", err)
	}
	if endDate.Before(startDate) {
		return nil, booking.Validation("end_date must not be before start_date")
	}
	if len(req.Days) == 0 {
		return nil, booking.Validation("days must not be empty")
	}
	days := make([]time.Weekday, 0, len(req.Days))
	seen := make(map[int]bool, len(req.Days))
	for _, d := range req.Days {
		if d < 0 || d > 6 {
			return nil, booking.Validation("days entries must be 0 (Sunday) through 6 (Saturday)")
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, time.Weekday(d))
	}
	return &model.PricingRule{
		Name:         name,
		RuleType:     strings.ToUpper(strings.TrimSpace(req.RuleType)),
		StartMinutes: start,
		EndMinutes:   end,
		StartDate:    startDate,
		EndDate:      endDate,
		SurchargePct: req.SurchargePct,
		TableTypeID:  req.TableTypeID,
		Days:         days,
	}, nil
}

// Create attaches a rule to a table type.
// POST /v1/pricing-rules
func (h *PricingRuleHandler) Create(c echo.Context) error {
	var req pricingRuleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rule, err := ruleFromReq(req)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Types.GetByID(ctx, rule.TableTypeID); err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Table type not found"))
		}
		return respondError(c, err)
	}
	if err := h.Rules.Create(ctx, rule); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toPricingRuleResp(rule))
}

// Get returns one rule.
// GET /v1/pricing-rules/:id
func (h *PricingRuleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rule, err := h.Rules.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Pricing rule not found"))
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPricingRuleResp(rule))
}

// List returns the rules of one table type.
// GET /v1/pricing-rules?table_type_id=N
func (h *PricingRuleHandler) List(c echo.Context) error {
	typeID, err := strconv.ParseUint(c.QueryParam("table_type_id"), 10, 64)
	if err != nil || typeID == 0 {
		return respondError(c, booking.Validation("invalid table_type_id"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rules, err := h.Rules.ListByType(ctx, typeID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]pricingRuleResp, 0, len(rules))
	for i := range rules {
		out = append(out, toPricingRuleResp(&rules[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"pricing_rules": out})
}

// Update rewrites a rule.  The table type binding is immutable.
// PUT /v1/pricing-rules/:id
func (h *PricingRuleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req pricingRuleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rule, err := ruleFromReq(req)
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.Rules.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Pricing rule not found"))
		}
		return respondError(c, err)
	}
	rule.ID = current.ID
	rule.TableTypeID = current.TableTypeID
	rule.IsActive = current.IsActive
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if err := h.Rules.Update(ctx, rule); err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Pricing rule not found"))
		}
		return respondError(c, err)
	}
	stored, err := h.Rules.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPricingRuleResp(stored))
}

// Delete soft-deletes a rule.
// DELETE /v1/pricing-rules/:id
func (h *PricingRuleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rules.Deactivate(ctx, id); err != nil {
		if err == booking.ErrNotExists {
			return respondError(c, booking.NotFound("Pricing rule not found"))
		}
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
