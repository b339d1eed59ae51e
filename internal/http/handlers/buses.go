package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// BusStore is the inventory surface the bus endpoints depend on.
type BusStore interface {
	Create(ctx context.Context, bus models.Bus) (models.Bus, error)
	List(ctx context.Context) ([]models.Bus, error)
	GetByID(ctx context.Context, id int64) (models.Bus, error)
	Update(ctx context.Context, bus models.Bus) error
	Delete(ctx context.Context, id int64) error
}

type BusHandler struct {
	Buses BusStore
}

type busPayload struct {
	BusName     string  `json:"bus_name"`
	BusNumber   string  `json:"bus_number"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Features    string  `json:"features"`
	StartTime   string  `json:"start_time"`
	ReachTime   string  `json:"reach_time"`
	NoOfSeats   int     `json:"no_of_seats"`
	Price       float64 `json:"price"`
}

func (p busPayload) validate(requireSeats bool) error {
	if strings.TrimSpace(p.BusName) == "" {
		return domain.ValidationError{Field: "bus_name", Msg: "must not be empty"}
	}
	if strings.TrimSpace(p.BusNumber) == "" {
		return domain.ValidationError{Field: "bus_number", Msg: "must not be empty"}
	}
	if strings.TrimSpace(p.Origin) == "" || strings.TrimSpace(p.Destination) == "" {
		return domain.ValidationError{Field: "route", Msg: "origin and destination are required"}
	}
	if _, err := time.Parse("15:04", p.StartTime); err != nil {
		return domain.ValidationError{Field: "start_time", Msg: "must be HH:MM"}
	}
	if _, err := time.Parse("15:04", p.ReachTime); err != nil {
		return domain.ValidationError{Field: "reach_time", Msg: "must be HH:MM"}
	}
	if requireSeats && p.NoOfSeats <= 0 {
		return domain.ValidationError{Field: "no_of_seats", Msg: "must be positive"}
	}
	if p.Price < 0 {
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	return nil
}

func (p busPayload) toModel() models.Bus {
	return models.Bus{
		BusName:     strings.TrimSpace(p.BusName),
		BusNumber:   strings.TrimSpace(p.BusNumber),
		Origin:      strings.TrimSpace(p.Origin),
		Destination: strings.TrimSpace(p.Destination),
		Features:    strings.TrimSpace(p.Features),
		StartTime:   p.StartTime,
		ReachTime:   p.ReachTime,
		NoOfSeats:   p.NoOfSeats,
		Price:       p.Price,
	}
}

// GET /buses
func (h BusHandler) List(c *gin.Context) {
	buses, err := h.Buses.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

// POST /buses
func (h BusHandler) Create(c *gin.Context) {
	var payload busPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if err := payload.validate(true); err != nil {
		RespondDomainError(c, err)
		return
	}

	bus, err := h.Buses.Create(c.Request.Context(), payload.toModel())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bus)
}

// GET /buses/:id
func (h BusHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bus, err := h.Buses.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, bus)
}

// PUT /buses/:id
func (h BusHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload busPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if err := payload.validate(false); err != nil {
		RespondDomainError(c, err)
		return
	}

	bus := payload.toModel()
	bus.ID = id
	if err := h.Buses.Update(c.Request.Context(), bus); err != nil {
		RespondDomainError(c, err)
		return
	}

	updated, err := h.Buses.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type busPatchPayload struct {
	BusName     *string  `json:"bus_name"`
	BusNumber   *string  `json:"bus_number"`
	Origin      *string  `json:"origin"`
	Destination *string  `json:"destination"`
	Features    *string  `json:"features"`
	StartTime   *string  `json:"start_time"`
	ReachTime   *string  `json:"reach_time"`
	Price       *float64 `json:"price"`
}

// PATCH /buses/:id
func (h BusHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch busPatchPayload
	if !BindJSONOrError(c, &patch) {
		return
	}

	bus, err := h.Buses.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if patch.BusName != nil {
		bus.BusName = strings.TrimSpace(*patch.BusName)
	}
	if patch.BusNumber != nil {
		bus.BusNumber = strings.TrimSpace(*patch.BusNumber)
	}
	if patch.Origin != nil {
		bus.Origin = strings.TrimSpace(*patch.Origin)
	}
	if patch.Destination != nil {
		bus.Destination = strings.TrimSpace(*patch.Destination)
	}
	if patch.Features != nil {
		bus.Features = strings.TrimSpace(*patch.Features)
	}
	if patch.StartTime != nil {
		bus.StartTime = *patch.StartTime
	}
	if patch.ReachTime != nil {
		bus.ReachTime = *patch.ReachTime
	}
	if patch.Price != nil {
		bus.Price = *patch.Price
	}

	merged := busPayload{
		BusName:     bus.BusName,
		BusNumber:   bus.BusNumber,
		Origin:      bus.Origin,
		Destination: bus.Destination,
		Features:    bus.Features,
		StartTime:   bus.StartTime,
		ReachTime:   bus.ReachTime,
		NoOfSeats:   bus.NoOfSeats,
		Price:       bus.Price,
	}
	if err := merged.validate(false); err != nil {
		RespondDomainError(c, err)
		return
	}

	if err := h.Buses.Update(c.Request.Context(), bus); err != nil {
		RespondDomainError(c, err)
		return
	}

	updated, err := h.Buses.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /buses/:id
func (h BusHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Buses.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bus deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid id")
		return 0, false
	}
	return id, true
}
