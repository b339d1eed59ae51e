package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory implementation of the user, bus and reservation
// stores, with the same check-and-set semantics as the MySQL repositories.
type memStore struct {
	mu sync.Mutex

	users  map[int64]models.User
	byName map[string]int64

	buses map[int64]models.Bus
	seats map[int64]*models.Seat

	bookings map[int64]models.Booking

	nextUser, nextBus, nextSeat, nextBooking int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]models.User{},
		byName:   map[string]int64{},
		buses:    map[int64]models.Bus{},
		seats:    map[int64]*models.Seat{},
		bookings: map[int64]models.Booking{},
	}
}

func (s *memStore) Create(_ context.Context, username, email, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[username]; ok {
		return models.User{}, domain.ValidationError{Field: "username", Msg: "already registered"}
	}
	s.nextUser++
	u := models.User{ID: s.nextUser, Username: username, Email: email, PasswordHash: passwordHash}
	s.users[u.ID] = u
	s.byName[username] = u.ID
	return u, nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[username]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return s.users[id], nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (s *memStore) CreateBus(_ context.Context, bus models.Bus) (models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.buses {
		if b.BusNumber == bus.BusNumber {
			return bus, domain.ValidationError{Field: "bus_number", Msg: "already registered"}
		}
	}
	s.nextBus++
	bus.ID = s.nextBus
	bus.Seats = make([]models.Seat, 0, bus.NoOfSeats)
	for i := 1; i <= bus.NoOfSeats; i++ {
		s.nextSeat++
		seat := &models.Seat{ID: s.nextSeat, BusID: bus.ID, SeatNumber: fmt.Sprintf("A%d", i)}
		s.seats[seat.ID] = seat
		bus.Seats = append(bus.Seats, *seat)
	}
	s.buses[bus.ID] = bus
	return bus, nil
}

func (s *memStore) List(_ context.Context) ([]models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Bus{}
	for id := int64(1); id <= s.nextBus; id++ {
		if bus, ok := s.buses[id]; ok {
			out = append(out, s.withSeats(bus))
		}
	}
	return out, nil
}

func (s *memStore) GetBusByID(_ context.Context, id int64) (models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bus, ok := s.buses[id]
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus"}
	}
	return s.withSeats(bus), nil
}

func (s *memStore) withSeats(bus models.Bus) models.Bus {
	bus.Seats = []models.Seat{}
	for id := int64(1); id <= s.nextSeat; id++ {
		if seat, ok := s.seats[id]; ok && seat.BusID == bus.ID {
			bus.Seats = append(bus.Seats, *seat)
		}
	}
	return bus
}

func (s *memStore) Update(_ context.Context, bus models.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.buses[bus.ID]
	if !ok {
		return domain.NotFoundError{Resource: "bus"}
	}
	bus.NoOfSeats = existing.NoOfSeats
	s.buses[bus.ID] = bus
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buses[id]; !ok {
		return domain.NotFoundError{Resource: "bus"}
	}
	delete(s.buses, id)
	for seatID, seat := range s.seats {
		if seat.BusID == id {
			delete(s.seats, seatID)
		}
	}
	for bookingID, bk := range s.bookings {
		if bk.BusID == id {
			delete(s.bookings, bookingID)
		}
	}
	return nil
}

func (s *memStore) Reserve(_ context.Context, userID, seatID int64) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seats[seatID]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "seat"}
	}
	if seat.IsBooked {
		return models.Booking{}, domain.ConflictError{Resource: "seat", Msg: "already booked"}
	}
	seat.IsBooked = true

	bus := s.buses[seat.BusID]
	s.nextBooking++
	bk := models.Booking{
		ID:          s.nextBooking,
		UserID:      userID,
		BusID:       seat.BusID,
		SeatID:      seatID,
		BookingTime: time.Now(),
		Username:    s.users[userID].Username,
		BusName:     bus.BusName,
		BusNumber:   bus.BusNumber,
		SeatNumber:  seat.SeatNumber,
	}
	s.bookings[bk.ID] = bk
	return bk, nil
}

func (s *memStore) ListByUser(_ context.Context, userID int64) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Booking{}
	for id := int64(1); id <= s.nextBooking; id++ {
		if bk, ok := s.bookings[id]; ok && bk.UserID == userID {
			out = append(out, bk)
		}
	}
	return out, nil
}

func (s *memStore) GetBookingByID(_ context.Context, id int64) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bk, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return bk, nil
}

// Adapters so a single memStore can satisfy the three store interfaces whose
// method names collide.
type memBusStore struct{ *memStore }

func (s memBusStore) Create(ctx context.Context, bus models.Bus) (models.Bus, error) {
	return s.CreateBus(ctx, bus)
}

func (s memBusStore) GetByID(ctx context.Context, id int64) (models.Bus, error) {
	return s.GetBusByID(ctx, id)
}

type memReservationStore struct{ *memStore }

func (s memReservationStore) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	return s.GetBookingByID(ctx, id)
}

func newTestRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	auth := services.AuthService{
		Users:    store,
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	}

	authHandler := AuthHandler{Auth: auth}
	busHandler := BusHandler{Buses: memBusStore{store}}
	bookingHandler := BookingHandler{Store: memReservationStore{store}}

	r := gin.New()
	r.Use(middleware.RequestID())

	r.GET("/buses", busHandler.List)
	r.POST("/buses", busHandler.Create)
	r.GET("/buses/:id", busHandler.Get)
	r.PUT("/buses/:id", busHandler.Update)
	r.PATCH("/buses/:id", busHandler.Patch)
	r.DELETE("/buses/:id", busHandler.Delete)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authed := r.Group("/", middleware.RequireAuth(auth))
	authed.POST("/booking", bookingHandler.Create)
	authed.GET("/booking/:id/ticket", bookingHandler.ETicket)
	authed.GET("/user/:user_id/bookings", bookingHandler.ListForUser)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), "body: %s", w.Body.String())
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) (int64, string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/login", gin.H{
		"username": username,
		"password": "s3cret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", username, w.Body.String())

	var resp struct {
		Token  string `json:"token"`
		UserID int64  `json:"user_id"`
	}
	decodeJSON(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.UserID, resp.Token
}
