// README: Handler tests for auth gates and domain error mapping.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bazaar/internal/http/handlers"
	httpmiddleware "bazaar/internal/http/middleware"
	"bazaar/internal/infra"
	"bazaar/internal/modules/booking"
	"bazaar/internal/types"
)

// stubTokenVerifier is a test double for infra.TokenVerifier.
type stubTokenVerifier struct {
	token *infra.FirebaseToken
	err   error
}

func (s *stubTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*infra.FirebaseToken, error) {
	return s.token, s.err
}

// stubBookingAPI is a canned-response double for handlers.BookingAPI.
type stubBookingAPI struct {
	booking       *booking.Booking
	createID      types.ID
	createErr     error
	transitionErr error
	assignErr     error
}

func (s *stubBookingAPI) Create(context.Context, booking.CreateCommand) (types.ID, error) {
	return s.createID, s.createErr
}

func (s *stubBookingAPI) Get(context.Context, types.ID) (*booking.Booking, error) {
	if s.booking == nil {
		return nil, booking.ErrNotFound
	}
	return s.booking, nil
}

func (s *stubBookingAPI) Events(context.Context, types.ID) ([]booking.Event, error) {
	return nil, nil
}

func (s *stubBookingAPI) Transition(context.Context, booking.TransitionCommand) error {
	return s.transitionErr
}

func (s *stubBookingAPI) Assign(context.Context, booking.AssignCommand) error {
	return s.assignErr
}

func (s *stubBookingAPI) DispatchLogistics(context.Context, booking.DispatchCommand) (types.ID, error) {
	return "", nil
}

func (s *stubBookingAPI) History(context.Context, types.ID, booking.Vertical) ([]booking.HistoryEntry, error) {
	return nil, nil
}

func (s *stubBookingAPI) Board(context.Context, booking.Vertical, booking.Status, int) ([]booking.Booking, error) {
	return nil, nil
}

func (s *stubBookingAPI) Tasks(context.Context, types.ID) ([]booking.Booking, error) {
	return nil, nil
}

func buildTestRouter(verifier infra.TokenVerifier, api handlers.BookingAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(httpmiddleware.Auth(verifier))

	h := handlers.NewBookingHandler(api)
	r.POST("/bookings/:vertical", h.Create)
	r.GET("/bookings/:id", h.Get)
	r.PUT("/bookings/:id/cancel", h.Cancel)

	// The admin handler only reaches the booking API in these tests, so the
	// worker and user services can stay nil behind the role gate.
	admin := handlers.NewAdminHandler(api, nil, nil, 5)
	ag := r.Group("/admin", httpmiddleware.RequireRole("admin"))
	ag.PUT("/bookings/:id/assign", admin.Assign)
	ag.PUT("/bookings/:id/status", admin.SetStatus)
	return r
}

func makeVerifier(uid, role string) *stubTokenVerifier {
	claims := map[string]interface{}{}
	if role != "" {
		claims["role"] = role
	}
	return &stubTokenVerifier{token: &infra.FirebaseToken{UID: uid, Claims: claims}}
}

func doRequest(r *gin.Engine, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_Unauthenticated(t *testing.T) {
	r := buildTestRouter(&stubTokenVerifier{err: errors.New("no token")}, &stubBookingAPI{})
	w := doRequest(r, http.MethodPost, "/bookings/cab", map[string]any{}, "Bearer badtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreate_Created(t *testing.T) {
	r := buildTestRouter(makeVerifier("cust1", ""), &stubBookingAPI{createID: "bk1"})
	w := doRequest(r, http.MethodPost, "/bookings/cab", map[string]any{
		"pickup":  map[string]any{"address": "MG Road"},
		"dropoff": map[string]any{"address": "Airport"},
	}, "Bearer token")
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestCreate_UnknownVerticalMapsTo400(t *testing.T) {
	r := buildTestRouter(makeVerifier("cust1", ""), &stubBookingAPI{createErr: booking.ErrUnknownVertical})
	w := doRequest(r, http.MethodPost, "/bookings/groceries", map[string]any{}, "Bearer token")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGet_NotYourBooking(t *testing.T) {
	api := &stubBookingAPI{booking: &booking.Booking{ID: "bk1", Vertical: booking.VerticalCab, CustomerID: "owner"}}
	r := buildTestRouter(makeVerifier("intruder", ""), api)
	w := doRequest(r, http.MethodGet, "/bookings/bk1", nil, "Bearer token")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestGet_AdminSeesAll(t *testing.T) {
	api := &stubBookingAPI{booking: &booking.Booking{ID: "bk1", Vertical: booking.VerticalCab, CustomerID: "owner"}}
	r := buildTestRouter(makeVerifier("someadmin", "admin"), api)
	w := doRequest(r, http.MethodGet, "/bookings/bk1", nil, "Bearer token")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestGet_Missing(t *testing.T) {
	r := buildTestRouter(makeVerifier("cust1", ""), &stubBookingAPI{})
	w := doRequest(r, http.MethodGet, "/bookings/bk404", nil, "Bearer token")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCancel_WrongCustomer(t *testing.T) {
	api := &stubBookingAPI{booking: &booking.Booking{ID: "bk1", Vertical: booking.VerticalCab, CustomerID: "owner"}}
	r := buildTestRouter(makeVerifier("intruder", ""), api)
	w := doRequest(r, http.MethodPut, "/bookings/bk1/cancel", nil, "Bearer token")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestCancel_TerminalStateMapsTo409(t *testing.T) {
	api := &stubBookingAPI{
		booking:       &booking.Booking{ID: "bk1", Vertical: booking.VerticalCab, CustomerID: "cust1", Status: booking.StatusCompleted},
		transitionErr: booking.ErrInvalidState,
	}
	r := buildTestRouter(makeVerifier("cust1", ""), api)
	w := doRequest(r, http.MethodPut, "/bookings/bk1/cancel", nil, "Bearer token")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAssign_RequiresAdminRole(t *testing.T) {
	r := buildTestRouter(makeVerifier("worker1", "worker"), &stubBookingAPI{})
	w := doRequest(r, http.MethodPut, "/admin/bookings/bk1/assign",
		map[string]any{"assignee_id": "w1"}, "Bearer token")
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAssign_ConflictMapsTo409(t *testing.T) {
	r := buildTestRouter(makeVerifier("adm1", "admin"), &stubBookingAPI{assignErr: booking.ErrConflict})
	w := doRequest(r, http.MethodPut, "/admin/bookings/bk1/assign",
		map[string]any{"assignee_id": "w1"}, "Bearer token")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestSetStatus_ForeignStatusMapsTo400(t *testing.T) {
	r := buildTestRouter(makeVerifier("adm1", "admin"), &stubBookingAPI{transitionErr: booking.ErrBadStatus})
	w := doRequest(r, http.MethodPut, "/admin/bookings/bk1/status",
		map[string]any{"status": "driving"}, "Bearer token")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
