package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/api/handler"
	"github.com/sweetshop/sweetshop-api/internal/api/middleware"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

type sweetResponse struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url"`
}

type stubSweetService struct {
	listFn     func(ctx context.Context) ([]domain.Sweet, error)
	addFn      func(ctx context.Context, in ports.SweetInput) (*domain.Sweet, error)
	updateFn   func(ctx context.Context, id int, in ports.SweetInput) (*domain.Sweet, error)
	deleteFn   func(ctx context.Context, id int) error
	purchaseFn func(ctx context.Context, id, quantity int, buyer ports.Buyer) (*domain.Sweet, error)
}

func (s *stubSweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	return s.listFn(ctx)
}

func (s *stubSweetService) Add(ctx context.Context, in ports.SweetInput) (*domain.Sweet, error) {
	return s.addFn(ctx, in)
}

func (s *stubSweetService) Update(ctx context.Context, id int, in ports.SweetInput) (*domain.Sweet, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubSweetService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

func (s *stubSweetService) Purchase(ctx context.Context, id, quantity int, buyer ports.Buyer) (*domain.Sweet, error) {
	return s.purchaseFn(ctx, id, quantity, buyer)
}

func TestSweetHandler_List(t *testing.T) {
	svc := &stubSweetService{
		listFn: func(context.Context) ([]domain.Sweet, error) {
			return []domain.Sweet{
				{ID: 1, Name: "laddu", Category: "candy", Price: 2.5, Stock: 10},
				{ID: 2, Name: "jalebi", Category: "candy", Price: 1.5, Stock: 0},
			}, nil
		},
	}
	h := handler.NewSweetHandler(svc)

	rec := doJSON(newTestEcho(), h.List, http.MethodGet, "/api/sweets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []sweetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp) != 2 || resp[0].Name != "laddu" || resp[1].Stock != 0 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
}

func TestSweetHandler_Add(t *testing.T) {
	svc := &stubSweetService{
		addFn: func(_ context.Context, in ports.SweetInput) (*domain.Sweet, error) {
			return &domain.Sweet{ID: 5, Name: in.Name, Category: in.Category, Price: in.Price, Stock: in.Stock}, nil
		},
	}
	h := handler.NewSweetHandler(svc)

	rec := doJSON(newTestEcho(), h.Add, http.MethodPost, "/api/sweets/add",
		`{"name":"barfi","category":"candy","price":3.0,"stock":12}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp sweetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID != 5 || resp.Name != "barfi" || resp.Stock != 12 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSweetHandler_Add_Validation(t *testing.T) {
	svc := &stubSweetService{
		addFn: func(context.Context, ports.SweetInput) (*domain.Sweet, error) {
			t.Fatal("service called despite invalid payload")
			return nil, nil
		},
	}
	h := handler.NewSweetHandler(svc)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"category":"candy","price":3.0,"stock":1}`},
		{"zero price", `{"name":"x","category":"candy","price":0,"stock":1}`},
		{"negative stock", `{"name":"x","category":"candy","price":1,"stock":-1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(newTestEcho(), h.Add, http.MethodPost, "/api/sweets/add", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSweetHandler_Update_BadID(t *testing.T) {
	h := handler.NewSweetHandler(&stubSweetService{})
	e := newTestEcho()

	for _, id := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodPut, "/api/sweets/update/"+id, strings.NewReader(`{"name":"x","category":"c","price":1,"stock":1}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := h.Update(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", id, rec.Code)
		}
	}
}

func TestSweetHandler_Delete(t *testing.T) {
	deleted := 0
	svc := &stubSweetService{
		deleteFn: func(_ context.Context, id int) error {
			deleted = id
			return nil
		},
	}
	h := handler.NewSweetHandler(svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodDelete, "/api/sweets/delete/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Delete(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if deleted != 7 {
		t.Fatalf("service received id %d", deleted)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["message"] != "Sweet deleted successfully" {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func purchaseContext(e *echo.Echo, target, id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set(middleware.ContextEmail, "u@x.com")
	c.Set(middleware.ContextRole, domain.RoleUser)
	c.Set(middleware.ContextPrincipalID, 7)
	return c, rec
}

func TestSweetHandler_Purchase(t *testing.T) {
	var gotQty int
	var gotBuyer ports.Buyer
	svc := &stubSweetService{
		purchaseFn: func(_ context.Context, id, quantity int, buyer ports.Buyer) (*domain.Sweet, error) {
			gotQty = quantity
			gotBuyer = buyer
			return &domain.Sweet{ID: id, Name: "laddu", Category: "candy", Price: 2.5, Stock: 10 - quantity}, nil
		},
	}
	h := handler.NewSweetHandler(svc)
	e := newTestEcho()

	c, rec := purchaseContext(e, "/api/sweets/purchase/1?quantity=3", "1")
	if err := h.Purchase(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotQty != 3 {
		t.Fatalf("expected quantity 3, got %d", gotQty)
	}
	if gotBuyer.Email != "u@x.com" || gotBuyer.Role != domain.RoleUser || gotBuyer.ID != 7 {
		t.Fatalf("unexpected buyer: %+v", gotBuyer)
	}

	var resp sweetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", resp.Stock)
	}
}

func TestSweetHandler_Purchase_DefaultQuantity(t *testing.T) {
	var gotQty int
	svc := &stubSweetService{
		purchaseFn: func(_ context.Context, id, quantity int, _ ports.Buyer) (*domain.Sweet, error) {
			gotQty = quantity
			return &domain.Sweet{ID: id, Stock: 9}, nil
		},
	}
	h := handler.NewSweetHandler(svc)
	e := newTestEcho()

	c, rec := purchaseContext(e, "/api/sweets/purchase/1", "1")
	if err := h.Purchase(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotQty != 1 {
		t.Fatalf("expected default quantity 1, got %d", gotQty)
	}
}

func TestSweetHandler_Purchase_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", domain.ErrSweetNotFound, http.StatusBadRequest},
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusBadRequest},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubSweetService{
				purchaseFn: func(context.Context, int, int, ports.Buyer) (*domain.Sweet, error) {
					return nil, tc.err
				},
			}
			h := handler.NewSweetHandler(svc)
			e := newTestEcho()

			c, rec := purchaseContext(e, "/api/sweets/purchase/1?quantity=5", "1")
			if err := h.Purchase(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSweetHandler_Purchase_NoIdentity(t *testing.T) {
	svc := &stubSweetService{
		purchaseFn: func(context.Context, int, int, ports.Buyer) (*domain.Sweet, error) {
			t.Fatal("service called without identity")
			return nil, nil
		},
	}
	h := handler.NewSweetHandler(svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/sweets/purchase/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Purchase(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
