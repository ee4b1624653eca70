package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cardealer/internal/domain"
)

func TestOrdersByEmailIsPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/orders/by-email?user=ghost@example.com", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list for unknown email, got %s", rec.Body.String())
	}
}

func TestOrdersByEmailFlattensItems(t *testing.T) {
	env := newTestEnv(t)
	env.users.byEmail["jo@example.com"] = &domain.User{UserID: 1, Email: "jo@example.com"}

	img := "https://img.example.com/corolla.jpg"
	env.orders.byUser = []domain.Order{{
		OrderID:   5,
		UserID:    1,
		FullName:  "Jo Doe",
		Total:     1850000,
		CreatedAt: time.Now(),
		Items: []domain.OrderItem{{
			OrderItemID: 11,
			OrderID:     5,
			CarID:       3,
			Price:       1850000,
			Quantity:    1,
			Car:         &domain.Car{CarID: 3, Make: "Toyota", Model: "Corolla", Year: 2021, Price: 1790000, Image: &img},
		}},
	}}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/orders/by-email?user=jo@example.com", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	// Item fields are flat: car display fields next to the snapshot
	// price, no nested car object.
	for _, want := range []string{
		`"orderId":5`, `"total":1850000`, `"rating":null`, `"createdAt":`,
		`"carId":3`, `"make":"Toyota"`, `"model":"Corolla"`, `"year":2021`,
		`"price":1850000`, `"image":"https://img.example.com/corolla.jpg"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in body: %s", want, body)
		}
	}
	for _, reject := range []string{`"car":`, `"quantity":`, `"fullName":`, `"userId":`} {
		if strings.Contains(body, reject) {
			t.Fatalf("unexpected %s in body: %s", reject, body)
		}
	}
}

func TestGetOrderRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/orders/5", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/orders/5", nil)
	req.Header.Set("Authorization", env.bearer(t, 1, domain.RoleUser))
	rec = env.do(req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	env.orders.byID[5] = &domain.Order{OrderID: 5, UserID: 1, FullName: "Jo Doe"}
	req = httptest.NewRequest(http.MethodGet, "/orders/5", nil)
	req.Header.Set("Authorization", env.bearer(t, 2, domain.RoleAdmin))
	rec = env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrderRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"fullName":"Jo Doe","items":[{"carId":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPlaceOrderInvalidCar(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"fullName":"Jo Doe","items":[{"carId":99,"quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearer(t, 1, domain.RoleUser))
	rec := env.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invalid carId in items") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	env := newTestEnv(t)
	env.cars.cars[3] = &domain.Car{CarID: 3, Make: "Toyota", Model: "Corolla", Price: 1850000}

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"fullName":"Jo Doe","items":[{"carId":3,"quantity":2}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearer(t, 1, domain.RoleUser))
	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"total":3700000`) {
		t.Fatalf("expected server-computed total, got %s", rec.Body.String())
	}
}

func TestCancelRatedOrderConflicts(t *testing.T) {
	env := newTestEnv(t)
	rating := 5
	ratedAt := time.Now()
	env.users.byEmail["jo@example.com"] = &domain.User{UserID: 1, Email: "jo@example.com"}
	env.orders.owned[5] = &domain.Order{OrderID: 5, UserID: 1, Rating: &rating, RatedAt: &ratedAt}

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/orders/5?user=jo@example.com", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "already_completed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCancelUnratedOrder(t *testing.T) {
	env := newTestEnv(t)
	env.users.byEmail["jo@example.com"] = &domain.User{UserID: 1, Email: "jo@example.com"}
	env.orders.owned[5] = &domain.Order{OrderID: 5, UserID: 1}

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/orders/5?user=jo@example.com", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCancelForeignOrder(t *testing.T) {
	env := newTestEnv(t)
	env.users.byEmail["jo@example.com"] = &domain.User{UserID: 1, Email: "jo@example.com"}
	env.orders.owned[5] = &domain.Order{OrderID: 5, UserID: 2}

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/orders/5?user=jo@example.com", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	env.orders.owned[5] = &domain.Order{OrderID: 5, UserID: 1}

	for _, body := range []string{`{"rating":0}`, `{"rating":6}`, `{"rating":3.5}`} {
		req := httptest.NewRequest(http.MethodPatch, "/my/orders/5/rating", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", env.bearer(t, 1, domain.RoleUser))
		rec := env.do(req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRateOrderForeign(t *testing.T) {
	env := newTestEnv(t)
	env.orders.owned[5] = &domain.Order{OrderID: 5, UserID: 2}

	req := httptest.NewRequest(http.MethodPatch, "/my/orders/5/rating", strings.NewReader(`{"rating":5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearer(t, 1, domain.RoleUser))
	rec := env.do(req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRateOrderResponseShape(t *testing.T) {
	env := newTestEnv(t)
	env.orders.owned[5] = &domain.Order{OrderID: 5, UserID: 1}

	req := httptest.NewRequest(http.MethodPatch, "/my/orders/5/rating", strings.NewReader(`{"rating":4,"comment":" solid car "}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", env.bearer(t, 1, domain.RoleUser))
	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"ok":true`, `"orderId":5`, `"rating":4`, `"ratingComment":"solid car"`, `"ratedAt":`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in body: %s", want, body)
		}
	}
}
