package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/store/memory"
)

type orderResponse struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

func newOrderEngine(orders OrderStore, catalog ProductReader, publisher events.Publisher) *gin.Engine {
	r := newTestEngine()
	r.POST("/api/orders", PlaceOrder(orders, catalog, publisher, testLog))
	r.GET("/api/getorder", GetUserOrders(orders, testLog))
	r.GET("/api/getallorders", GetAllOrders(orders, testLog))
	r.PUT("/api/orders/:orderId/update-delivery-status", MarkOrderDelivered(orders, publisher, testLog))
	return r
}

var testOrderBody = gin.H{
	"address":    gin.H{"name": "Asha", "city": "Pune", "country": "IN"},
	"cartItems":  []interface{}{1, "2", 1},
	"totalPrice": 99.5,
}

func TestPlaceOrder_StoresSnapshotAsSupplied(t *testing.T) {
	publisher := &recordingPublisher{}
	r := newOrderEngine(memory.NewOrders(), nil, publisher)

	w := doJSON(t, r, http.MethodPost, "/api/orders", "u1", testOrderBody)
	expectStatus(t, w, http.StatusCreated)

	var resp orderResponse
	decodeBody(t, w, &resp)
	order := resp.Order
	if resp.Message != "Order placed successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if order.UserID != "u1" || order.TotalPrice != 99.5 || order.DeliveryStatus {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.Address.Name != "Asha" || order.Address.City != "Pune" {
		t.Fatalf("unexpected address snapshot: %+v", order.Address)
	}
	want := models.IDList{"1", "2", "1"}
	if len(order.Products) != len(want) {
		t.Fatalf("expected products %v, got %v", want, order.Products)
	}
	for i := range want {
		if order.Products[i] != want[i] {
			t.Fatalf("expected products %v, got %v", want, order.Products)
		}
	}
	if order.CreatedAt.IsZero() || !order.CreatedAt.Equal(order.UpdatedAt) {
		t.Fatalf("expected matching timestamps, got %v and %v", order.CreatedAt, order.UpdatedAt)
	}

	if got := publisher.types(); len(got) != 1 || got[0] != events.OrderPlaced {
		t.Fatalf("expected one order.placed event, got %v", got)
	}
}

func TestPlaceOrder_AcceptsStringTotal(t *testing.T) {
	r := newOrderEngine(memory.NewOrders(), nil, events.Noop{})

	w := doJSON(t, r, http.MethodPost, "/api/orders", "u1", `{"address": {"name": "A"}, "cartItems": ["1"], "totalPrice": "19.98"}`)
	expectStatus(t, w, http.StatusCreated)
	var resp orderResponse
	decodeBody(t, w, &resp)
	if resp.Order.TotalPrice != 19.98 {
		t.Fatalf("expected totalPrice 19.98, got %v", resp.Order.TotalPrice)
	}

	w = doJSON(t, r, http.MethodPost, "/api/orders", "u1", `{"cartItems": ["1"], "totalPrice": "cheap"}`)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestPlaceOrder_PublishFailureKeepsStatus(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	r := newOrderEngine(memory.NewOrders(), nil, publisher)

	w := doJSON(t, r, http.MethodPost, "/api/orders", "u1", testOrderBody)
	expectStatus(t, w, http.StatusCreated)
}

func TestPlaceOrder_RejectsMalformedBody(t *testing.T) {
	r := newOrderEngine(memory.NewOrders(), nil, events.Noop{})

	w := doJSON(t, r, http.MethodPost, "/api/orders", "u1", `{"cartItems": [true]}`)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestPlaceOrder_VerifiesTotalWhenCatalogGiven(t *testing.T) {
	products := memory.NewProducts()
	ctx := context.Background()
	first, _ := products.Create(ctx, models.Product{Title: "Pen", Price: 10})
	second, _ := products.Create(ctx, models.Product{Title: "Ink", Price: 2.5})

	r := newOrderEngine(memory.NewOrders(), products, events.Noop{})

	cases := []struct {
		name   string
		items  []interface{}
		total  float64
		status int
	}{
		{name: "matching total", items: []interface{}{first.ID, second.ID, first.ID}, total: 22.5, status: http.StatusCreated},
		{name: "within tolerance", items: []interface{}{second.ID}, total: 2.504, status: http.StatusCreated},
		{name: "mismatched total", items: []interface{}{first.ID}, total: 1, status: http.StatusUnprocessableEntity},
		{name: "unknown product", items: []interface{}{999}, total: 0, status: http.StatusUnprocessableEntity},
		{name: "non-numeric product", items: []interface{}{"abc"}, total: 0, status: http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/orders", "u1", gin.H{
				"address":    gin.H{"name": "A"},
				"cartItems":  tc.items,
				"totalPrice": tc.total,
			})
			expectStatus(t, w, tc.status)
		})
	}
}

func TestListOrders_ScopedAndOrdered(t *testing.T) {
	r := newOrderEngine(memory.NewOrders(), nil, events.Noop{})

	doJSON(t, r, http.MethodPost, "/api/orders", "u1", testOrderBody)
	doJSON(t, r, http.MethodPost, "/api/orders", "u2", testOrderBody)
	doJSON(t, r, http.MethodPost, "/api/orders", "u1", testOrderBody)

	w := doJSON(t, r, http.MethodGet, "/api/getorder", "u1", nil)
	expectStatus(t, w, http.StatusOK)
	var mine []models.Order
	decodeBody(t, w, &mine)
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders for u1, got %d", len(mine))
	}
	if mine[1].CreatedAt.Before(mine[0].CreatedAt) {
		t.Fatalf("expected ascending createdAt, got %v then %v", mine[0].CreatedAt, mine[1].CreatedAt)
	}

	w = doJSON(t, r, http.MethodGet, "/api/getallorders", "u1", nil)
	expectStatus(t, w, http.StatusOK)
	var all []models.Order
	decodeBody(t, w, &all)
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}

	w = doJSON(t, r, http.MethodGet, "/api/getorder", "nobody", nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "[]" {
		t.Fatalf("expected [], got %s", w.Body.String())
	}
}

func TestMarkOrderDelivered_Idempotent(t *testing.T) {
	publisher := &recordingPublisher{}
	r := newOrderEngine(memory.NewOrders(), nil, publisher)

	w := doJSON(t, r, http.MethodPost, "/api/orders", "u1", testOrderBody)
	var placed orderResponse
	decodeBody(t, w, &placed)
	path := "/api/orders/" + placed.Order.ID.Hex() + "/update-delivery-status"

	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodPut, path, "u1", nil)
		expectStatus(t, w, http.StatusOK)
		var resp orderResponse
		decodeBody(t, w, &resp)
		if resp.Message != "Delivery status updated successfully" || !resp.Order.DeliveryStatus {
			t.Fatalf("unexpected response on call %d: %+v", i+1, resp)
		}
		if resp.Order.TotalPrice != placed.Order.TotalPrice || len(resp.Order.Products) != len(placed.Order.Products) {
			t.Fatalf("snapshot changed on delivery: %+v", resp.Order)
		}
	}

	got := publisher.types()
	if len(got) != 3 || got[1] != events.OrderDelivered || got[2] != events.OrderDelivered {
		t.Fatalf("unexpected events: %v", got)
	}
	if publisher.events[0].State != models.DeliveryPending || publisher.events[2].State != models.DeliveryDelivered {
		t.Fatalf("unexpected event states: %q, %q", publisher.events[0].State, publisher.events[2].State)
	}
}

func TestMarkOrderDelivered_UnknownOrder(t *testing.T) {
	r := newOrderEngine(memory.NewOrders(), nil, events.Noop{})

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		w := doJSON(t, r, http.MethodPut, "/api/orders/"+id+"/update-delivery-status", "u1", nil)
		expectStatus(t, w, http.StatusNotFound)
		var body map[string]string
		decodeBody(t, w, &body)
		if body["message"] != "Order not found" {
			t.Fatalf("unexpected message: %v", body)
		}
	}
}
