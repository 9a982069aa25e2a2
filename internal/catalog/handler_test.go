package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"sweetshop/internal/auth"
)

type fakeSweetStore struct {
	sweets []Sweet
	next   int64
}

func (f *fakeSweetStore) List(ctx context.Context, flt Filter) ([]Sweet, error) {
	result := []Sweet{}
	for _, sw := range f.sweets {
		if flt.Search != "" && !strings.Contains(sw.Name, flt.Search) && !strings.Contains(sw.Category, flt.Search) {
			continue
		}
		if flt.Name != "" && !strings.Contains(sw.Name, flt.Name) {
			continue
		}
		if flt.Category != "" && !strings.Contains(sw.Category, flt.Category) {
			continue
		}
		if flt.MinPrice != nil && sw.Price < *flt.MinPrice {
			continue
		}
		if flt.MaxPrice != nil && sw.Price > *flt.MaxPrice {
			continue
		}
		result = append(result, sw)
	}
	return result, nil
}

func (f *fakeSweetStore) Create(ctx context.Context, sw *Sweet) error {
	f.next++
	sw.ID = f.next
	f.sweets = append(f.sweets, *sw)
	return nil
}

func (f *fakeSweetStore) Update(ctx context.Context, id int64, p Patch) (*Sweet, error) {
	for i := range f.sweets {
		if f.sweets[i].ID != id {
			continue
		}
		if p.Name != nil {
			f.sweets[i].Name = *p.Name
		}
		if p.Category != nil {
			f.sweets[i].Category = *p.Category
		}
		if p.Price != nil {
			f.sweets[i].Price = *p.Price
		}
		if p.Quantity != nil {
			f.sweets[i].Quantity = *p.Quantity
		}
		sw := f.sweets[i]
		return &sw, nil
	}
	return nil, ErrNotFound
}

func (f *fakeSweetStore) Delete(ctx context.Context, id int64) error {
	for i := range f.sweets {
		if f.sweets[i].ID == id {
			f.sweets = append(f.sweets[:i], f.sweets[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func seededStore() *fakeSweetStore {
	return &fakeSweetStore{
		sweets: []Sweet{
			{ID: 1, Name: "Lollipops", Category: "Hard Candy", Price: 1.99, Quantity: 50},
			{ID: 2, Name: "Jelly Beans", Category: "Gummies", Price: 3.99, Quantity: 40},
			{ID: 3, Name: "Rock Candy", Category: "Hard Candy", Price: 4.99, Quantity: 22},
			{ID: 4, Name: "Chocolate Truffles", Category: "Chocolate", Price: 6.99, Quantity: 15},
		},
		next: 4,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func asUser(req *http.Request, role auth.Role) *http.Request {
	u := &auth.User{ID: 99, Username: "tester", Role: role}
	return req.WithContext(auth.WithUser(req.Context(), u))
}

func decodeSweets(t *testing.T, rec *httptest.ResponseRecorder) []Sweet {
	t.Helper()
	var got []Sweet
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestListReturnsAll(t *testing.T) {
	h := &CollectionHandler{Store: seededStore(), Logger: discardLogger()}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/sweets", nil), auth.RoleCustomer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeSweets(t, rec); len(got) != 4 {
		t.Fatalf("got %d sweets, want 4", len(got))
	}
}

func TestListSearchMatchesNameOrCategory(t *testing.T) {
	h := &CollectionHandler{Store: seededStore(), Logger: discardLogger()}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/sweets?search=Candy", nil), auth.RoleCustomer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeSweets(t, rec)
	// "Candy" hits Rock Candy by name and Lollipops via the Hard Candy category.
	if len(got) != 2 {
		t.Fatalf("got %d sweets, want 2: %+v", len(got), got)
	}
}

func TestSearchPriceBoundsInclusive(t *testing.T) {
	h := &SearchHandler{Store: seededStore(), Logger: discardLogger()}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/sweets/search?min_price=3&max_price=5", nil), auth.RoleCustomer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeSweets(t, rec)
	if len(got) != 2 || got[0].Price != 3.99 || got[1].Price != 4.99 {
		t.Fatalf("price range 3..5 should return the 3.99 and 4.99 items: %+v", got)
	}
}

func TestSearchCombinesFilters(t *testing.T) {
	h := &SearchHandler{Store: seededStore(), Logger: discardLogger()}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/sweets/search?category=Hard+Candy&min_price=3", nil), auth.RoleCustomer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := decodeSweets(t, rec)
	if len(got) != 1 || got[0].Name != "Rock Candy" {
		t.Fatalf("ANDed filters should leave only Rock Candy: %+v", got)
	}
}

func TestSearchRejectsUnparseablePriceBounds(t *testing.T) {
	h := &SearchHandler{Store: seededStore(), Logger: discardLogger()}
	for _, target := range []string{
		"/api/sweets/search?min_price=abc",
		"/api/sweets/search?max_price=cheap",
	} {
		req := asUser(httptest.NewRequest(http.MethodGet, target, nil), auth.RoleCustomer)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestCreateRequiresAdmin(t *testing.T) {
	store := seededStore()
	h := &CollectionHandler{Store: store, Logger: discardLogger()}
	body := `{"name":"Mints","category":"Hard Candy","price":2.5,"quantity":10}`

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/sweets", strings.NewReader(body)), auth.RoleCustomer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer create status = %d, want 403", rec.Code)
	}

	req = asUser(httptest.NewRequest(http.MethodPost, "/api/sweets", strings.NewReader(body)), auth.RoleAdmin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin create status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got Sweet
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID == 0 || got.Name != "Mints" {
		t.Fatalf("unexpected sweet: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	h := &CollectionHandler{Store: seededStore(), Logger: discardLogger()}
	cases := []string{
		`{"category":"Hard Candy","price":2.5,"quantity":10}`,
		`{"name":"Mints","category":"Hard Candy","quantity":10}`,
		`{"name":"Mints","category":"Hard Candy","price":-1,"quantity":10}`,
		`{"name":"Mints","category":"Hard Candy","price":2.5,"quantity":-3}`,
		`not json`,
	}
	for _, body := range cases {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/sweets", strings.NewReader(body)), auth.RoleAdmin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestUpdateTouchesOnlyProvidedFields(t *testing.T) {
	store := seededStore()
	h := &ItemHandler{Store: store, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPut, "/api/sweets/1", strings.NewReader(`{"quantity":5}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got Sweet
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", got.Quantity)
	}
	if got.Name != "Lollipops" || got.Category != "Hard Candy" || got.Price != 1.99 {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestUpdateUnknownIDNotFound(t *testing.T) {
	h := &ItemHandler{Store: seededStore(), Logger: discardLogger()}
	req := httptest.NewRequest(http.MethodPut, "/api/sweets/999", strings.NewReader(`{"quantity":5}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteThenUpdateNotFound(t *testing.T) {
	store := seededStore()
	h := &ItemHandler{Store: store, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodDelete, "/api/sweets/2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sweets/2", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/sweets/2", strings.NewReader(`{"quantity":1}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update after delete status = %d, want 404", rec.Code)
	}
}

func TestItemHandlerRejectsBadID(t *testing.T) {
	h := &ItemHandler{Store: seededStore(), Logger: discardLogger()}
	req := httptest.NewRequest(http.MethodDelete, "/api/sweets/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestItemHandlerRejectsExtraPathSegments(t *testing.T) {
	store := seededStore()
	h := &ItemHandler{Store: store, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPut, "/api/sweets/1/extra", strings.NewReader(`{"quantity":5}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if store.sweets[0].Quantity != 50 {
		t.Fatalf("sweet 1 must not be updated through a deeper path")
	}
}
