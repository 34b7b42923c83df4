package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textilua/promoshop/internal/compose"
	"github.com/textilua/promoshop/internal/domain"
	"github.com/textilua/promoshop/internal/usecase"
)

type memProductRepo struct {
	products map[string]*domain.Product
}

func (r *memProductRepo) Save(ctx context.Context, p *domain.Product) error {
	r.products[p.Slug] = p
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memProductRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, ok := r.products[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) AddImages(ctx context.Context, productID uuid.UUID, imgs []domain.ImageRecord) error {
	return nil
}

func (r *memProductRepo) ListVariants(ctx context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	return nil, nil
}

type memOrderRepo struct{ saved []domain.Order }

func (r *memOrderRepo) Save(ctx context.Context, o *domain.Order) error {
	r.saved = append(r.saved, *o)
	return nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (r *memOrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	return r.saved, nil
}

func (r *memOrderRepo) MarkNotified(ctx context.Context, id uuid.UUID) error { return nil }

type memQueue struct{ queued []domain.Order }

func (q *memQueue) Enqueue(o *domain.Order) error {
	q.queued = append(q.queued, *o)
	return nil
}
func (q *memQueue) Pending() ([]domain.Order, error) { return q.queued, nil }
func (q *memQueue) Remove(id uuid.UUID) error        { return nil }

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, n domain.OperatorNotification) error { return nil }

func newTestHandler(t *testing.T) (http.Handler, *memOrderRepo) {
	t.Helper()
	products := &memProductRepo{products: map[string]*domain.Product{
		"futbolka-classic": {
			ID:        uuid.New(),
			Slug:      "futbolka-classic",
			Title:     "Футболка Classic",
			BasePrice: 320,
			Image:     "https://cdn.example.com/default-view.png",
			Images: []domain.ImageRecord{
				{URL: "https://cdn.example.com/blue-front.png", Color: "Blue"},
			},
		},
	}}
	orderRepo := &memOrderRepo{}
	orders := &usecase.OrderUC{
		Orders:   orderRepo,
		Queue:    &memQueue{},
		Notifier: noopNotifier{},
		Exporter: compose.NewExporter(nil),
	}
	h := New(&usecase.CatalogUC{Products: products}, usecase.NewDesignUC(), orders, compose.NewHTTPFetcher(), nil, nil)
	return h, orderRepo
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResp(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestConstructorFlow(t *testing.T) {
	h, orderRepo := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/constructor/session", map[string]any{
		"product_slug": "futbolka-classic",
		"color":        "Синій",
		"view":         "front",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		SessionID string   `json:"session_id"`
		Angles    []string `json:"angles"`
		Display   string   `json:"display"`
	}
	decodeResp(t, w, &created)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, "https://cdn.example.com/blue-front.png", created.Display)
	base := "/api/constructor/session/" + created.SessionID

	// Upload a small PNG through the multipart endpoint.
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 40, 40))))
	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/upload", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded struct {
		ObjectID string `json:"object_id"`
	}
	decodeResp(t, rec, &uploaded)
	require.NotEmpty(t, uploaded.ObjectID)

	w = doJSON(t, h, http.MethodPost, base+"/object/"+uploaded.ObjectID+"/move", map[string]any{"x": 120.0, "y": 80.0})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodPost, base+"/object/"+uploaded.ObjectID+"/filter", map[string]any{"tone": "grayscale"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodPost, base+"/print", map[string]any{
		"method": "print", "placement": "chest", "size": "medium", "qty": 50,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var priced struct {
		BrandingPrice float64 `json:"branding_price"`
		Discount      float64 `json:"discount"`
	}
	decodeResp(t, w, &priced)
	assert.InDelta(t, 40.0, priced.BrandingPrice, 1e-9)
	assert.InDelta(t, 0.10, priced.Discount, 1e-9)

	w = doJSON(t, h, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var exported struct {
		Image string `json:"image"`
	}
	decodeResp(t, w, &exported)
	assert.Contains(t, exported.Image, "data:image/png;base64,")

	w = doJSON(t, h, http.MethodPost, base+"/order", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var submitted struct {
		OrderID string  `json:"order_id"`
		Total   float64 `json:"total"`
		Status  string  `json:"status"`
	}
	decodeResp(t, w, &submitted)
	assert.Equal(t, "pending", submitted.Status)
	// (320 + 40) * 50 units with the 10% volume discount.
	assert.InDelta(t, 16200.0, submitted.Total, 1e-9)
	require.Len(t, orderRepo.saved, 1)
	assert.Equal(t, 50, orderRepo.saved[0].Qty)
}

func TestSubmitEmptyCanvasRejected(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/api/constructor/session", map[string]any{
		"product_slug": "futbolka-classic",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		SessionID string `json:"session_id"`
	}
	decodeResp(t, w, &created)

	w = doJSON(t, h, http.MethodPost, "/api/constructor/session/"+created.SessionID+"/order", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doJSON(t, h, http.MethodPost, "/api/constructor/session/"+uuid.NewString()+"/text", map[string]any{"content": "Текст"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownProductSlug(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doJSON(t, h, http.MethodPost, "/api/constructor/session", map[string]any{"product_slug": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRequiresToken(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doJSON(t, h, http.MethodGet, "/admin/orders.xlsx", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	t.Setenv("ADMIN_ALLOWED_EMAILS", "ops@textilua.example")
	h, _ := newTestHandler(t)

	// Reach into the issue path the OAuth callback uses.
	srv := &Server{adminSecret: []byte("dev-admin-secret")}
	tok, _ := srv.issueAdminToken("ops@textilua.example", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/fallback", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	w := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
