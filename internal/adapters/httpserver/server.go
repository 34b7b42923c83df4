package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/textilua/promoshop/internal/adapters/scraper"
	"github.com/textilua/promoshop/internal/compose"
	"github.com/textilua/promoshop/internal/domain"
	"github.com/textilua/promoshop/internal/usecase"
)

type Server struct {
	mux     *http.ServeMux
	catalog *usecase.CatalogUC
	designs *usecase.DesignUC
	orders  *usecase.OrderUC
	fetcher compose.Fetcher
	scraper *scraper.ImageScraper

	oauthCfg     *oauth2.Config
	adminAllowed map[string]struct{}
	adminSecret  []byte
}

func New(catalog *usecase.CatalogUC, designs *usecase.DesignUC, orders *usecase.OrderUC, fetcher compose.Fetcher, sc *scraper.ImageScraper, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		mux:      http.NewServeMux(),
		catalog:  catalog,
		designs:  designs,
		orders:   orders,
		fetcher:  fetcher,
		scraper:  sc,
		oauthCfg: oauthCfg,
	}

	allowed := map[string]struct{}{}
	for _, e := range strings.Split(os.Getenv("ADMIN_ALLOWED_EMAILS"), ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}
	s.adminAllowed = allowed

	sec := os.Getenv("SECRET_KEY")
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		RateLimit(120),
		RequestID,
		Recovery,
		Logging,
		Gzip,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("GET /api/products", s.handleProducts)
	s.mux.HandleFunc("GET /api/products/{slug}", s.handleProduct)
	s.mux.HandleFunc("GET /api/products/{slug}/angles", s.handleProductAngles)

	s.mux.HandleFunc("GET /img-proxy", s.handleImageProxy)

	s.constructorRoutes()

	s.mux.HandleFunc("GET /auth/google", s.handleGoogleLogin)
	s.mux.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)
	s.adminRoutes()
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ProductFilter{
		CategoryID: q.Get("category"),
		Query:      q.Get("q"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	if v := q.Get("in_stock"); v != "" {
		inStock := v == "1" || v == "true"
		f.InStock = &inStock
	}
	products, total, err := s.catalog.List(r.Context(), f)
	if err != nil {
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "total": total})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		notFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":      p,
		"color_groups": usecase.GroupVariantsByColor(p.Variants),
	})
}

func (s *Server) handleProductAngles(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		notFoundOr500(w, err)
		return
	}
	urls, display := usecase.ResolveViewingAngles(p, r.URL.Query().Get("color"), r.URL.Query().Get("current"))
	writeJSON(w, http.StatusOK, map[string]any{"angles": urls, "display": display})
}

// handleImageProxy relays product photos through our origin so composite
// pixels stay readable in the browser.
func (s *Server) handleImageProxy(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	if u == "" {
		http.Error(w, "url required", http.StatusBadRequest)
		return
	}
	data, err := s.fetcher.Fetch(r.Context(), u)
	if err != nil {
		http.Error(w, "fetch failed", http.StatusBadGateway)
		return
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		http.Error(w, "not an image", http.StatusUnsupportedMediaType)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// readJSON decodes the request body; an empty body decodes to the zero value
// so action endpoints can be called without arguments.
func readJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFoundOr500(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
