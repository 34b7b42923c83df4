package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/textilua/promoshop/internal/adapters/export"
	"github.com/textilua/promoshop/internal/domain"
)

func (s *Server) adminRoutes() {
	s.mux.HandleFunc("GET /admin/orders.xlsx", s.handleOrdersExport)
	s.mux.HandleFunc("GET /admin/orders/fallback", s.handleFallbackOrders)
	s.mux.HandleFunc("POST /admin/orders/replay", s.handleReplayOrders)
	s.mux.HandleFunc("POST /admin/products/{slug}/backfill-images", s.handleBackfillImages)
}

func (s *Server) handleOrdersExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	f := domain.OrderFilter{Status: domain.OrderStatus(r.URL.Query().Get("status"))}
	f.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	f.PageSize = 500
	orders, err := s.orders.Orders.List(r.Context(), f)
	if err != nil {
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	data, err := export.OrdersXLSX(orders)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	_, _ = w.Write(data)
}

func (s *Server) handleFallbackOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	pending, err := s.orders.Queue.Pending()
	if err != nil {
		http.Error(w, "queue read failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending": pending})
}

func (s *Server) handleReplayOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	n, err := s.orders.ReplayQueued(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("replayed %d before failure", n), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"replayed": n})
}

// handleBackfillImages sources mockup photos for a product with an empty
// image table and records them as uncurated image records.
func (s *Server) handleBackfillImages(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	p, err := s.catalog.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		notFoundOr500(w, err)
		return
	}
	if len(p.Images) > 0 {
		http.Error(w, "product already has curated images", http.StatusConflict)
		return
	}
	urls, err := s.scraper.SearchMockups(r.Context(), p.Title, r.URL.Query().Get("color"), 6)
	if err != nil {
		http.Error(w, "image search failed", http.StatusBadGateway)
		return
	}
	imgs := make([]domain.ImageRecord, 0, len(urls))
	for _, u := range urls {
		imgs = append(imgs, domain.ImageRecord{URL: u, Color: r.URL.Query().Get("color")})
	}
	if err := s.catalog.Products.AddImages(r.Context(), p.ID, imgs); err != nil {
		http.Error(w, "saving images failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": len(imgs)})
}
