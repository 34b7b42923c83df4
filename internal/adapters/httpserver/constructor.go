package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/textilua/promoshop/internal/domain"
	"github.com/textilua/promoshop/internal/usecase"
)

const maxUploadForm = 12 << 20

func (s *Server) constructorRoutes() {
	s.mux.HandleFunc("POST /api/constructor/session", s.handleSessionCreate)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/switch", s.handleSessionSwitch)
	s.mux.HandleFunc("DELETE /api/constructor/session/{id}", s.handleSessionDrop)

	s.mux.HandleFunc("POST /api/constructor/session/{id}/upload", s.handleUpload)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/text", s.handleAddText)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/text/style", s.handleTextStyle)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/select", s.handleSelect)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/object/{oid}/move", s.handleMove)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/object/{oid}/scale", s.handleScale)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/object/{oid}/edge", s.handleEdge)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/object/{oid}/filter", s.handleFilter)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/object/{oid}/editing", s.handleEditing)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/delete", s.handleDelete)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/clear", s.handleClear)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/fit", s.handleFit)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/print", s.handlePrint)

	s.mux.HandleFunc("GET /api/constructor/session/{id}/export", s.handleExport)
	s.mux.HandleFunc("POST /api/constructor/session/{id}/order", s.handleSubmitOrder)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *usecase.Session {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad session id", http.StatusBadRequest)
		return nil
	}
	sess, err := s.designs.Get(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil
	}
	return sess
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := readJSON(r, v); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductSlug string `json:"product_slug"`
		Color       string `json:"color"`
		View        string `json:"view"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.catalog.GetBySlug(r.Context(), req.ProductSlug)
	if err != nil {
		notFoundOr500(w, err)
		return
	}
	angles, display := usecase.ResolveViewingAngles(p, req.Color, "")
	sess := s.designs.Create(p, req.Color, req.View, display)
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID,
		"angles":     angles,
		"display":    display,
	})
}

func (s *Server) handleSessionSwitch(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		ProductSlug string `json:"product_slug"`
		Color       string `json:"color"`
		View        string `json:"view"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	var p *domain.Product
	if req.ProductSlug != "" {
		var err error
		p, err = s.catalog.GetBySlug(r.Context(), req.ProductSlug)
		if err != nil {
			notFoundOr500(w, err)
			return
		}
	}
	angles, display := usecase.ResolveViewingAngles(productOrCurrent(p, sess), req.Color, sess.AngleURL)
	sess.SwitchContext(p, req.Color, req.View, display)
	writeJSON(w, http.StatusOK, map[string]any{"angles": angles, "display": display})
}

func productOrCurrent(p *domain.Product, sess *usecase.Session) *domain.Product {
	if p != nil {
		return p
	}
	// View-only switch: synthesize enough of the product for resolution.
	return &domain.Product{ID: sess.ProductID, Title: sess.ProductTitle, Image: sess.AngleURL}
}

func (s *Server) handleSessionDrop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "bad session id", http.StatusBadRequest)
		return
	}
	s.designs.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadForm)
	if err := r.ParseMultipartForm(maxUploadForm); err != nil {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read failed", http.StatusBadRequest)
		return
	}

	obj, err := sess.UploadImage(header.Filename, data)
	switch {
	case errors.Is(err, domain.ErrUploadSize):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	case errors.Is(err, domain.ErrUploadType):
		http.Error(w, "unsupported file type", http.StatusUnsupportedMediaType)
		return
	case err != nil:
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"object_id": obj.ID})
}

func (s *Server) handleAddText(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id := sess.AddText(req.Content)
	writeJSON(w, http.StatusCreated, map[string]any{"object_id": id})
}

func (s *Server) handleTextStyle(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req usecase.TextStyle
	if !decodeBody(w, r, &req) {
		return
	}
	sess.UpdateTextStyle(req)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess.Select(req.IDs...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) objectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("oid"))
	if err != nil {
		http.Error(w, "bad object id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	oid, ok := s.objectID(w, r)
	if !ok {
		return
	}
	var req struct{ X, Y float64 }
	if !decodeBody(w, r, &req) {
		return
	}
	sess.Move(oid, req.X, req.Y)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	oid, ok := s.objectID(w, r)
	if !ok {
		return
	}
	var req struct {
		Factor float64 `json:"factor"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess.ScaleCorner(oid, req.Factor)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdge(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	oid, ok := s.objectID(w, r)
	if !ok {
		return
	}
	var req struct {
		Edge  string  `json:"edge"`
		Delta float64 `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess.DragEdge(oid, domain.Edge(req.Edge), req.Delta)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	oid, ok := s.objectID(w, r)
	if !ok {
		return
	}
	var req struct {
		Tone   *string `json:"tone"`
		Tint   *string `json:"tint"`
		Remove *struct {
			Color     string  `json:"color"`
			Tolerance float64 `json:"tolerance"`
		} `json:"remove"`
		ClearRemove bool `json:"clear_remove"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Tone != nil {
		sess.SetTone(oid, domain.ToneFilter(*req.Tone))
	}
	if req.Tint != nil {
		sess.SetTint(oid, *req.Tint)
	}
	if req.Remove != nil {
		sess.RemoveBackground(oid, req.Remove.Color, req.Remove.Tolerance)
	}
	if req.ClearRemove {
		sess.ClearRemoval(oid)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditing(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	oid, ok := s.objectID(w, r)
	if !ok {
		return
	}
	var req struct {
		Editing bool `json:"editing"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	sess.SetEditing(oid, req.Editing)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Key bool `json:"key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	removed := 0
	if req.Key {
		removed = sess.KeyDelete()
	} else {
		removed = sess.DeleteSelection()
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	cleared := sess.ClearAll(req.Confirmed)
	writeJSON(w, http.StatusOK, map[string]any{"cleared": cleared})
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	zoom := sess.Fit(req.Width, req.Height)
	writeJSON(w, http.StatusOK, map[string]any{"zoom": zoom})
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var req usecase.PrintConfig
	if !decodeBody(w, r, &req) {
		return
	}
	sess.SetPrint(req)
	writeJSON(w, http.StatusOK, map[string]any{
		"branding_price": usecase.BrandingPrice(req.Placement, req.Size, req.Method),
		"discount":       usecase.VolumeDiscount(req.Qty),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	preview := s.orders.Exporter.Export(r.Context(), sess.AngleURL, sess.Objects())
	writeJSON(w, http.StatusOK, map[string]any{"image": preview})
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	res, err := s.orders.Submit(r.Context(), sess)
	switch {
	case errors.Is(err, domain.ErrNoProduct), errors.Is(err, domain.ErrEmptyCanvas):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "order submission failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order_id": res.OrderID,
		"total":    res.Total,
		"status":   string(domain.OrderStatusPending),
	})
}
