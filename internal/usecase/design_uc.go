package usecase

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/textilua/promoshop/internal/compose"
	"github.com/textilua/promoshop/internal/domain"
)

const (
	maxUploadBytes = 10 << 20
	historyCap     = 12
	// Surface sizes below this are transient zero-ish layout states; fitting
	// to them would thrash the canvas.
	minSurface = 100

	defaultObjectPos  = 150.0
	defaultObjectEdge = 300.0
)

// UploadRecord keeps an uploaded source image around for quick re-use from
// the history strip.
type UploadRecord struct {
	Name string
	Data []byte
	At   time.Time
}

type PrintConfig struct {
	Method    string
	Placement string
	Size      string
	Qty       int
}

// TextStyle is a partial style update; nil fields are left untouched.
type TextStyle struct {
	Bold   *bool
	Italic *bool
	Fill   *string
	Font   *string
}

// Session is one open constructor: the current product context, the ordered
// design objects, the selection and the upload history. All operations
// serialize on the session lock, preserving event-arrival order.
type Session struct {
	mu sync.Mutex

	ID           uuid.UUID
	ProductID    uuid.UUID
	ProductTitle string
	BasePrice    float64
	Color        string
	View         string
	AngleURL     string

	objects  []*domain.DesignObject
	selected map[uuid.UUID]bool

	History    []UploadRecord
	Zoom       float64
	Surface    int
	Background string
	Print      PrintConfig
	PanelOpen  bool
}

type DesignUC struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewDesignUC() *DesignUC {
	return &DesignUC{sessions: make(map[uuid.UUID]*Session)}
}

func (uc *DesignUC) Create(p *domain.Product, color, view, angleURL string) *Session {
	s := &Session{
		ID:       uuid.New(),
		Color:    color,
		View:     view,
		AngleURL: angleURL,
		selected: make(map[uuid.UUID]bool),
		Zoom:     1,
	}
	if p != nil {
		s.ProductID = p.ID
		s.ProductTitle = p.Title
		s.BasePrice = p.BasePrice
	}
	uc.mu.Lock()
	uc.sessions[s.ID] = s
	uc.mu.Unlock()
	return s
}

func (uc *DesignUC) Get(id uuid.UUID) (*Session, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	s, ok := uc.sessions[id]
	if !ok {
		return nil, domain.ErrSessionGone
	}
	return s, nil
}

func (uc *DesignUC) Drop(id uuid.UUID) {
	uc.mu.Lock()
	delete(uc.sessions, id)
	uc.mu.Unlock()
}

// UploadImage validates and decodes a raster upload, places it at the default
// position and records it in the history. The editing panel closes as an
// immediate-feedback affordance. Rejected uploads leave the session untouched.
func (s *Session) UploadImage(name string, data []byte) (*domain.DesignObject, error) {
	if len(data) > maxUploadBytes {
		return nil, domain.ErrUploadSize
	}
	if len(data) == 0 || !allowedImageName(name) {
		return nil, domain.ErrUploadType
	}
	bitmap, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ErrUploadType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := domain.NewImageObject(bitmap, name, data)
	b := bitmap.Bounds()
	max := b.Dx()
	if b.Dy() > max {
		max = b.Dy()
	}
	if max > 0 {
		o.Scale = defaultObjectEdge / float64(max)
	}
	o.PosX, o.PosY = defaultObjectPos, defaultObjectPos

	s.objects = append(s.objects, o)
	s.selectOnly(o.ID)

	s.History = append([]UploadRecord{{Name: name, Data: data, At: time.Now()}}, s.History...)
	if len(s.History) > historyCap {
		s.History = s.History[:historyCap]
	}
	s.PanelOpen = false
	return o, nil
}

func allowedImageName(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (s *Session) AddText(content string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := domain.NewTextObject(content)
	o.PosX, o.PosY = defaultObjectPos, defaultObjectPos
	s.objects = append(s.objects, o)
	s.selectOnly(o.ID)
	return o.ID
}

// UpdateTextStyle mutates the currently selected text object; it is a no-op
// when the selection is not a single text object.
func (s *Session) UpdateTextStyle(st TextStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.singleSelected()
	if o == nil || o.Kind != domain.ObjectText {
		return
	}
	if st.Bold != nil {
		o.Bold = *st.Bold
	}
	if st.Italic != nil {
		o.Italic = *st.Italic
	}
	if st.Fill != nil {
		o.Fill = *st.Fill
	}
	if st.Font != nil {
		o.Font = *st.Font
	}
}

func (s *Session) Select(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[uuid.UUID]bool)
	for _, id := range ids {
		if s.find(id) != nil {
			s.selected[id] = true
		}
	}
}

func (s *Session) Move(id uuid.UUID, x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil {
		o.MoveTo(x, y)
	}
}

// ScaleCorner is a corner-handle drag: uniform, aspect-locked.
func (s *Session) ScaleCorner(id uuid.UUID, factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil {
		o.ScaleBy(factor)
	}
}

// DragEdge is an edge-handle drag: crop, not scale.
func (s *Session) DragEdge(id uuid.UUID, edge domain.Edge, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil {
		o.DragEdge(edge, delta)
	}
}

func (s *Session) SetTone(id uuid.UUID, tone domain.ToneFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil && o.Kind == domain.ObjectImage {
		o.Filters.SetTone(tone)
	}
}

func (s *Session) SetTint(id uuid.UUID, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil && o.Kind == domain.ObjectImage {
		o.Filters.SetTint(color)
	}
}

func (s *Session) RemoveBackground(id uuid.UUID, color string, tolerance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil && o.Kind == domain.ObjectImage {
		o.Filters.SetRemoval(color, tolerance)
	}
}

func (s *Session) ClearRemoval(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil && o.Kind == domain.ObjectImage {
		o.Filters.ClearRemoval()
	}
}

func (s *Session) SetEditing(id uuid.UUID, editing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(id); o != nil && o.Kind == domain.ObjectText {
		o.Editing = editing
	}
}

func (s *Session) DeleteSelection() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteSelectedLocked()
}

// KeyDelete handles the Delete/Backspace shortcut. While a text object is in
// inline edit mode the key belongs to the text content, not the canvas.
func (s *Session) KeyDelete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.selected {
		if o := s.find(id); o != nil && o.Kind == domain.ObjectText && o.Editing {
			return 0
		}
	}
	return s.deleteSelectedLocked()
}

func (s *Session) deleteSelectedLocked() int {
	if len(s.selected) == 0 {
		return 0
	}
	kept := s.objects[:0]
	removed := 0
	for _, o := range s.objects {
		if s.selected[o.ID] {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	s.objects = kept
	s.selected = make(map[uuid.UUID]bool)
	return removed
}

// ClearAll discards the whole canvas; it requires the caller to have passed an
// explicit user confirmation. The logical background resets to transparent.
func (s *Session) ClearAll(confirmed bool) bool {
	if !confirmed {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = nil
	s.selected = make(map[uuid.UUID]bool)
	s.Background = ""
	return true
}

// Fit recomputes the zoom for a container resize. Redundant invocations with
// the same size are harmless; the handler is re-triggered at several delays
// after mount to cover layout races.
func (s *Session) Fit(w, h int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge := w
	if h < edge {
		edge = h
	}
	if edge < minSurface {
		return s.Zoom
	}
	s.Surface = edge
	s.Zoom = float64(edge) / compose.LogicalCanvasSize
	return s.Zoom
}

// SwitchContext changes product or view. The design layer is deliberately
// discarded — every product/view combination starts from a blank canvas. This
// is the single place that policy lives.
func (s *Session) SwitchContext(p *domain.Product, color, view, angleURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p != nil {
		s.ProductID = p.ID
		s.ProductTitle = p.Title
		s.BasePrice = p.BasePrice
	}
	s.Color = color
	s.View = view
	s.AngleURL = angleURL
	s.objects = nil
	s.selected = make(map[uuid.UUID]bool)
	s.Background = ""
}

func (s *Session) SetPrint(cfg PrintConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Print = cfg
}

// Objects returns a stable snapshot of the draw order.
func (s *Session) Objects() []*domain.DesignObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.DesignObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *Session) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// SourceFiles collects the original uploads still referenced by canvas image
// objects, for attachment to the operator notification.
func (s *Session) SourceFiles() []domain.SourceFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var files []domain.SourceFile
	seen := make(map[string]bool)
	for _, o := range s.objects {
		if o.Kind != domain.ObjectImage || len(o.SourceData) == 0 || seen[o.SourceName] {
			continue
		}
		seen[o.SourceName] = true
		files = append(files, domain.SourceFile{Name: o.SourceName, Data: o.SourceData})
	}
	return files
}

func (s *Session) find(id uuid.UUID) *domain.DesignObject {
	for _, o := range s.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Session) singleSelected() *domain.DesignObject {
	if len(s.selected) != 1 {
		return nil
	}
	for id := range s.selected {
		return s.find(id)
	}
	return nil
}

func (s *Session) selectOnly(id uuid.UUID) {
	s.selected = map[uuid.UUID]bool{id: true}
}
