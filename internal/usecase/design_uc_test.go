package usecase

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textilua/promoshop/internal/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	uc := NewDesignUC()
	p := &domain.Product{Title: "Футболка Classic", BasePrice: 320}
	return uc.Create(p, "Синій", "front", "https://cdn.example.com/blue-front.png")
}

func TestSessionLifecycle(t *testing.T) {
	uc := NewDesignUC()
	s := uc.Create(nil, "", "front", "")

	got, err := uc.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	uc.Drop(s.ID)
	_, err = uc.Get(s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionGone)
}

func TestUploadImagePlacesAndSelects(t *testing.T) {
	s := newTestSession(t)
	o, err := s.UploadImage("logo.png", pngBytes(t, 600, 300))
	require.NoError(t, err)

	assert.Equal(t, domain.ObjectImage, o.Kind)
	assert.InDelta(t, 0.5, o.Scale, 1e-9, "longest edge fits the default 300px box")
	assert.InDelta(t, 150.0, o.PosX, 1e-9)
	assert.Equal(t, 1, s.ObjectCount())
	assert.Len(t, s.History, 1)
	assert.False(t, s.PanelOpen)
}

func TestUploadImageRejectsOversize(t *testing.T) {
	s := newTestSession(t)
	big := make([]byte, maxUploadBytes+1)

	_, err := s.UploadImage("huge.png", big)
	assert.ErrorIs(t, err, domain.ErrUploadSize)
	assert.Zero(t, s.ObjectCount(), "rejected uploads leave the canvas untouched")
	assert.Empty(t, s.History, "rejected uploads never enter the history")
}

func TestUploadImageRejectsBadType(t *testing.T) {
	s := newTestSession(t)

	_, err := s.UploadImage("resume.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, domain.ErrUploadType)

	// Right extension, garbage bytes.
	_, err = s.UploadImage("fake.png", []byte("not a png"))
	assert.ErrorIs(t, err, domain.ErrUploadType)

	_, err = s.UploadImage("empty.png", nil)
	assert.ErrorIs(t, err, domain.ErrUploadType)

	assert.Zero(t, s.ObjectCount())
}

func TestUploadHistoryCapMostRecentFirst(t *testing.T) {
	s := newTestSession(t)
	data := pngBytes(t, 10, 10)
	for i := 0; i < historyCap+3; i++ {
		_, err := s.UploadImage(fmt.Sprintf("art-%d.png", i), data)
		require.NoError(t, err)
	}
	require.Len(t, s.History, historyCap)
	assert.Equal(t, fmt.Sprintf("art-%d.png", historyCap+2), s.History[0].Name)
	assert.Equal(t, "art-3.png", s.History[historyCap-1].Name)
}

func TestUpdateTextStyleOnlyAppliesToSelectedText(t *testing.T) {
	s := newTestSession(t)
	id := s.AddText("Ваш логотип")

	bold := false
	fill := "#ff0000"
	s.UpdateTextStyle(TextStyle{Bold: &bold, Fill: &fill})

	objs := s.Objects()
	require.Len(t, objs, 1)
	assert.False(t, objs[0].Bold)
	assert.Equal(t, "#ff0000", objs[0].Fill)

	// Deselect; style updates now go nowhere.
	s.Select()
	italic := true
	s.UpdateTextStyle(TextStyle{Italic: &italic})
	assert.False(t, s.Objects()[0].Italic)

	_ = id
}

func TestKeyDeleteGuardedWhileEditingText(t *testing.T) {
	s := newTestSession(t)
	id := s.AddText("Текст")
	s.SetEditing(id, true)

	assert.Zero(t, s.KeyDelete(), "Delete belongs to the text content while editing inline")
	assert.Equal(t, 1, s.ObjectCount())

	s.SetEditing(id, false)
	assert.Equal(t, 1, s.KeyDelete())
	assert.Zero(t, s.ObjectCount())
}

func TestDeleteSelectionRemovesOnlySelected(t *testing.T) {
	s := newTestSession(t)
	a := s.AddText("A")
	_ = s.AddText("B")
	s.Select(a)

	assert.Equal(t, 1, s.DeleteSelection())
	require.Equal(t, 1, s.ObjectCount())
	assert.Equal(t, "B", s.Objects()[0].Content)
}

func TestClearAllRequiresConfirmation(t *testing.T) {
	s := newTestSession(t)
	s.AddText("Текст")
	s.Background = "#ff0000"

	assert.False(t, s.ClearAll(false))
	assert.Equal(t, 1, s.ObjectCount())

	assert.True(t, s.ClearAll(true))
	assert.Zero(t, s.ObjectCount())
	assert.Empty(t, s.Background)
}

func TestFitIgnoresDegenerateSurfaces(t *testing.T) {
	s := newTestSession(t)
	z := s.Fit(900, 600)
	assert.InDelta(t, 1.0, z, 1e-9, "zoom is shorter edge over the logical canvas size")

	assert.InDelta(t, 1.0, s.Fit(0, 0), 1e-9, "zero-size layout states keep the previous zoom")
	assert.InDelta(t, 1.0, s.Fit(50, 800), 1e-9)

	assert.InDelta(t, 0.5, s.Fit(300, 450), 1e-9)
}

func TestSwitchContextDiscardsDesign(t *testing.T) {
	s := newTestSession(t)
	s.AddText("Текст")
	s.Background = "#00ff00"

	next := &domain.Product{Title: "Худі Premium", BasePrice: 890}
	s.SwitchContext(next, "Чорний", "back", "https://cdn.example.com/hoodie-back.png")

	assert.Zero(t, s.ObjectCount())
	assert.Empty(t, s.Background)
	assert.Equal(t, "Худі Premium", s.ProductTitle)
	assert.Equal(t, "Чорний", s.Color)

	// View-only switch keeps the product.
	s.AddText("Текст")
	s.SwitchContext(nil, "Чорний", "front", "https://cdn.example.com/hoodie-front.png")
	assert.Zero(t, s.ObjectCount())
	assert.Equal(t, "Худі Premium", s.ProductTitle)
}

func TestSourceFilesDeduplicatesByName(t *testing.T) {
	s := newTestSession(t)
	data := pngBytes(t, 10, 10)
	_, err := s.UploadImage("logo.png", data)
	require.NoError(t, err)
	_, err = s.UploadImage("logo.png", data)
	require.NoError(t, err)
	_, err = s.UploadImage("other.png", data)
	require.NoError(t, err)
	s.AddText("Текст")

	files := s.SourceFiles()
	require.Len(t, files, 2)
	assert.Equal(t, "logo.png", files[0].Name)
	assert.Equal(t, "other.png", files[1].Name)
}
