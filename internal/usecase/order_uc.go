package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/textilua/promoshop/internal/domain"
)

// Exporter produces the flattened composite preview; it never fails.
type Exporter interface {
	Export(ctx context.Context, bgURL string, objects []*domain.DesignObject) string
}

type OrderUC struct {
	Orders   domain.OrderRepo
	Queue    domain.OrderQueue
	Notifier domain.Notifier
	Exporter Exporter
}

type SubmitResult struct {
	OrderID  uuid.UUID
	Total    float64
	Degraded bool
}

// Submit flattens the session into a preview, prices it, records the order
// and notifies the operator. Persistence failure degrades to the local queue;
// notification failure is logged and swallowed. Only validation and a dead
// fallback path fail the submission.
func (uc *OrderUC) Submit(ctx context.Context, s *Session) (*SubmitResult, error) {
	if s == nil || s.ProductID == uuid.Nil {
		return nil, domain.ErrNoProduct
	}
	objects := s.Objects()
	if len(objects) == 0 {
		return nil, domain.ErrEmptyCanvas
	}

	preview := uc.Exporter.Export(ctx, s.AngleURL, objects)

	cfg := s.Print
	qty := cfg.Qty
	if qty < 1 {
		qty = 1
	}
	unit := s.BasePrice + BrandingPrice(cfg.Placement, cfg.Size, cfg.Method)
	subtotal := unit * float64(qty)
	total := Round2(subtotal * (1 - VolumeDiscount(qty)))

	order := domain.Order{
		ID:           uuid.New(),
		Status:       domain.OrderStatusPending,
		ProductID:    s.ProductID,
		ProductTitle: s.ProductTitle,
		Color:        s.Color,
		Qty:          qty,
		UnitPrice:    unit,
		Total:        total,
		Method:       cfg.Method,
		Placement:    cfg.Placement,
		PrintSize:    cfg.Size,
		PreviewPNG:   preview,
	}

	degraded := false
	if err := uc.Orders.Save(ctx, &order); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Str("fallback", "localfs").
			Msg("order persistence failed, queuing locally")
		if qerr := uc.Queue.Enqueue(&order); qerr != nil {
			return nil, fmt.Errorf("persist order: %w", err)
		}
		degraded = true
	}

	BestEffort("operator-notify", func() error {
		payload := domain.OperatorNotification{
			Order:       order,
			PreviewPNG:  previewBytes(preview),
			SourceFiles: s.SourceFiles(),
		}
		if err := uc.Notifier.Send(ctx, payload); err != nil {
			return err
		}
		if !degraded {
			return uc.Orders.MarkNotified(ctx, order.ID)
		}
		return nil
	})

	return &SubmitResult{OrderID: order.ID, Total: total, Degraded: degraded}, nil
}

// ReplayQueued pushes locally queued orders back into the primary repo,
// removing each file only after a successful save.
func (uc *OrderUC) ReplayQueued(ctx context.Context) (int, error) {
	pending, err := uc.Queue.Pending()
	if err != nil {
		return 0, err
	}
	replayed := 0
	for i := range pending {
		o := pending[i]
		if err := uc.Orders.Save(ctx, &o); err != nil {
			return replayed, err
		}
		if err := uc.Queue.Remove(o.ID); err != nil {
			return replayed, err
		}
		replayed++
	}
	return replayed, nil
}

// BestEffort runs a side-effect step whose failure must never propagate: the
// error (or panic) is logged and swallowed. Making non-propagation a named
// contract keeps it auditable instead of scattered blank assignments.
func BestEffort(step string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("step", step).Msg("best-effort step panicked")
		}
	}()
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("step", step).Msg("best-effort step failed")
	}
}

func previewBytes(dataURL string) []byte {
	_, b64, found := strings.Cut(dataURL, "base64,")
	if !found {
		b64 = dataURL
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil
	}
	return raw
}
