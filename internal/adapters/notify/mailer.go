// Package notify dispatches operator notifications over SMTP with the
// composite preview and the original uploaded files attached.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/textilua/promoshop/internal/domain"
)

type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	to   []string
}

// NewMailerFromEnv reads SMTP_HOST/SMTP_PORT/SMTP_USER/SMTP_PASS and
// ORDER_NOTIFY_EMAIL (comma-separated). An unconfigured mailer is valid: Send
// logs a warning and reports success, so order flow is unaffected in dev.
func NewMailerFromEnv() *Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	var to []string
	for _, addr := range strings.Split(os.Getenv("ORDER_NOTIFY_EMAIL"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_USER"),
		to:   to,
	}
}

func (m *Mailer) configured() bool {
	return m.host != "" && m.port != 0 && m.user != "" && len(m.to) > 0
}

func (m *Mailer) Send(ctx context.Context, n domain.OperatorNotification) error {
	if !m.configured() {
		log.Warn().Msg("SMTP not configured, skipping operator notification")
		return nil
	}

	o := n.Order
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", fmt.Sprintf("Нове замовлення конструктора #%s", shortID(o.ID.String())))

	var body strings.Builder
	fmt.Fprintf(&body, "Замовлення: %s\n", o.ID)
	fmt.Fprintf(&body, "Товар: %s\n", o.ProductTitle)
	if o.Color != "" {
		fmt.Fprintf(&body, "Колір: %s\n", o.Color)
	}
	fmt.Fprintf(&body, "Кількість: %d\n", o.Qty)
	fmt.Fprintf(&body, "Нанесення: %s / %s / %s\n", o.Method, o.Placement, o.PrintSize)
	fmt.Fprintf(&body, "Сума: %.2f грн\n", o.Total)
	msg.SetBody("text/plain; charset=utf-8", body.String())

	if len(n.PreviewPNG) > 0 {
		attachBytes(msg, "preview.png", n.PreviewPNG)
	}
	for _, f := range n.SourceFiles {
		attachBytes(msg, f.Name, f.Data)
	}

	done := make(chan error, 1)
	go func() {
		done <- gomail.NewDialer(m.host, m.port, m.user, m.pass).DialAndSend(msg)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("dispatch operator mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func attachBytes(msg *gomail.Message, name string, data []byte) {
	msg.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
