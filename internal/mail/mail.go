// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends quote notifications over SMTP. Delivery sits behind
// a circuit breaker so a dead mail server costs one fast failure per
// request instead of a dial timeout.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"arvix/internal/metrics"
	"arvix/internal/models"
)

// ErrNotConfigured is returned when no SMTP host, sender or recipient is set.
var ErrNotConfigured = errors.New("mail: not configured")

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
	BaseURL  string // site URL, linked from the message
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier delivers notification e-mails.
type Notifier struct {
	cfg     Config
	send    SendFunc
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a Notifier. m may be nil.
func New(cfg Config, m *metrics.Metrics) *Notifier {
	return &Notifier{
		cfg:     cfg,
		send:    smtp.SendMail,
		metrics: m,
		now:     time.Now,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// Enabled reports whether the notifier can send anything.
func (n *Notifier) Enabled() bool {
	return n != nil && n.cfg.Host != "" && n.cfg.From != "" && len(n.cfg.To) > 0
}

// NotifyQuote e-mails the sales inbox about a stored quote request.
// It returns when delivery finishes or ctx is done, whichever is first.
func (n *Notifier) NotifyQuote(ctx context.Context, q *models.QuoteRequest) error {
	if n == nil {
		return ErrNotConfigured
	}
	if !n.Enabled() {
		n.metrics.ObserveEmail("skipped")
		return ErrNotConfigured
	}

	msg, err := QuoteMessage(n.cfg.From, n.cfg.To, q, n.cfg.BaseURL, n.now())
	if err != nil {
		n.metrics.ObserveEmail("failed")
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := n.breaker.Execute(func() (interface{}, error) {
			return nil, n.send(net.JoinHostPort(n.cfg.Host, n.port()), n.auth(), n.cfg.From, n.cfg.To, msg)
		})
		done <- err
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		n.metrics.ObserveEmail("failed")
		return fmt.Errorf("send quote notification: %w", err)
	}
	n.metrics.ObserveEmail("sent")
	return nil
}

func (n *Notifier) port() string {
	if n.cfg.Port == "" {
		return "587"
	}
	return n.cfg.Port
}

func (n *Notifier) auth() smtp.Auth {
	if n.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
}

// QuoteMessage builds an RFC 5322 plain-text message for a quote request.
func QuoteMessage(from string, to []string, q *models.QuoteRequest, baseURL string, now time.Time) ([]byte, error) {
	for _, addr := range append([]string{from, q.Email}, to...) {
		if strings.ContainsAny(addr, "\r\n") {
			return nil, fmt.Errorf("mail: header injection in address %q", addr)
		}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Yeni teklif talebi / New quote request\n\n")
	fmt.Fprintf(&body, "Ad / Name:      %s\n", q.Name)
	fmt.Fprintf(&body, "E-posta:        %s\n", q.Email)
	fmt.Fprintf(&body, "Telefon:        %s\n", q.Phone)
	if q.Company != nil && *q.Company != "" {
		fmt.Fprintf(&body, "Firma:          %s\n", *q.Company)
	}
	if q.Message != nil && *q.Message != "" {
		fmt.Fprintf(&body, "\nMesaj:\n%s\n", *q.Message)
	}
	fmt.Fprintf(&body, "\nÜrünler (%d adet):\n", q.TotalQuantity())
	for _, it := range q.Items {
		cat := it.CategoryName
		if cat == "" {
			cat = it.Category
		}
		if cat != "" {
			fmt.Fprintf(&body, "  - %s (%s) x %d\n", it.Name, cat, it.Quantity)
		} else {
			fmt.Fprintf(&body, "  - %s x %d\n", it.Name, it.Quantity)
		}
	}
	if baseURL != "" {
		fmt.Fprintf(&body, "\nYönetim paneli: %s/admin\n", strings.TrimRight(baseURL, "/"))
	}

	subject := mime.QEncoding.Encode("utf-8", "Teklif talebi: "+oneLine(q.Name))

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", q.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", now.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return msg.Bytes(), nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
