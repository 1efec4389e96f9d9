// Package s89 sends S-89 assignment slips to a webhook.
package s89

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appLog "github.com/rcliao/meeting-planner/internal/log"
	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/schedule"
)

var (
	// ErrNoWebhook means no webhook URL is configured.
	ErrNoWebhook = errors.New("s89 webhook url not configured")
	// ErrUnknownStudent means the part's publisher is not registered.
	ErrUnknownStudent = errors.New("publisher not registered")
)

// Student is the assigned publisher.
type Student struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Assistant is the helper on paired parts.
type Assistant struct {
	Name string `json:"name"`
}

// Part is the assignment being announced.
type Part struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	IsMainHall bool   `json:"isMainHall"`
}

// Payload is the webhook body.
type Payload struct {
	Type      string     `json:"type"`
	Week      string     `json:"week"`
	Student   Student    `json:"student"`
	Assistant *Assistant `json:"assistant,omitempty"`
	Part      Part       `json:"part"`
}

// PreparePayload builds the slip for a rendered part. The student must be a
// registered publisher.
func PreparePayload(part schedule.RenderablePart, publishers []model.Publisher) (*Payload, error) {
	student, ok := model.NewDirectory(publishers).Lookup(part.PublisherName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStudent, part.PublisherName)
	}

	date, _, _ := strings.Cut(part.Date, "T")
	p := &Payload{
		Type:    "S-89",
		Week:    part.Week,
		Student: Student{Name: student.Name, Phone: student.Phone},
		Part:    Part{Title: part.PartTitle, Date: date, IsMainHall: true},
	}
	if part.Pair != nil {
		p.Assistant = &Assistant{Name: part.Pair.PublisherName}
	}
	return p, nil
}

// Sender posts payloads to a webhook.
type Sender struct {
	url    string
	client *http.Client
}

// NewSender creates a sender. A nil client gets a 30s timeout client.
func NewSender(url string, client *http.Client) *Sender {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Sender{url: strings.TrimSpace(url), client: client}
}

// Send posts the payload as JSON.
func (s *Sender) Send(ctx context.Context, p *Payload) error {
	if s == nil || s.url == "" {
		return ErrNoWebhook
	}

	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	appLog.Info("s89 sent", "week", p.Week, "student", p.Student.Name)
	return nil
}
