package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/config"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const maxErrorBody = 2048

type MailtrapTransport struct {
	DomainSender string
	SenderName   string
	MailtrapUrl  string
	MailAPI      string

	client   *http.Client
	validate *validator.Validate
}

// NewMailer wählt je nach APP.STATE die Sandbox oder die produktive Mailtrap-API.
func NewMailer(cfg *config.AppConfig) *MailtrapTransport {
	timeout := cfg.MAILTRAP.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	t := &MailtrapTransport{
		SenderName: cfg.MAILTRAP.SenderName,
		client:     &http.Client{Timeout: timeout},
		validate:   validator.New(),
	}
	if cfg.APP.State == "prod" {
		t.DomainSender = cfg.MAILTRAP.API.MailtrapDomain
		t.MailtrapUrl = cfg.MAILTRAP.API.MailtrapURL
		t.MailAPI = cfg.MAILTRAP.API.MailtrapTokenAPI
		return t
	}
	t.DomainSender = cfg.MAILTRAP.Sandbox.SandboxDomain
	t.MailtrapUrl = cfg.MAILTRAP.Sandbox.SandboxURL
	t.MailAPI = cfg.MAILTRAP.Sandbox.SandboxAPI
	return t
}

type mailtrapAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailtrapPayload struct {
	From     mailtrapAddress   `json:"from"`
	To       []mailtrapAddress `json:"to"`
	Subject  string            `json:"subject"`
	HTML     string            `json:"html"`
	Category string            `json:"category"`
}

func (m *MailtrapTransport) Send(ctx context.Context, env Envelope) error {
	if err := m.validate.Var(env.To, "required,email"); err != nil {
		return &PermanentSendError{Reason: "invalid_address", Err: fmt.Errorf("recipient %q: %w", env.To, err)}
	}

	from := env.From
	if from == "" {
		from = m.DomainSender
	}

	body, err := json.Marshal(mailtrapPayload{
		From:     mailtrapAddress{Email: from, Name: m.SenderName},
		To:       []mailtrapAddress{{Email: env.To}},
		Subject:  env.Subject,
		HTML:     env.HTMLBody,
		Category: "Organisation Invitation",
	})
	if err != nil {
		return &PermanentSendError{Reason: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.MailtrapUrl, bytes.NewReader(body))
	if err != nil {
		return &PermanentSendError{Reason: "bad_request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+m.MailAPI)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.Warn().Err(err).Str("to", env.To).Msg("Mailer: request to provider failed")
		return &TransientSendError{Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return ClassifyStatus(resp.StatusCode, string(respBody))
}
