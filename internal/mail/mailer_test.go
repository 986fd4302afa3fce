package mail

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Xenn-00/organisation-meister/internal/config"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(url string) *MailtrapTransport {
	cfg := &config.AppConfig{}
	cfg.APP.State = "dev"
	cfg.MAILTRAP.Sandbox.SandboxURL = url
	cfg.MAILTRAP.Sandbox.SandboxAPI = "sandbox-token"
	cfg.MAILTRAP.Sandbox.SandboxDomain = "noreply@sandbox.test"
	cfg.MAILTRAP.SenderName = "Organisation Meister"
	return NewMailer(cfg)
}

func TestNewMailer_SelectsEnvironment(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.APP.State = "prod"
	cfg.MAILTRAP.API.MailtrapURL = "https://send.api.mailtrap.io/api/send"
	cfg.MAILTRAP.API.MailtrapTokenAPI = "prod-token"
	cfg.MAILTRAP.Sandbox.SandboxURL = "https://sandbox.api.mailtrap.io/api/send/1"

	m := NewMailer(cfg)
	assert.Equal(t, "https://send.api.mailtrap.io/api/send", m.MailtrapUrl)
	assert.Equal(t, "prod-token", m.MailAPI)
}

func TestSend_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sandbox-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestTransport(srv.URL).Send(context.Background(), Envelope{
		To:       "a@b.com",
		Subject:  "Einladung",
		HTMLBody: "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Einladung", got["subject"])
	assert.Equal(t, "<p>hi</p>", got["html"])
	from := got["from"].(map[string]any)
	assert.Equal(t, "noreply@sandbox.test", from["email"])
	to := got["to"].([]any)[0].(map[string]any)
	assert.Equal(t, "a@b.com", to["email"])
}

func TestSend_InvalidAddressIsPermanentWithoutRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	err := newTestTransport(srv.URL).Send(context.Background(), Envelope{To: "not-an-address"})

	var perm *PermanentSendError
	require.True(t, errors.As(err, &perm))
	assert.Equal(t, "invalid_address", perm.Reason)
	assert.False(t, called)
}

func TestSend_StatusClassification(t *testing.T) {
	cases := []struct {
		status    int
		permanent bool
	}{
		{http.StatusTooManyRequests, false},
		{http.StatusServiceUnavailable, false},
		{http.StatusRequestTimeout, false},
		{http.StatusBadRequest, true},
		{http.StatusUnauthorized, true},
		{http.StatusUnprocessableEntity, true},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"errors":["nope"]}`))
			}))
			defer srv.Close()

			err := newTestTransport(srv.URL).Send(context.Background(), Envelope{To: "a@b.com"})
			require.Error(t, err)
			assert.Equal(t, tc.permanent, IsPermanent(err))
			if !tc.permanent {
				var transient *TransientSendError
				assert.True(t, errors.As(err, &transient))
				assert.Equal(t, tc.status, transient.StatusCode)
			}
		})
	}
}

func TestSend_NetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTestTransport(url).Send(context.Background(), Envelope{To: "a@b.com"})

	var transient *TransientSendError
	assert.True(t, errors.As(err, &transient))
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "invalid_address", FailureReason(&PermanentSendError{Reason: "invalid_address"}))
	assert.Equal(t, "retries_exhausted", FailureReason(&TransientSendError{Err: errors.New("x")}))
}
