package invitation_case

import (
	"testing"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/abstraction/cache"
	"github.com/Xenn-00/organisation-meister/internal/mail"
	"github.com/Xenn-00/organisation-meister/internal/queue"
	use_cases "github.com/Xenn-00/organisation-meister/internal/use-cases"
	"github.com/Xenn-00/organisation-meister/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testToken = "TOKEN0123456789abcdefghijklmnopq"

func newService(c cache.InvitationCache, q queue.DeliveryQueue, repo *MockOrganizationRepo, r mail.Renderer, tokens utils.TokenGenerator) *InvitationService {
	return &InvitationService{
		cache:              c,
		queue:              q,
		repo:               repo,
		renderer:           r,
		tokens:             tokens,
		validate:           validator.New(),
		baseURL:            "https://app.example.com",
		ttl:                cache.DefaultInvitationTTL,
		verificationLength: utils.DefaultVerificationLength,
		verificationTTL:    15 * time.Minute,
		now:                func() time.Time { return fixedNow },
	}
}

func staticTokens() *use_cases.StaticTokenGenerator {
	return &use_cases.StaticTokenGenerator{Token: testToken, Code: "AB12CD34"}
}

func realRenderer(t *testing.T) mail.Renderer {
	t.Helper()
	r, err := mail.NewTemplateRenderer()
	require.NoError(t, err)
	return r
}
