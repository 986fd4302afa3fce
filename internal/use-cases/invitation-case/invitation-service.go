package invitation_case

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/abstraction/cache"
	"github.com/Xenn-00/organisation-meister/internal/config"
	invitation_dto "github.com/Xenn-00/organisation-meister/internal/dtos/invitation-dto"
	"github.com/Xenn-00/organisation-meister/internal/entity"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	"github.com/Xenn-00/organisation-meister/internal/mail"
	"github.com/Xenn-00/organisation-meister/internal/queue"
	organization_repo "github.com/Xenn-00/organisation-meister/internal/repo/organization-repo"
	"github.com/Xenn-00/organisation-meister/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	expiryDateLayout       = "2006-01-02"
	verificationDateLayout = "2006-01-02 15:04 MST"
)

const (
	DefaultDeadLetterLimit int64 = 20
	MaxDeadLetterLimit     int64 = 100
)

type InvitationService struct {
	cache    cache.InvitationCache
	queue    queue.DeliveryQueue
	repo     organization_repo.OrganizationRepoContract
	renderer mail.Renderer
	tokens   utils.TokenGenerator
	validate *validator.Validate

	baseURL            string
	ttl                time.Duration
	verificationLength int
	verificationTTL    time.Duration
	now                func() time.Time
}

func NewInvitationService(
	cfg *config.AppConfig,
	invitationCache cache.InvitationCache,
	deliveryQueue queue.DeliveryQueue,
	repo organization_repo.OrganizationRepoContract,
	renderer mail.Renderer,
	tokens utils.TokenGenerator,
) InvitationServiceContract {
	ttl := cfg.INVITATION.TTL
	if ttl <= 0 {
		ttl = cache.DefaultInvitationTTL
	}
	verificationLength := cfg.INVITATION.VerificationLength
	if verificationLength <= 0 {
		verificationLength = utils.DefaultVerificationLength
	}
	verificationTTL := cfg.INVITATION.VerificationCodeTTL
	if verificationTTL <= 0 {
		verificationTTL = 15 * time.Minute
	}

	return &InvitationService{
		cache:              invitationCache,
		queue:              deliveryQueue,
		repo:               repo,
		renderer:           renderer,
		tokens:             tokens,
		validate:           validator.New(),
		baseURL:            strings.TrimRight(cfg.INVITATION.BaseURL, "/"),
		ttl:                ttl,
		verificationLength: verificationLength,
		verificationTTL:    verificationTTL,
		now:                time.Now,
	}
}

// IssueInvitation legt eine Einladung an und reiht die E-Mail ein.
// Reihenfolge: Cache-Eintrag zuerst, dann Queue. Schlägt der Cache fehl, wird nichts eingereiht.
func (s *InvitationService) IssueInvitation(ctx context.Context, req *invitation_dto.IssueInvitationRequest) (*entity.InvitationRecord, *app_errors.AppError) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	exists, appErr := s.repo.OrganizationExists(ctx, req.OrganizationID)
	if appErr != nil {
		return nil, appErr
	}
	if !exists {
		return nil, app_errors.NewValidationError([]app_errors.FieldError{{
			Field:      "organization_id",
			Reason:     "not_found",
			MessageKey: "organization.not_found",
		}})
	}

	orgName, appErr := s.repo.FindOrganizationName(ctx, req.OrganizationID)
	if appErr != nil {
		return nil, appErr
	}

	token := s.tokens.GenerateCode()
	record := &entity.InvitationRecord{
		Token:          token,
		Email:          req.Email,
		OrganizationID: req.OrganizationID,
		Status:         entity.PENDING,
		Expiry:         s.now().Add(s.ttl).UTC(),
	}

	job, appErr := s.invitationJob(record, orgName)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.cache.Put(ctx, token, record, s.ttl); err != nil {
		log.Error().Err(err).Int64("organization_id", req.OrganizationID).Msg("Einladung konnte nicht im Cache gespeichert werden")
		return nil, app_errors.NewCacheWriteError(err)
	}

	if err := s.queue.Push(ctx, job); err != nil {
		// Der Eintrag bleibt bis zum TTL im Cache; ein Resend ist mit dem Token möglich.
		log.Error().Err(err).Str("token", token).Msg("Einladungs-E-Mail konnte nicht eingereiht werden")
		return record, app_errors.NewQueuePushError(token, err)
	}

	log.Info().Str("token", token).Str("job_id", job.ID).Int64("organization_id", req.OrganizationID).Msg("Einladung ausgestellt")
	return record, nil
}

// LookupInvitation unterscheidet nicht zwischen nie ausgestellt, angenommen, abgelaufen oder Backend-Fehler.
func (s *InvitationService) LookupInvitation(ctx context.Context, token string) (*entity.InvitationRecord, *app_errors.AppError) {
	if token == "" {
		return nil, app_errors.NewNotFoundError("invitation.not_found")
	}

	record, err := s.cache.Get(ctx, token)
	if err != nil {
		log.Warn().Err(err).Str("token", token).Msg("Einladung konnte nicht gelesen werden")
		return nil, app_errors.NewNotFoundError("invitation.not_found")
	}
	if record == nil {
		return nil, app_errors.NewNotFoundError("invitation.not_found")
	}
	return record, nil
}

func (s *InvitationService) AcceptInvitation(ctx context.Context, token string, req *invitation_dto.AcceptInvitationRequest) (*entity.InvitationRecord, *app_errors.AppError) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	record, appErr := s.LookupInvitation(ctx, token)
	if appErr != nil {
		return nil, appErr
	}

	if !strings.EqualFold(record.Email, req.Email) {
		return nil, app_errors.NewAppError(fiber.StatusForbidden, app_errors.ErrForbidden, "invitation.email_mismatch", nil)
	}
	if record.Status != entity.PENDING {
		return nil, app_errors.NewAppError(fiber.StatusConflict, app_errors.ErrConflict, "invitation.not_pending", nil)
	}

	// Nur der Aufruf, der den PENDING-Eintrag tatsächlich löscht, gewinnt.
	removed, err := s.cache.RemoveIfPending(ctx, token)
	if err != nil {
		log.Error().Err(err).Str("token", token).Msg("Angenommene Einladung konnte nicht entfernt werden")
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	if !removed {
		return nil, app_errors.NewNotFoundError("invitation.not_found")
	}

	record.Status = entity.ACCEPTED
	log.Info().Str("token", token).Int64("organization_id", record.OrganizationID).Msg("Einladung angenommen")
	return record, nil
}

// ResendInvitation reiht die E-Mail für eine offene oder fehlgeschlagene Einladung erneut ein.
// Das Ablaufdatum bleibt unverändert.
func (s *InvitationService) ResendInvitation(ctx context.Context, token string) (*entity.InvitationRecord, *app_errors.AppError) {
	record, appErr := s.LookupInvitation(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	if record.Status != entity.PENDING && record.Status != entity.FAILED {
		return nil, app_errors.NewAppError(fiber.StatusConflict, app_errors.ErrConflict, "invitation.not_resendable", nil)
	}

	orgName, appErr := s.repo.FindOrganizationName(ctx, record.OrganizationID)
	if appErr != nil {
		return nil, appErr
	}

	job, appErr := s.invitationJob(record, orgName)
	if appErr != nil {
		return nil, appErr
	}

	// Status vor dem Push zurücksetzen: ein schneller Worker darf sein FAILED nicht überschrieben bekommen.
	wasFailed := record.Status == entity.FAILED
	if wasFailed {
		found, err := s.cache.SetStatus(ctx, token, entity.PENDING)
		if err != nil {
			log.Error().Err(err).Str("token", token).Msg("Status konnte nicht auf PENDING gesetzt werden")
			return nil, app_errors.NewCacheWriteError(err)
		}
		if !found {
			return nil, app_errors.NewNotFoundError("invitation.not_found")
		}
		record.Status = entity.PENDING
	}

	if err := s.queue.Push(ctx, job); err != nil {
		log.Error().Err(err).Str("token", token).Msg("Erneuter Versand konnte nicht eingereiht werden")
		if wasFailed {
			if _, setErr := s.cache.SetStatus(ctx, token, entity.FAILED); setErr != nil {
				log.Error().Err(setErr).Str("token", token).Msg("Status konnte nicht auf FAILED zurückgesetzt werden")
			}
			record.Status = entity.FAILED
		}
		return record, app_errors.NewQueuePushError(token, err)
	}

	log.Info().Str("token", token).Str("job_id", job.ID).Msg("Einladung erneut eingereiht")
	return record, nil
}

// SendVerificationCode verschickt einen kurzen Code. Zurück geht nur der Hash.
func (s *InvitationService) SendVerificationCode(ctx context.Context, req *invitation_dto.VerificationCodeRequest) (*entity.VerificationCodeIssued, *app_errors.AppError) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	code := s.tokens.GenerateCodeOfLength(s.verificationLength)
	hash, err := s.tokens.HashCode(code)
	if err != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	expiresAt := s.now().Add(s.verificationTTL).UTC()

	content, err := s.renderer.Render(mail.TemplateVerification, map[string]any{
		"verificationCode": code,
		"expiryDate":       expiresAt.Format(verificationDateLayout),
	})
	if err != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "mail.render_failed", err)
	}

	job := &entity.DeliveryJob{
		Kind:      entity.DeliveryVerification,
		Recipient: req.Email,
		Subject:   "Your verification code",
		Content:   content,
	}
	if err := s.queue.Push(ctx, job); err != nil {
		log.Error().Err(err).Msg("Verifizierungs-E-Mail konnte nicht eingereiht werden")
		return nil, app_errors.NewAppError(fiber.StatusBadGateway, app_errors.ErrQueuePush, "verification.queue_push_failed", err)
	}

	return &entity.VerificationCodeIssued{
		Email:     req.Email,
		CodeHash:  hash,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *InvitationService) ListDeadLetters(ctx context.Context, offset, limit int64) ([]entity.DeadLetter, *app_errors.AppError) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultDeadLetterLimit
	}
	if limit > MaxDeadLetterLimit {
		limit = MaxDeadLetterLimit
	}

	letters, err := s.queue.DeadLetters(ctx, offset, limit)
	if err != nil {
		log.Error().Err(err).Msg("Dead letters konnten nicht gelesen werden")
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	return letters, nil
}

// invitationJob rendert die E-Mail vor dem Einreihen; der Dispatcher braucht keine Vorlagen.
func (s *InvitationService) invitationJob(record *entity.InvitationRecord, orgName string) (*entity.DeliveryJob, *app_errors.AppError) {
	content, err := s.renderer.Render(mail.TemplateInvitation, map[string]any{
		"organizationName": orgName,
		"invitationLink":   s.invitationLink(record.Token),
		"expiryDate":       record.Expiry.Format(expiryDateLayout),
	})
	if err != nil {
		log.Error().Err(err).Str("template", mail.TemplateInvitation).Msg("E-Mail konnte nicht gerendert werden")
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "mail.render_failed", err)
	}

	return &entity.DeliveryJob{
		Kind:      entity.DeliveryInvitation,
		Token:     record.Token,
		Recipient: record.Email,
		Subject:   fmt.Sprintf("Invitation to join %s", orgName),
		Content:   content,
	}, nil
}

func (s *InvitationService) invitationLink(token string) string {
	return s.baseURL + "/invitations/" + token + "/accept"
}
