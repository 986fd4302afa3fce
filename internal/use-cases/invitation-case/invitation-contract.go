package invitation_case

import (
	"context"

	invitation_dto "github.com/Xenn-00/organisation-meister/internal/dtos/invitation-dto"
	"github.com/Xenn-00/organisation-meister/internal/entity"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
)

type InvitationServiceContract interface {
	IssueInvitation(ctx context.Context, req *invitation_dto.IssueInvitationRequest) (*entity.InvitationRecord, *app_errors.AppError)
	LookupInvitation(ctx context.Context, token string) (*entity.InvitationRecord, *app_errors.AppError)
	AcceptInvitation(ctx context.Context, token string, req *invitation_dto.AcceptInvitationRequest) (*entity.InvitationRecord, *app_errors.AppError)
	ResendInvitation(ctx context.Context, token string) (*entity.InvitationRecord, *app_errors.AppError)
	SendVerificationCode(ctx context.Context, req *invitation_dto.VerificationCodeRequest) (*entity.VerificationCodeIssued, *app_errors.AppError)
	ListDeadLetters(ctx context.Context, offset, limit int64) ([]entity.DeadLetter, *app_errors.AppError)
}
