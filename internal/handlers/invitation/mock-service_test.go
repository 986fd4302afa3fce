package invitation_handlers

import (
	"context"

	invitation_dto "github.com/Xenn-00/organisation-meister/internal/dtos/invitation-dto"
	"github.com/Xenn-00/organisation-meister/internal/entity"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	invitation_case "github.com/Xenn-00/organisation-meister/internal/use-cases/invitation-case"
	"github.com/stretchr/testify/mock"
)

var _ invitation_case.InvitationServiceContract = (*MockInvitationService)(nil)

type MockInvitationService struct {
	mock.Mock
}

func (m *MockInvitationService) record(args mock.Arguments) (*entity.InvitationRecord, *app_errors.AppError) {
	var rec *entity.InvitationRecord
	if v := args.Get(0); v != nil {
		rec = v.(*entity.InvitationRecord)
	}
	return rec, args.Get(1).(*app_errors.AppError)
}

func (m *MockInvitationService) IssueInvitation(ctx context.Context, req *invitation_dto.IssueInvitationRequest) (*entity.InvitationRecord, *app_errors.AppError) {
	return m.record(m.Called(ctx, req))
}

func (m *MockInvitationService) LookupInvitation(ctx context.Context, token string) (*entity.InvitationRecord, *app_errors.AppError) {
	return m.record(m.Called(ctx, token))
}

func (m *MockInvitationService) AcceptInvitation(ctx context.Context, token string, req *invitation_dto.AcceptInvitationRequest) (*entity.InvitationRecord, *app_errors.AppError) {
	return m.record(m.Called(ctx, token, req))
}

func (m *MockInvitationService) ResendInvitation(ctx context.Context, token string) (*entity.InvitationRecord, *app_errors.AppError) {
	return m.record(m.Called(ctx, token))
}

func (m *MockInvitationService) SendVerificationCode(ctx context.Context, req *invitation_dto.VerificationCodeRequest) (*entity.VerificationCodeIssued, *app_errors.AppError) {
	args := m.Called(ctx, req)
	var issued *entity.VerificationCodeIssued
	if v := args.Get(0); v != nil {
		issued = v.(*entity.VerificationCodeIssued)
	}
	return issued, args.Get(1).(*app_errors.AppError)
}

func (m *MockInvitationService) ListDeadLetters(ctx context.Context, offset, limit int64) ([]entity.DeadLetter, *app_errors.AppError) {
	args := m.Called(ctx, offset, limit)
	var letters []entity.DeadLetter
	if v := args.Get(0); v != nil {
		letters = v.([]entity.DeadLetter)
	}
	return letters, args.Get(1).(*app_errors.AppError)
}
