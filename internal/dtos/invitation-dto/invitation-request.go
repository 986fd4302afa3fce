package invitation_dto

type IssueInvitationRequest struct {
	Email          string `json:"email" validate:"required,email,max=254"`
	OrganizationID int64  `json:"organization_id" validate:"required,gt=0"`
}

type AcceptInvitationRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type VerificationCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type ParamInvitationToken struct {
	Token string `params:"token" validate:"required,alphanum,max=64"`
}

type DeadLetterQuery struct {
	Offset int64 `query:"offset" validate:"omitempty,min=0"`
	Limit  int64 `query:"limit" validate:"omitempty,min=1,max=100"`
}
