package invitation_dto

import (
	"time"

	"github.com/Xenn-00/organisation-meister/internal/entity"
)

type InvitationResponse struct {
	Token          string    `json:"token"`
	Email          string    `json:"email"`
	OrganizationID int64     `json:"organization_id"`
	Status         string    `json:"status"`
	Expiry         time.Time `json:"expiry"`
}

type DeadLetterResponse struct {
	JobID      string    `json:"job_id"`
	Kind       string    `json:"kind"`
	Token      string    `json:"token,omitempty"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Reason     string    `json:"reason"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	FailedAt   time.Time `json:"failed_at"`
}

func ToInvitationResponse(r *entity.InvitationRecord) *InvitationResponse {
	return &InvitationResponse{
		Token:          r.Token,
		Email:          r.Email,
		OrganizationID: r.OrganizationID,
		Status:         string(r.Status),
		Expiry:         r.Expiry,
	}
}

// ToDeadLetterResponses lässt den gerenderten Inhalt weg; er kann sehr groß sein.
func ToDeadLetterResponses(letters []entity.DeadLetter) []DeadLetterResponse {
	out := make([]DeadLetterResponse, 0, len(letters))
	for _, dl := range letters {
		out = append(out, DeadLetterResponse{
			JobID:      dl.Job.ID,
			Kind:       string(dl.Job.Kind),
			Token:      dl.Job.Token,
			Recipient:  dl.Job.Recipient,
			Subject:    dl.Job.Subject,
			Reason:     dl.Reason,
			Attempts:   dl.Attempts,
			EnqueuedAt: dl.Job.EnqueuedAt,
			FailedAt:   dl.FailedAt,
		})
	}
	return out
}
