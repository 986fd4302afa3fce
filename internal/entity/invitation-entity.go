package entity

import (
	"time"
)

// InvitationRecord ist der Zustand einer Einladung, wie er im Cache unter invitation:<token> liegt.
type InvitationRecord struct {
	Token          string               `json:"token"`
	Email          string               `json:"email"`
	OrganizationID int64                `json:"organization_id"`
	Status         InvitationStatusEnum `json:"status"`
	Expiry         time.Time            `json:"expiry"`
}

type InvitationStatusEnum string

const (
	PENDING  InvitationStatusEnum = "PENDING"
	ACCEPTED InvitationStatusEnum = "ACCEPTED"
	EXPIRED  InvitationStatusEnum = "EXPIRED"
	FAILED   InvitationStatusEnum = "FAILED"
)

func (s InvitationStatusEnum) IsValid() bool {
	switch s {
	case PENDING, ACCEPTED, EXPIRED, FAILED:
		return true
	}
	return false
}
