package cache

import (
	"context"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/entity"
)

const (
	InvitationKeyPrefix  = "invitation:"
	DefaultInvitationTTL = 7 * 24 * time.Hour
)

// InvitationCache hält den Einladungszustand mit Ablaufzeit pro Token.
// Get liefert (nil, nil), wenn der Token nie ausgegeben, bereits angenommen oder abgelaufen ist.
type InvitationCache interface {
	Put(ctx context.Context, token string, record *entity.InvitationRecord, ttl time.Duration) error
	Get(ctx context.Context, token string) (*entity.InvitationRecord, error)
	Remove(ctx context.Context, token string) error
	// RemoveIfPending löscht atomar nur einen PENDING-Eintrag. true heißt: dieser Aufruf hat ihn entfernt.
	RemoveIfPending(ctx context.Context, token string) (bool, error)
	// SetStatus ändert nur den Status eines noch vorhandenen Eintrags. false heißt: Eintrag existiert nicht mehr.
	SetStatus(ctx context.Context, token string, status entity.InvitationStatusEnum) (bool, error)
}

func InvitationKey(token string) string {
	return InvitationKeyPrefix + token
}
