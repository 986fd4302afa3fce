package dtos

// WebResponse repräsentiert eine standardisierte Webantwort.
type WebResponse[T any] struct {
	Message   string          `json:"message"`
	Data      T               `json:"data"`
	Details   []any           `json:"details,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	Meta      *PaginationMeta `json:"meta,omitempty"`
}

// PaginationMeta beschreibt eine Offset-Seite, z. B. der Dead-Letter-Liste.
type PaginationMeta struct {
	Offset int64 `json:"offset"`
	Limit  int64 `json:"limit"`
	Count  int   `json:"count"`
}
