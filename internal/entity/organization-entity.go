package entity

import "time"

// OrganizationEntity repräsentiert die Organisationsdaten, soweit die Einladungs-Pipeline sie braucht.
type OrganizationEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VerificationCodeIssued wird an den Aufrufer zurückgegeben, der den Hash beim Benutzer speichert.
// Der Klartext-Code verlässt den Prozess nur per E-Mail.
type VerificationCodeIssued struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}
