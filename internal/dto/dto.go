package dto

import (
	"encoding/json"

	"github.com/verify360/trustcheck-gateway/internal/query"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse carries the navigation decision for one search. An empty
// Redirect means the input classified to nothing and no lookup was issued.
type SearchResponse struct {
	DetectedType query.Type          `json:"detected_type"`
	Redirect     string              `json:"redirect,omitempty"`
	Status       verify.LookupStatus `json:"status,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string          `json:"token"`
	Email string          `json:"email"`
	User  json.RawMessage `json:"user"`
}

// AuthRedirect is returned when an action requires a session that is not
// present; Next preserves the intended target for after login.
type AuthRedirect struct {
	Error    bool   `json:"error"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
	Next     string `json:"next,omitempty"`
}

type ReportResponse struct {
	Redirect string `json:"redirect"`
}

type LinkPhoneRequest struct {
	Phone string `json:"phone"`
}

// CompanyPatch is the fixed editable field set for the company admin editor.
// Nil fields are omitted from the PATCH so server-managed fields are never
// overwritten.
type CompanyPatch struct {
	Name       *string `json:"name,omitempty"`
	TrustScore *int    `json:"trustScore,omitempty"`
	RiskLevel  *string `json:"riskLevel,omitempty"`
	StatusVat  *string `json:"statusVat,omitempty"`
	Address    *string `json:"address,omitempty"`
	RegDate    *string `json:"regDate,omitempty"`
	Source     *string `json:"source,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// PersonPatch is the fixed editable field set for the person admin editor.
type PersonPatch struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	BankAccount *string `json:"bankAccount,omitempty"`
	TrustScore  *int    `json:"trustScore,omitempty"`
	RiskLevel   *string `json:"riskLevel,omitempty"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
