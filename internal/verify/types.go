// Package verify is the typed client for the remote Verify360 verification
// backend. The backend owns every company, person, report, trust score, and
// uploaded file; this package only moves JSON across the wire.
package verify

import (
	"encoding/json"

	"github.com/verify360/trustcheck-gateway/internal/query"
)

// Sentinel values the backend embeds in phone lookups that found nothing
// real. A phone result carrying this risk label and an error source is
// treated as empty by the orchestrator.
const (
	RiskNonExistent = "Krytyczny (Nie istnieje)"
	SourceError     = "ERROR"
)

// LookupStatus distinguishes "nothing to show" from "could not be reached"
// on read paths. Navigation collapses the last two, metrics do not.
type LookupStatus string

const (
	StatusFound          LookupStatus = "found"
	StatusNotFound       LookupStatus = "not_found"
	StatusTransportError LookupStatus = "transport_error"
)

// Lookup is the outcome of one read against the verification backend.
type Lookup struct {
	Status LookupStatus        `json:"status"`
	Result *VerificationResult `json:"result,omitempty"`
}

// VerificationResult is the read-only projection returned by the lookup
// endpoints. Field names mirror the backend's JSON exactly.
type VerificationResult struct {
	Query      string     `json:"query"`
	IsPhone    bool       `json:"isPhone,omitempty"`
	TrustScore int        `json:"trustScore"`
	RiskLevel  string     `json:"riskLevel"`
	Source     string     `json:"source"`
	Company    *Company   `json:"company,omitempty"`
	Community  *Community `json:"community,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type Company struct {
	Name      string         `json:"name"`
	NIP       string         `json:"nip"`
	VATStatus string         `json:"vat"`
	Address   string         `json:"address,omitempty"`
	RegDate   string         `json:"regDate,omitempty"`
	Phones    []CompanyPhone `json:"phones"`
}

type CompanyPhone struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	TrustScore int    `json:"trustScore"`
}

type Community struct {
	Alerts         int             `json:"alerts"`
	TotalReports   int             `json:"totalReports"`
	LatestComments []ReportSummary `json:"latestComments"`
}

// ReportSummary is one community report as rendered inside a lookup result,
// including the optional OSINT identifiers used to correlate reports.
type ReportSummary struct {
	Date           string `json:"date"`
	Reason         string `json:"reason"`
	Comment        string `json:"comment"`
	Rating         *int   `json:"rating,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	ReportedEmail  string `json:"reportedEmail,omitempty"`
	FacebookLink   string `json:"facebookLink,omitempty"`
	BankAccount    string `json:"bankAccount,omitempty"`
	ScreenshotURL  string `json:"screenshotUrl,omitempty"`
	ScreenshotPath string `json:"screenshotPath,omitempty"`
}

// ReportSubmission is the write-only payload for POST /reports.
type ReportSubmission struct {
	TargetType     query.TargetKind `json:"targetType"`
	TargetValue    string           `json:"targetValue"`
	ScammerName    string           `json:"scammerName,omitempty"`
	Rating         int              `json:"rating"`
	Reason         string           `json:"reason"`
	Comment        string           `json:"comment"`
	PhoneNumber    string           `json:"phoneNumber,omitempty"`
	ReportedEmail  string           `json:"reportedEmail,omitempty"`
	FacebookLink   string           `json:"facebookLink,omitempty"`
	BankAccount    string           `json:"bankAccount,omitempty"`
	ScreenshotPath string           `json:"screenshotPath,omitempty"`
}

// UploadResult is the storage reference returned by the screenshot endpoint.
type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

type RecentReport struct {
	ID          int        `json:"id"`
	TargetValue string     `json:"targetValue"`
	TargetType  query.Type `json:"targetType"`
	TrustScore  int        `json:"trustScore"`
	Rating      int        `json:"rating"`
	Reason      string     `json:"reason"`
	Comment     string     `json:"comment"`
	Date        string     `json:"date"`
}

// AuthResult carries the backend-issued bearer token and the user-identity
// blob, which the gateway stores verbatim and never interprets.
type AuthResult struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

// AdminCompany is the full company record exposed to the admin editor.
type AdminCompany struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	NIP        string         `json:"nip"`
	TrustScore int            `json:"trustScore"`
	RiskLevel  string         `json:"riskLevel"`
	StatusVat  string         `json:"statusVat"`
	Address    string         `json:"address,omitempty"`
	RegDate    string         `json:"regDate,omitempty"`
	Source     string         `json:"source,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Phones     []CompanyPhone `json:"phones,omitempty"`
	UpdatedAt  string         `json:"updatedAt,omitempty"`
}

// AdminPerson is the full person record, report history included.
type AdminPerson struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	BankAccount string        `json:"bankAccount,omitempty"`
	TrustScore  *int          `json:"trustScore,omitempty"`
	RiskLevel   string        `json:"riskLevel,omitempty"`
	Reports     []AdminReport `json:"reports,omitempty"`
	CreatedAt   string        `json:"createdAt,omitempty"`
}

type AdminReport struct {
	ID            int    `json:"id"`
	Rating        int    `json:"rating"`
	Reason        string `json:"reason"`
	Comment       string `json:"comment,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	BankAccount   string `json:"bankAccount,omitempty"`
	ReportedEmail string `json:"reportedEmail,omitempty"`
	FacebookLink  string `json:"facebookLink,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}
