package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/verify360/trustcheck-gateway/internal/metrics"
	"github.com/verify360/trustcheck-gateway/internal/query"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

var (
	ErrMissingTaxID      = errors.New("a tax ID is required to report a company")
	ErrMissingIdentifier = errors.New("a name or phone number is required to report a person")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidReason     = errors.New("unknown report reason")
	ErrSubmissionFailed  = errors.New("report submission failed")
)

// Reason codes accepted by the verification backend.
var validReasons = map[string]bool{
	"SCAM":  true,
	"SPAM":  true,
	"TOWAR": true,
	"RODO":  true,
	"OTHER": true,
}

// ReportDraft is the form state collected from the composer before it is
// normalized into a backend submission.
type ReportDraft struct {
	TargetKind   query.TargetKind
	TargetValue  string
	ScammerName  string
	PhoneNumber  string
	Email        string
	FacebookLink string
	BankAccount  string
	Rating       int
	Reason       string
	Comment      string
}

// EvidenceFile is an optional screenshot attached to a draft.
type EvidenceFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

type ReportService struct {
	client *verify.Client
}

func NewReportService(client *verify.Client) *ReportService {
	return &ReportService{client: client}
}

// Submit validates the draft, uploads the evidence file when present, and
// sends the composed report. Validation failures never reach the network.
// The upload strictly precedes the report call because the payload carries
// the path the storage endpoint assigned.
func (s *ReportService) Submit(ctx context.Context, token string, draft *ReportDraft, evidence *EvidenceFile) (string, error) {
	sub, err := buildSubmission(draft)
	if err != nil {
		metrics.ReportSubmissions.WithLabelValues(string(draft.TargetKind), "invalid").Inc()
		return "", err
	}

	if evidence != nil {
		upload, err := s.client.UploadEvidence(ctx, token, evidence.Name, evidence.ContentType, evidence.Reader)
		if err != nil {
			metrics.ReportSubmissions.WithLabelValues(string(draft.TargetKind), "upload_failed").Inc()
			return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
		}
		sub.ScreenshotPath = upload.Path
	}

	if err := s.client.CreateReport(ctx, token, sub); err != nil {
		if sub.ScreenshotPath != "" {
			// The storage endpoint has no delete; the uploaded file is
			// orphaned until a resubmission references a fresh one.
			slog.Warn("report creation failed after evidence upload", "path", sub.ScreenshotPath, "error", err)
		}
		metrics.ReportSubmissions.WithLabelValues(string(draft.TargetKind), "rejected").Inc()
		return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	metrics.ReportSubmissions.WithLabelValues(string(draft.TargetKind), "created").Inc()
	return reportViewPath(sub), nil
}

// Latest passes the community feed through for the landing view. Failures
// degrade to an empty feed.
func (s *ReportService) Latest(ctx context.Context) []verify.RecentReport {
	reports, err := s.client.LatestReports(ctx)
	if err != nil {
		slog.Warn("failed to fetch latest reports", "error", err)
		return []verify.RecentReport{}
	}
	return reports
}

// buildSubmission enforces the composer's client-side validation and
// normalizes the draft into the backend payload shape.
func buildSubmission(draft *ReportDraft) (*verify.ReportSubmission, error) {
	if draft.Rating < 1 || draft.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if !validReasons[draft.Reason] {
		return nil, ErrInvalidReason
	}

	sub := &verify.ReportSubmission{
		TargetType:    draft.TargetKind,
		Rating:        draft.Rating,
		Reason:        draft.Reason,
		Comment:       draft.Comment,
		PhoneNumber:   draft.PhoneNumber,
		ReportedEmail: draft.Email,
		FacebookLink:  draft.FacebookLink,
		BankAccount:   draft.BankAccount,
	}

	switch draft.TargetKind {
	case query.TargetCompany:
		if draft.TargetValue == "" {
			return nil, ErrMissingTaxID
		}
		sub.TargetValue = draft.TargetValue
		sub.ScammerName = draft.ScammerName
	default:
		sub.TargetType = query.TargetPerson
		if draft.TargetValue == "" && draft.PhoneNumber == "" {
			return nil, ErrMissingIdentifier
		}
		if draft.TargetValue != "" {
			sub.TargetValue = draft.TargetValue
		} else {
			sub.TargetValue = draft.PhoneNumber
		}
		sub.ScammerName = draft.TargetValue
	}
	return sub, nil
}

func reportViewPath(sub *verify.ReportSubmission) string {
	if sub.TargetType == query.TargetCompany {
		return "/report/nip/" + url.PathEscape(sub.TargetValue)
	}
	return "/report/phone/" + url.PathEscape(sub.TargetValue)
}
