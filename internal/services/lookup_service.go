package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/verify360/trustcheck-gateway/internal/metrics"
	"github.com/verify360/trustcheck-gateway/internal/query"
	"github.com/verify360/trustcheck-gateway/internal/verify"
)

// Outcome is the navigation decision for one search interaction. An empty
// Redirect means the search was a no-op.
type Outcome struct {
	DetectedType query.Type
	Status       verify.LookupStatus
	Redirect     string
}

type LookupService struct {
	client *verify.Client
}

func NewLookupService(client *verify.Client) *LookupService {
	return &LookupService{client: client}
}

// Search classifies the raw input, performs at most one backend lookup, and
// decides where the client should navigate. Failures on the read path are
// folded into the create-first-report route, never surfaced as errors.
func (s *LookupService) Search(ctx context.Context, raw string) Outcome {
	q := query.Classify(raw)
	if q.Type == query.TypeNone {
		metrics.LookupTotal.WithLabelValues("none", "skipped").Inc()
		return Outcome{DetectedType: query.TypeNone}
	}

	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues(string(q.Type)).Observe(time.Since(start).Seconds())
	}()

	switch q.Type {
	case query.TypeTaxID:
		return s.searchCompany(ctx, q)
	case query.TypePhone:
		return s.searchPhone(ctx, q)
	default:
		// Bank accounts have no lookup endpoint; go straight to composing
		// the first report against them.
		metrics.LookupTotal.WithLabelValues(string(q.Type), "no_endpoint").Inc()
		return Outcome{DetectedType: q.Type, Redirect: newReportPath(q)}
	}
}

func (s *LookupService) searchCompany(ctx context.Context, q query.Query) Outcome {
	lookup := s.client.SearchTaxID(ctx, q.Clean)
	metrics.LookupTotal.WithLabelValues(string(q.Type), string(lookup.Status)).Inc()

	if lookup.Status == verify.StatusFound && lookup.Result.Company != nil {
		// Redirect on the canonical tax ID the backend returned, not the
		// user's input, so formatting variants land on one view.
		return Outcome{
			DetectedType: q.Type,
			Status:       lookup.Status,
			Redirect:     "/report/nip/" + url.PathEscape(lookup.Result.Company.NIP),
		}
	}
	return Outcome{DetectedType: q.Type, Status: lookup.Status, Redirect: newReportPath(q)}
}

func (s *LookupService) searchPhone(ctx context.Context, q query.Query) Outcome {
	lookup := s.client.SearchPhone(ctx, q.Clean)
	metrics.LookupTotal.WithLabelValues(string(q.Type), string(lookup.Status)).Inc()

	if lookup.Status == verify.StatusFound && phoneHasHistory(lookup.Result) {
		return Outcome{
			DetectedType: q.Type,
			Status:       lookup.Status,
			Redirect:     "/report/phone/" + url.PathEscape(q.Clean),
		}
	}
	return Outcome{DetectedType: q.Type, Status: lookup.Status, Redirect: newReportPath(q)}
}

// phoneHasHistory mirrors the fall-through rule for phone lookups: show the
// phone view when the number carries community reports, or when the backend
// knows it at all (risk label other than the non-existent sentinel and a
// source that is not an error).
func phoneHasHistory(res *verify.VerificationResult) bool {
	if res.Community != nil && res.Community.TotalReports > 0 {
		return true
	}
	return res.RiskLevel != verify.RiskNonExistent && res.Source != verify.SourceError
}

// CompanyView fetches the payload behind the company report view.
func (s *LookupService) CompanyView(ctx context.Context, nip string) verify.Lookup {
	return s.client.SearchTaxID(ctx, nip)
}

// PhoneView fetches the payload behind the phone report view.
func (s *LookupService) PhoneView(ctx context.Context, number string) verify.Lookup {
	return s.client.SearchPhone(ctx, number)
}

func newReportPath(q query.Query) string {
	return fmt.Sprintf("/report/new?value=%s&type=%s", url.QueryEscape(q.Clean), url.QueryEscape(string(q.Type)))
}
