package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/verify360/trustcheck-gateway/internal/metrics"
)

var (
	ErrUnauthorized     = errors.New("invalid email or password")
	ErrRegisterRejected = errors.New("registration rejected (email may be taken)")
	ErrNotFound         = errors.New("record not found")
	ErrRejected         = errors.New("verification backend rejected the request")
)

type Client struct {
	base       string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:       strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchTaxID looks a company up by its 10-digit tax ID.
func (c *Client) SearchTaxID(ctx context.Context, nip string) Lookup {
	return c.lookup(ctx, "search_nip", "/verification/search?query="+url.QueryEscape(nip))
}

// SearchPhone looks a phone number up in the report history.
func (c *Client) SearchPhone(ctx context.Context, number string) Lookup {
	return c.lookup(ctx, "search_phone", "/verification/phone/"+url.PathEscape(number))
}

// lookup folds the read-path error taxonomy into the Lookup variant: any
// non-2xx answer is NotFound, anything that never produced an answer is
// TransportError. Neither is ever fatal to the caller.
func (c *Client) lookup(ctx context.Context, endpoint, path string) Lookup {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return Lookup{Status: StatusTransportError}
	}
	req.Header.Set("Content-Type", "application/json")
	// Always observe fresh backend state; lookups are never served stale.
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("verification lookup failed", "endpoint", endpoint, "error", err)
		return Lookup{Status: StatusTransportError}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Lookup{Status: StatusNotFound}
	}

	var result VerificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Warn("verification lookup returned malformed JSON", "endpoint", endpoint, "error", err)
		return Lookup{Status: StatusTransportError}
	}
	return Lookup{Status: StatusFound, Result: &result}
}

// Login exchanges credentials for a backend bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.postJSON(ctx, "/auth/login", "", credentials{Email: email, Password: password}, &out)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return &out, nil
}

// Register creates an account on the backend and logs it in.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.postJSON(ctx, "/auth/register", "", credentials{Email: email, Password: password}, &out)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return nil, ErrRegisterRejected
		}
		return nil, err
	}
	return &out, nil
}

// CreateReport submits a composed report. Write paths fail hard on any
// non-2xx status.
func (c *Client) CreateReport(ctx context.Context, token string, sub *ReportSubmission) error {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues("create_report").Observe(time.Since(start).Seconds())
	}()

	if err := c.postJSON(ctx, "/reports", token, sub, nil); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return fmt.Errorf("%w: status %d", ErrRejected, se.code)
		}
		return err
	}
	return nil
}

// UploadEvidence streams one image to the backend's screenshot store and
// returns the server-assigned reference. Callers must treat failure as
// submission-blocking.
func (c *Client) UploadEvidence(ctx context.Context, token, filename, contentType string, r io.Reader) (*UploadResult, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues("upload_evidence").Observe(time.Since(start).Seconds())
	}()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := createFilePart(mw, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read evidence file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/reports/upload-screenshot", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evidence upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: upload status %d", ErrRejected, resp.StatusCode)
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("malformed upload response: %w", err)
	}
	return &out, nil
}

// LatestReports fetches the community feed for the landing view.
func (c *Client) LatestReports(ctx context.Context) ([]RecentReport, error) {
	var out []RecentReport
	if err := c.getJSON(ctx, "/reports/latest", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCompany(ctx context.Context, nip string) (*AdminCompany, error) {
	var out AdminCompany
	if err := c.getJSON(ctx, "/verification/admin/company/"+url.PathEscape(nip), &out); err != nil {
		return nil, asNotFound(err)
	}
	return &out, nil
}

func (c *Client) AdminUpdateCompany(ctx context.Context, nip string, fields map[string]interface{}) error {
	return c.writeJSON(ctx, http.MethodPatch, "/verification/admin/company/"+url.PathEscape(nip), fields)
}

func (c *Client) AdminPerson(ctx context.Context, id int64) (*AdminPerson, error) {
	var out AdminPerson
	if err := c.getJSON(ctx, fmt.Sprintf("/verification/admin/person/%d", id), &out); err != nil {
		return nil, asNotFound(err)
	}
	return &out, nil
}

func (c *Client) AdminUpdatePerson(ctx context.Context, id int64, fields map[string]interface{}) error {
	return c.writeJSON(ctx, http.MethodPatch, fmt.Sprintf("/verification/admin/person/%d", id), fields)
}

// AdminLinkPhone associates an extra phone number with a company record.
func (c *Client) AdminLinkPhone(ctx context.Context, nip, phone string) error {
	return c.writeJSON(ctx, http.MethodPost, "/verification/admin/link-phone", map[string]string{
		"nip":   nip,
		"phone": phone,
	})
}

func (c *Client) AdminListCompanies(ctx context.Context) ([]AdminCompany, error) {
	var out []AdminCompany
	if err := c.getJSON(ctx, "/verification/admin/companies", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminListPersons(ctx context.Context) ([]AdminPerson, error) {
	var out []AdminPerson
	if err := c.getJSON(ctx, "/verification/admin/persons", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- wire helpers ---

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend status %d", e.code)
}

func asNotFound(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return ErrNotFound
	}
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) writeJSON(ctx context.Context, method, path string, in interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

func createFilePart(mw *multipart.Writer, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		return mw.CreateFormFile("file", filename)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	return mw.CreatePart(h)
}
