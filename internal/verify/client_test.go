package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestSearchTaxID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/verification/search", r.URL.Path)
			assert.Equal(t, "5252525252", r.URL.Query().Get("query"))
			assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
			json.NewEncoder(w).Encode(VerificationResult{
				Query:      "5252525252",
				TrustScore: 72,
				RiskLevel:  "Niski",
				Source:     "CEIDG",
				Company:    &Company{Name: "Januszex", NIP: "5252525252"},
			})
		}))
		defer srv.Close()

		lookup := client.SearchTaxID(context.Background(), "5252525252")
		require.Equal(t, StatusFound, lookup.Status)
		require.NotNil(t, lookup.Result.Company)
		assert.Equal(t, "5252525252", lookup.Result.Company.NIP)
		assert.Equal(t, 72, lookup.Result.TrustScore)
	})

	t.Run("non-2xx is not found", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		lookup := client.SearchTaxID(context.Background(), "5252525252")
		assert.Equal(t, StatusNotFound, lookup.Status)
		assert.Nil(t, lookup.Result)
	})

	t.Run("unreachable backend is a transport error", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		lookup := client.SearchTaxID(context.Background(), "5252525252")
		assert.Equal(t, StatusTransportError, lookup.Status)
	})

	t.Run("malformed JSON is a transport error", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer srv.Close()

		lookup := client.SearchTaxID(context.Background(), "5252525252")
		assert.Equal(t, StatusTransportError, lookup.Status)
	})
}

func TestSearchPhone(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verification/phone/500600700", r.URL.Path)
		json.NewEncoder(w).Encode(VerificationResult{
			Query:     "500600700",
			IsPhone:   true,
			RiskLevel: "Wysoki",
			Source:    "COMMUNITY",
			Community: &Community{TotalReports: 3, Alerts: 1},
		})
	}))
	defer srv.Close()

	lookup := client.SearchPhone(context.Background(), "500600700")
	require.Equal(t, StatusFound, lookup.Status)
	assert.Equal(t, 3, lookup.Result.Community.TotalReports)
}

func TestLogin(t *testing.T) {
	t.Run("success returns token and user blob", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/login", r.URL.Path)
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "user@example.com", creds["email"])
			assert.Equal(t, "hunter22", creds["password"])
			w.Write([]byte(`{"access_token":"tok-123","user":{"id":7,"email":"user@example.com"}}`))
		}))
		defer srv.Close()

		res, err := client.Login(context.Background(), "user@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", res.AccessToken)
		assert.JSONEq(t, `{"id":7,"email":"user@example.com"}`, string(res.User))
	})

	t.Run("rejected credentials map to the sentinel", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := client.Login(context.Background(), "user@example.com", "wrong")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestCreateReport(t *testing.T) {
	t.Run("attaches the bearer token", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			var sub ReportSubmission
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
			assert.Equal(t, "5252525252", sub.TargetValue)
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		err := client.CreateReport(context.Background(), "tok-123", &ReportSubmission{TargetValue: "5252525252"})
		assert.NoError(t, err)
	})

	t.Run("non-2xx is a hard failure", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		err := client.CreateReport(context.Background(), "tok-123", &ReportSubmission{})
		assert.ErrorIs(t, err, ErrRejected)
	})
}

func TestUploadEvidence(t *testing.T) {
	t.Run("sends multipart file and returns the reference", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/reports/upload-screenshot", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "proof.png", header.Filename)
			assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

			json.NewEncoder(w).Encode(UploadResult{Path: "/uploads/abc.png", URL: "http://files/uploads/abc.png"})
		}))
		defer srv.Close()

		res, err := client.UploadEvidence(context.Background(), "tok-123", "proof.png", "image/png", strings.NewReader("fake image bytes"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/abc.png", res.Path)
	})

	t.Run("fails loudly on non-2xx", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := client.UploadEvidence(context.Background(), "tok-123", "proof.png", "image/png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrRejected)
	})
}

func TestAdminLinkPhone(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verification/admin/link-phone", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "5252525252", body["nip"])
		assert.Equal(t, "+48500600700", body["phone"])
	}))
	defer srv.Close()

	err := client.AdminLinkPhone(context.Background(), "5252525252", "+48500600700")
	assert.NoError(t, err)
}

func TestAdminCompanyNotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := client.AdminCompany(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
