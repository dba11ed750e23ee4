package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jane@acme.io", req.Email)

		json.NewEncoder(w).Encode(AuthResponse{
			Token: "tok-xyz",
			User:  User{ID: 3, Email: req.Email, OnboardingCompleted: true},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	resp, err := c.Login(context.Background(), LoginRequest{Email: "jane@acme.io", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", resp.Token)
	assert.Equal(t, int64(3), resp.User.ID)
	assert.True(t, resp.User.OnboardingCompleted)
}

func TestAuthorizationHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "no header without a token")

	c.SetToken("tok-abc")
	_, err = c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", got)

	c.ClearToken()
	_, err = c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "cleared token must drop the header")
}

func TestErrorDecoding(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"plain body", http.StatusBadGateway, "upstream timed out", "upstream timed out"},
		{"empty body", http.StatusInternalServerError, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "tok")
			_, err := c.CurrentUser(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestMessageFallback(t *testing.T) {
	withMsg := &Error{StatusCode: 422, Message: "Category is required"}
	assert.Equal(t, "Category is required", Message(withMsg, "Something went wrong."))

	empty := &Error{StatusCode: 500}
	assert.Equal(t, "Something went wrong.", Message(empty, "Something went wrong."))

	transport := errors.New("dial tcp: connection refused")
	assert.Equal(t, "Something went wrong.", Message(transport, "Something went wrong."))
}

func TestDeleteCampaign(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	require.NoError(t, c.DeleteCampaign(context.Background(), "c-42"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/campaigns/c-42", path)
}

func TestUpdateCampaign(t *testing.T) {
	var got Campaign
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/campaigns/c-7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	updated, err := c.UpdateCampaign(context.Background(), Campaign{
		ID: "c-7", Name: "Spring v2", Status: CampaignDraft, Image: "https://cdn/x.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring v2", got.Name)
	assert.Equal(t, "https://cdn/x.png", updated.Image)
}

func TestSubmitBusinessInfo(t *testing.T) {
	var got BusinessInfo
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/onboarding/business", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	info := BusinessInfo{Category: "retail", Country: "IN", Timezone: "Asia/Kolkata"}
	require.NoError(t, c.SubmitBusinessInfo(context.Background(), info))
	assert.Equal(t, info, got)
}

func TestSyncTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/templates/sync", r.URL.Path)
		json.NewEncoder(w).Encode([]Template{
			{ID: "t1", Name: "welcome", Status: TemplateApproved},
			{ID: "t2", Name: "promo", Status: TemplatePending},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	templates, err := c.SyncTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, TemplateApproved, templates[0].Status)
}
