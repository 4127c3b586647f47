package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail(t *testing.T) {
	var got payloadSendEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3.1/send", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Basic "))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{
		MailjetBaseURL:           srv.URL,
		MailjetBasicAuthUsername: "key",
		MailjetBasicAuthPassword: "secret",
		MailjetSenderEmail:       "shop@example.com",
		MailjetSenderName:        "Shop",
	})

	require.NoError(t, repo.SendEmail("Jane", "jane@example.com", "Hi", "<b>hello</b>"))
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "jane@example.com", got.Messages[0].To[0].Email)
	assert.Equal(t, "shop@example.com", got.Messages[0].From.Email)
	assert.Equal(t, "<b>hello</b>", got.Messages[0].HTMLPart)
}

func TestSendEmailRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewMailjetRepository(MailjetConfig{MailjetBaseURL: srv.URL}).SendEmail("a", "a@b.co", "s", "m")
	assert.EqualError(t, err, "mailer service return negative response 401")
}

func TestSendEmailUnconfigured(t *testing.T) {
	assert.NoError(t, NewMailjetRepository(MailjetConfig{}).SendEmail("a", "a@b.co", "s", "m"))
}
