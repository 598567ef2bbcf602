package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResendSender_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	s, err := NewResendSender("re_test")
	require.NoError(t, err)
	s.baseURL = srv.URL

	msg := ResetPasswordMessage(FromAddress("Hub", "noreply@hub.test"), "a@b.test", "https://x.test/reset?token=t")
	require.NoError(t, s.Send(context.Background(), msg))
	assert.Equal(t, `"Hub" <noreply@hub.test>`, got.From)
	assert.Equal(t, []string{"a@b.test"}, got.To)
	assert.Equal(t, "Password Reset Request", got.Subject)
	assert.Contains(t, got.HTML, `href="https://x.test/reset?token=t"`)
}

func TestResendSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, err := NewResendSender("re_test")
	require.NoError(t, err)
	s.baseURL = srv.URL

	err = s.Send(context.Background(), Message{To: []string{"a@b.test"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewResendSender_RequiresKey(t *testing.T) {
	_, err := NewResendSender("")
	require.Error(t, err)
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewLogSender(zap.New(core))
	require.NoError(t, s.Send(context.Background(), ResetPasswordMessage("from", "to@b.test", "link")))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "local email", logs.All()[0].Message)
}
