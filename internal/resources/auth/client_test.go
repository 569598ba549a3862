// internal/resources/auth/client_test.go
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/api"
	"hireflow/internal/common/config"
	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/common/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger(t)
	apiClient := api.NewClient(config.APIConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		Timeout:    5000,
		MaxRetries: 1,
		RetryDelay: 1,
	}, log, nil)

	return NewClient(apiClient, log)
}

func TestRegister_ValidationBlocksSubmission(t *testing.T) {
	var hits int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { hits++ })

	_, err := client.Register(context.Background(), &RegisterInput{
		Email:    "dana@example.com",
		Password: "short",
		FullName: "Dana",
	})
	require.Error(t, err)

	var valErr *apierrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, hits, "an invalid payload must never reach the network")
}

func TestGetUser_UsesGetUserEndpoint(t *testing.T) {
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		w.Write([]byte(`{"success":true,"data":{"id":"u-1","email":"dana@example.com"}}`))
	})

	user, err := client.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "GET /auth/get-user", path)
}
