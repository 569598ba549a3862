// internal/resources/communications/client_test.go
package communications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/api"
	"hireflow/internal/cache"
	"hireflow/internal/common/config"
	apierrors "hireflow/internal/common/errors"
	"hireflow/internal/common/logger"
	"hireflow/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger(t)
	apiClient := api.NewClient(config.APIConfig{
		BaseURL:    server.URL,
		Timeout:    5000,
		MaxRetries: 1,
		RetryDelay: 1,
	}, log, nil)

	queryCache := cache.New(cache.NewMemoryStore(), log)
	t.Cleanup(func() { queryCache.Close() })

	return NewClient(apiClient, queryCache, time.Minute, log)
}

func TestSendEmail_ValidationBlocksSubmission(t *testing.T) {
	var hits int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))

	_, err := client.SendEmail(context.Background(), &SendEmailInput{To: "x@example.com"})
	require.Error(t, err)

	var valErr *apierrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, atomic.LoadInt32(&hits), "invalid payloads never reach the network")
}

func TestSendEmail_InvalidatesApplicationTimeline(t *testing.T) {
	var timelineHits int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/communications/send-email":
			entry, _ := json.Marshal(&models.CommunicationEntry{ID: "m1", ApplicationID: "A1", Channel: models.ChannelEmail, DeliveryStatus: models.DeliverySent})
			fmt.Fprintf(w, `{"success":true,"data":%s}`, entry)
		case "/communications/timeline/A1":
			atomic.AddInt32(&timelineHits, 1)
			w.Write([]byte(`{"success":true,"data":[]}`))
		default:
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	_, err := client.Timeline(ctx, "A1")
	require.NoError(t, err)

	entry, err := client.SendEmail(ctx, &SendEmailInput{
		To: "dana@example.com", Subject: "Interview", Body: "Hello", ApplicationID: "A1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DeliverySent, entry.DeliveryStatus)

	_, err = client.Timeline(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&timelineHits),
		"the application's timeline must re-fetch after a send")
}

func TestPreviewAndGenerate_UseDedicatedEndpoints(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"body":"rendered"}}`))
	}))
	ctx := context.Background()

	preview, err := client.PreviewTemplate(ctx, "t1", map[string]string{"name": "Dana"})
	require.NoError(t, err)
	assert.Equal(t, "rendered", preview)

	draft, err := client.GenerateAIEmail(ctx, "c-1", "follow-up", "friendly")
	require.NoError(t, err)
	assert.Equal(t, "rendered", draft)

	assert.Equal(t, []string{
		"POST /communications/preview-template",
		"POST /communications/generate-ai-email",
	}, paths)
}

func TestTemplates_Cached(t *testing.T) {
	var hits int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		templates, _ := json.Marshal([]models.Template{{ID: "t1", Name: "Offer"}})
		fmt.Fprintf(w, `{"success":true,"data":%s}`, templates)
	}))
	ctx := context.Background()

	templates, err := client.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	_, err = client.Templates(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
