package booking

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"booking-sync/feature/booking/feed"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupApp(env *testEnv) *fiber.App {
	app := fiber.New()
	feature := NewFeature(env.service)
	_ = feature.Load(app)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestFeature(t *testing.T) {
	env := setupTestEnv(t)
	f := NewFeature(env.service)
	assert.Equal(t, "booking", f.Name())
	assert.True(t, f.IsEnabled())
	assert.False(t, NewFeature(NewService(nil, nil, nil, nil, nil, nil, env.service.cfg)).IsEnabled())
}

func TestHandler_Sync(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := setupTestEnv(t)
		env.expectExport("feed/acme/0001.json", exportJSON, true)
		env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
		app := setupApp(env)

		resp, err := app.Test(httptest.NewRequest("POST", "/booking/sync/acme", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "synced", body["status"])
		assert.Len(t, body["applied"], 1)
	})

	t.Run("Dry Run", func(t *testing.T) {
		env := setupTestEnv(t)
		env.expectExport("feed/acme/0001.json", exportJSON, false)
		app := setupApp(env)

		resp, err := app.Test(httptest.NewRequest("POST", "/booking/sync/acme?dry_run=true", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, true, decodeBody(t, resp.Body)["dry_run"])
	})

	t.Run("Unknown Account", func(t *testing.T) {
		app := setupApp(setupTestEnv(t))
		resp, err := app.Test(httptest.NewRequest("POST", "/booking/sync/ghost", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Locked", func(t *testing.T) {
		env := setupTestEnv(t)
		release, err := env.locker.Acquire(context.Background(), "sync:acme", time.Minute)
		require.NoError(t, err)
		defer func() { _ = release(context.Background()) }()

		resp, err := setupApp(env).Test(httptest.NewRequest("POST", "/booking/sync/acme", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("Storage Error", func(t *testing.T) {
		env := setupTestEnv(t)
		env.client.On("BucketExists", mock.Anything, "bookings").Return(false, nil)

		resp, err := setupApp(env).Test(httptest.NewRequest("POST", "/booking/sync/acme", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, decodeBody(t, resp.Body)["error"], "does not exist")
	})
}

func TestHandler_GetReservation(t *testing.T) {
	env := setupTestEnv(t)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	records, err := feed.Decode(strings.NewReader(exportJSON))
	require.NoError(t, err)
	_, err = env.service.SyncRecords(context.Background(), "acme", "test", records, false)
	require.NoError(t, err)
	app := setupApp(env)

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/booking/reservations/500", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "500", body["effective_master_id"])
		assert.Len(t, body["events"], 2)
	})

	t.Run("Not Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/booking/reservations/999", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandler_ListParked(t *testing.T) {
	env := setupTestEnv(t)
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	records, err := feed.Decode(strings.NewReader(exportJSON))
	require.NoError(t, err)
	_, err = env.service.SyncRecords(context.Background(), "acme", "test", records, false)
	require.NoError(t, err)
	app := setupApp(env)

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"Missing Account", "/booking/parked", fiber.StatusBadRequest},
		{"Unknown Account", "/booking/parked?account=ghost", fiber.StatusNotFound},
		{"Listed", "/booking/parked?account=acme&limit=10", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				assert.Len(t, decodeBody(t, resp.Body)["parked"], 1)
			}
		})
	}
}
