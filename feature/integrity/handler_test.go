package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"booking-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, db *gorm.DB) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "bookings", zap.NewNop(), db, syncConfig)
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func TestHandleStructureCheck(t *testing.T) {
	t.Run("Checked", func(t *testing.T) {
		app, mockClient := setupTestApp(t, nil)
		mockClient.On("BucketExists", mock.Anything, "bookings").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "bookings", mock.Anything).Return(emptyListing())

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "checked", body["status"])
		assert.Len(t, body["missing"], 2)
	})

	t.Run("Fixed", func(t *testing.T) {
		app, mockClient := setupTestApp(t, nil)
		mockClient.On("BucketExists", mock.Anything, "bookings").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "bookings", mock.Anything).Return(emptyListing())
		mockClient.On("PutObject", mock.Anything, "bookings", mock.Anything, mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "fixed", body["status"])
		mockClient.AssertNumberOfCalls(t, "PutObject", 2)
	})

	t.Run("Bucket Error", func(t *testing.T) {
		app, mockClient := setupTestApp(t, nil)
		mockClient.On("BucketExists", mock.Anything, "bookings").Return(false, assert.AnError)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/structure", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t, setupTestDB(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["matched"])
}

func TestHandleReferenceCheck(t *testing.T) {
	t.Run("No Database", func(t *testing.T) {
		app, _ := setupTestApp(t, nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/references", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})

	t.Run("Seeded", func(t *testing.T) {
		db := setupTestDB(t)
		seedDefaults(t, db)
		app, _ := setupTestApp(t, db)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/references", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body["references"], 5)
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient := setupTestApp(t, nil)
	mockClient.On("BucketExists", mock.Anything, "bookings").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["structure"]["status"])
	assert.Equal(t, "error", body["schema"]["status"])
	assert.Equal(t, "error", body["references"]["status"])
}
