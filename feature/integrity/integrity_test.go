package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"reminders/core/database"
	"reminders/core/storage"
	"reminders/core/storage/mocks"
	listModels "reminders/feature/lists/models"
	"reminders/feature/reminders/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&listModels.List{}, &models.Reminder{}))
	require.NoError(t, db.Create(&listModels.List{ID: "home", Title: "Home"}).Error)
	return db
}

func setupApp(t *testing.T, client storage.Client) *fiber.App {
	t.Helper()
	f := NewFeature(setupDB(t), client, storage.Config{Bucket: "exports"}, zap.NewNop())
	app := fiber.New()
	require.NoError(t, f.Load(app))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestFeature(t *testing.T) {
	f := NewFeature(nil, nil, storage.Config{}, zap.NewNop())
	assert.Equal(t, "integrity", f.Name())
	assert.True(t, f.IsEnabled())
}

func TestHandler_Schema(t *testing.T) {
	app := setupApp(t, nil)
	status, body := get(t, app, "/integrity/schema")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["matched"])
}

func TestHandler_AllWithoutStorage(t *testing.T) {
	app := setupApp(t, nil)
	status, body := get(t, app, "/integrity")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "disabled", body["storage"].(map[string]any)["status"])
	assert.Equal(t, true, body["schema"].(map[string]any)["matched"])

	status, _ = get(t, app, "/integrity/storage")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestHandler_StorageFix(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)
	client.On("ListObjects", mock.Anything, "exports", mock.Anything).Return(func() <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "exports/lists/home.json"}
		ch <- minio.ObjectInfo{Key: "exports/lists/gone.json"}
		close(ch)
		return ch
	}())
	client.On("RemoveObject", mock.Anything, "exports", "exports/lists/gone.json", mock.Anything).Return(nil)
	app := setupApp(t, client)

	status, body := get(t, app, "/integrity/storage?fix=true")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "fixed", body["status"])
	assert.Equal(t, []any{"exports/lists/gone.json"}, body["removed"])
	client.AssertExpectations(t)
}

func TestHandler_StorageReportOnly(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "exports").Return(false, nil)
	app := setupApp(t, client)

	status, body := get(t, app, "/integrity/storage")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "error", body["status"])
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}
