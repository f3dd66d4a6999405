package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"reminders/core/database"
	"reminders/core/query"
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
)

func setupService(t *testing.T) (*Service, *mocks.Client) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&listModels.List{}, &models.Reminder{}))
	require.NoError(t, db.Create(&listModels.List{ID: "home", Title: "Home"}).Error)
	require.NoError(t, db.Create(&models.Reminder{ID: "1", ListID: "home", Title: "milk", Done: true}).Error)
	require.NoError(t, db.Create(&models.Reminder{ID: "2", ListID: "home", Title: "bread"}).Error)
	require.NoError(t, db.Create(&models.Reminder{ID: "3", ListID: "work", Title: "mail"}).Error)

	client := new(mocks.Client)
	svc := NewService(query.NewStore(db, 0, zap.NewNop()), client, storage.Config{Bucket: "exports"}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, client
}

func TestKey(t *testing.T) {
	assert.Equal(t, "exports/lists/home.json", Key("home"))
}

func TestService_Export(t *testing.T) {
	svc, client := setupService(t)
	ctx := context.Background()

	var doc Document
	client.On("BucketExists", ctx, "exports").Return(false, nil)
	client.On("MakeBucket", ctx, "exports", mock.Anything).Return(nil)
	client.On("PutObject", ctx, "exports", "exports/lists/home.json", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			b, _ := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, json.Unmarshal(b, &doc))
		}).
		Return(minio.UploadInfo{Size: 321}, nil)

	res, err := svc.Export(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, &Result{Bucket: "exports", Key: "exports/lists/home.json", Size: 321, Reminders: 2}, res)

	assert.Equal(t, "Home", doc.List.Title)
	require.Len(t, doc.Reminders, 2)
	assert.Equal(t, "bread", doc.Reminders[0].Title)
	assert.Equal(t, "milk", doc.Reminders[1].Title)
	assert.True(t, doc.ExportedAt.Equal(svc.now()))
	client.AssertExpectations(t)
}

func TestService_ExportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownList", func(t *testing.T) {
		svc, client := setupService(t)
		_, err := svc.Export(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		client.AssertNotCalled(t, "BucketExists", mock.Anything, mock.Anything)
	})

	t.Run("UploadFails", func(t *testing.T) {
		svc, client := setupService(t)
		client.On("BucketExists", ctx, "exports").Return(true, nil)
		client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("disk full"))
		_, err := svc.Export(ctx, "home")
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestHandler_Routes(t *testing.T) {
	svc, client := setupService(t)
	client.On("BucketExists", mock.Anything, "exports").Return(true, nil)
	client.On("PutObject", mock.Anything, "exports", "exports/lists/home.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{Size: 10}, nil)
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "exports/lists/home.json"}
	close(ch)
	client.On("ListObjects", mock.Anything, "exports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("POST", "/lists/home/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/lists/nope/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/exports", nil))
	require.NoError(t, err)
	var keys []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&keys))
	assert.Equal(t, []string{"exports/lists/home.json"}, keys)
}

func TestFeature_DisabledWithoutClient(t *testing.T) {
	f := NewFeature(query.NewStore(nil, 0, nil), nil, storage.Config{}, zap.NewNop())
	assert.False(t, f.IsEnabled())
	assert.Equal(t, "export", f.Name())
}
