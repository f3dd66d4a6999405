package reminders

import (
	"context"
	"testing"

	"reminders/core/database"
	"reminders/core/dispatch"
	"reminders/core/query"
	"reminders/core/reconcile"
	"reminders/core/tableview"
	listModels "reminders/feature/lists/models"
	"reminders/feature/reminders/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   *Service
	store *query.Store
	db    *gorm.DB
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&listModels.List{}, &models.Reminder{}))

	queue := dispatch.New(8)
	queue.Start()
	t.Cleanup(queue.Stop)

	settings := reconcile.Settings{MaxDiffOps: 200, CacheTTLSeconds: 30, VisibleRows: 50, ListFetchLimit: 20}
	store := query.NewStore(db, settings.CacheTTL(), zap.NewNop())
	svc := NewService(store, queue, settings, nil, zap.NewNop())
	t.Cleanup(svc.Close)
	return &fixture{svc: svc, store: store, db: db}
}

func (f *fixture) list(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.db.Create(&listModels.List{ID: id, Title: id}).Error)
}

func sectionTexts(t *testing.T, svc *Service, listID string) map[string][]string {
	t.Helper()
	page, err := svc.View(context.Background(), listID)
	require.NoError(t, err)
	out := make(map[string][]string)
	for _, s := range page.Sections {
		for _, r := range s.Rows {
			out[s.Key] = append(out[s.Key], r.Text)
		}
	}
	return out
}

func TestService_CreateSortsOpenReminders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "home")

	for _, title := range []string{"milk", "bread", "eggs"} {
		_, err := f.svc.Create(ctx, "home", title)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string][]string{
		models.SectionOpen: {"[ ] bread", "[ ] eggs", "[ ] milk"},
	}, sectionTexts(t, f.svc, "home"))
}

func TestService_CompletingMovesAcrossSections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "home")

	bread, err := f.svc.Create(ctx, "home", "bread")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "home", "milk")
	require.NoError(t, err)
	sectionTexts(t, f.svc, "home")

	done := true
	updated, err := f.svc.Update(ctx, bread.ID, Patch{Done: &done})
	require.NoError(t, err)
	assert.True(t, updated.Done)

	assert.Equal(t, map[string][]string{
		models.SectionOpen: {"[ ] milk"},
		models.SectionDone: {"[x] bread"},
	}, sectionTexts(t, f.svc, "home"))

	tr, err := f.svc.Transitions(ctx, "home")
	require.NoError(t, err)
	last := tr[len(tr)-1]
	var moved bool
	for _, c := range last.Changes {
		if c.Kind == reconcile.Move && c.ID == reconcile.RowIdentity(bread.ID) {
			moved = true
		}
		assert.NotEqual(t, reconcile.Delete, c.Kind, "completion must not delete the row")
	}
	assert.True(t, moved)

	// Reopening removes the done section again.
	open := false
	_, err = f.svc.Update(ctx, bread.ID, Patch{Done: &open})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		models.SectionOpen: {"[ ] bread", "[ ] milk"},
	}, sectionTexts(t, f.svc, "home"))
}

func TestService_ScreensAreIndependent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "a")
	f.list(t, "b")

	_, err := f.svc.Create(ctx, "a", "one")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "b", "two")
	require.NoError(t, err)

	assert.Equal(t, []string{"[ ] one"}, sectionTexts(t, f.svc, "a")[models.SectionOpen])
	assert.Equal(t, []string{"[ ] two"}, sectionTexts(t, f.svc, "b")[models.SectionOpen])
	assert.Equal(t, 2, f.svc.OpenScreens())
}

func TestService_RenameUpdatesCell(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "home")

	r, err := f.svc.Create(ctx, "home", "bread")
	require.NoError(t, err)
	sectionTexts(t, f.svc, "home")

	title := "rye bread"
	_, err = f.svc.Update(ctx, r.ID, Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, []string{"[ ] rye bread"}, sectionTexts(t, f.svc, "home")[models.SectionOpen])

	tr, err := f.svc.Transitions(ctx, "home")
	require.NoError(t, err)
	last := tr[len(tr)-1]
	require.Len(t, last.Changes, 1)
	assert.Equal(t, reconcile.Update, last.Changes[0].Kind)
	assert.Equal(t, tableview.AnimationReload, last.Changes[0].Animation)
}

func TestService_DeletedListClosesScreen(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "home")

	_, err := f.svc.Create(ctx, "home", "bread")
	require.NoError(t, err)
	sectionTexts(t, f.svc, "home")
	require.Equal(t, 1, f.svc.OpenScreens())

	require.NoError(t, f.db.Where("list_id = ?", "home").Delete(&models.Reminder{}).Error)
	require.NoError(t, f.db.Where("id = ?", "home").Delete(&listModels.List{}).Error)
	require.NoError(t, f.store.Notify(ctx, listModels.Entity, models.Entity))

	assert.Equal(t, 0, f.svc.OpenScreens())
	_, err = f.svc.View(ctx, "home")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestService_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "home")

	_, err := f.svc.Create(ctx, "home", "  ")
	assert.ErrorIs(t, err, ErrInvalidTitle)
	_, err = f.svc.Create(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrListNotFound)

	done := true
	_, err = f.svc.Update(ctx, "missing", Patch{Done: &done})
	assert.ErrorIs(t, err, ErrNotFound)
	empty := ""
	_, err = f.svc.Update(ctx, "missing", Patch{Title: &empty})
	assert.ErrorIs(t, err, ErrInvalidTitle)

	assert.ErrorIs(t, f.svc.Delete(ctx, "missing"), ErrNotFound)
}

func TestService_DeleteRemovesRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.list(t, "home")

	r, err := f.svc.Create(ctx, "home", "bread")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "home", "milk")
	require.NoError(t, err)
	sectionTexts(t, f.svc, "home")

	require.NoError(t, f.svc.Delete(ctx, r.ID))
	assert.Equal(t, []string{"[ ] milk"}, sectionTexts(t, f.svc, "home")[models.SectionOpen])
}
