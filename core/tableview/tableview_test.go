package tableview

import (
	"testing"

	"reminders/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newView(visible int, content map[reconcile.RowIdentity]string) *TableView {
	return New(Config{VisibleRows: visible}, func(id reconcile.RowIdentity) string {
		if s, ok := content[id]; ok {
			return s
		}
		return string(id)
	}, zap.NewNop())
}

func load(v *TableView, rows ...reconcile.RowIdentity) {
	v.ReplaceAll(reconcile.Snapshot{Sections: []reconcile.Section{{Key: "", Rows: rows}}})
}

func TestTableView_CoalescesUpdatesIntoOneTransition(t *testing.T) {
	v := newView(0, nil)
	load(v, "A", "B", "C")

	v.BeginUpdates()
	v.DeleteRow(0, 1)
	v.InsertRow(0, 0, "D")
	v.MoveRow(0, 2, 0, 0)
	assert.True(t, v.Updating())
	v.EndUpdates()

	tr := v.Transitions()
	require.Len(t, tr, 2) // replace + the batch
	assert.Len(t, tr[1].Changes, 3)
	assert.Equal(t, AnimationFadeOut, tr[1].Changes[0].Animation)
	assert.Equal(t, AnimationFadeIn, tr[1].Changes[1].Animation)
	assert.Equal(t, AnimationMove, tr[1].Changes[2].Animation)

	assert.Equal(t, []reconcile.Section{{Key: "", Rows: []reconcile.RowIdentity{"C", "D", "A"}}}, v.Identities())
}

func TestTableView_NestedUpdates(t *testing.T) {
	v := newView(0, nil)
	load(v, "A")

	v.BeginUpdates()
	v.BeginUpdates()
	v.InsertRow(0, 1, "B")
	v.EndUpdates()
	assert.Len(t, v.Transitions(), 1)
	v.EndUpdates()
	assert.Len(t, v.Transitions(), 2)
}

func TestTableView_EmptyBlockRecordsNothing(t *testing.T) {
	v := newView(0, nil)
	v.BeginUpdates()
	v.EndUpdates()
	assert.Empty(t, v.Transitions())
}

func TestTableView_MovePreservesDraft(t *testing.T) {
	v := newView(0, nil)
	load(v, "A", "B", "C")
	require.True(t, v.SetDraft("C", "half typed"))

	v.MoveRow(0, 2, 0, 0)

	rows := v.Rows()[0].Rows
	assert.Equal(t, reconcile.RowIdentity("C"), rows[0].ID)
	assert.Equal(t, "half typed", rows[0].Draft)
}

func TestTableView_RefreshOffscreenIsDeferred(t *testing.T) {
	content := map[reconcile.RowIdentity]string{"A": "a1", "B": "b1", "C": "c1"}
	v := newView(1, content)
	load(v, "A", "B", "C")

	content["A"], content["C"] = "a2", "c2"
	v.RefreshRowContent(0, 0)
	v.RefreshRowContent(0, 2)

	tr := v.Transitions()
	last := tr[len(tr)-1]
	assert.Equal(t, AnimationDeferred, last.Changes[0].Animation)
	assert.Equal(t, AnimationReload, tr[len(tr)-2].Changes[0].Animation)

	// Reading renders the stale row.
	rows := v.Rows()[0].Rows
	assert.Equal(t, "a2", rows[0].Text)
	assert.Equal(t, "c2", rows[2].Text)
}

func TestTableView_Sections(t *testing.T) {
	v := newView(0, nil)
	v.ReplaceAll(reconcile.Snapshot{Sections: []reconcile.Section{{Key: "open", Rows: []reconcile.RowIdentity{"A", "B"}}}})

	v.BeginUpdates()
	v.InsertSection(1, "done")
	v.MoveRow(0, 1, 1, 0)
	v.EndUpdates()

	assert.Equal(t, []reconcile.Section{
		{Key: "open", Rows: []reconcile.RowIdentity{"A"}},
		{Key: "done", Rows: []reconcile.RowIdentity{"B"}},
	}, v.Identities())
	assert.Equal(t, 2, v.Len())

	v.DeleteSection(0)
	assert.Equal(t, []reconcile.Section{{Key: "done", Rows: []reconcile.RowIdentity{"B"}}}, v.Identities())
}

func TestTableView_OutOfRangeIsIgnored(t *testing.T) {
	v := newView(0, nil)
	load(v, "A")

	v.DeleteRow(0, 5)
	v.InsertRow(3, 0, "X")
	v.MoveRow(0, 0, 0, 9)
	v.DeleteSection(4)

	assert.Equal(t, []reconcile.Section{{Key: "", Rows: []reconcile.RowIdentity{"A"}}}, v.Identities())
}

func TestTableView_TransitionHistoryIsBounded(t *testing.T) {
	v := New(Config{MaxTransitions: 3}, nil, nil)
	load(v)
	for i := 0; i < 10; i++ {
		v.InsertRow(0, 0, reconcile.RowIdentity(rune('a'+i)))
	}
	tr := v.Transitions()
	require.Len(t, tr, 3)
	assert.Equal(t, 11, tr[2].Seq)
}

func TestTableView_DrivenByReconciler(t *testing.T) {
	v := newView(0, nil)
	r, err := reconcile.New(reconcile.Config{Mode: reconcile.ModeSnapshot, View: v})
	require.NoError(t, err)

	require.NoError(t, r.Load(reconcile.Single("A", "B", "C")))
	require.NoError(t, r.OnSnapshot(reconcile.Single("C", "A", "B")))

	assert.Equal(t, r.Sections(), v.Identities())
	tr := v.Transitions()
	require.Len(t, tr, 2)
	require.Len(t, tr[1].Changes, 1)
	assert.Equal(t, reconcile.Move, tr[1].Changes[0].Kind)
}
