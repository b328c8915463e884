package mirror

import (
	"errors"
	"reflect"
	"testing"

	"forkful/datastore"
	"forkful/models"
)

func TestApplyReplacesWholesale(t *testing.T) {
	m := New[models.Recipe]()
	m.Apply(datastore.Event[models.Recipe]{Docs: []models.Recipe{
		{RecipeID: "a"}, {RecipeID: "b"},
	}})
	m.Apply(datastore.Event[models.Recipe]{Docs: []models.Recipe{
		{RecipeID: "c"},
	}})

	got := m.Snapshot()
	if len(got) != 1 || got[0].RecipeID != "c" {
		t.Fatalf("snapshot = %+v, want wholesale replacement", got)
	}
	if !m.Ready() {
		t.Fatal("mirror should be ready after a successful push")
	}
}

func TestErrorPushKeepsLastKnownData(t *testing.T) {
	m := New[models.Recipe]()
	m.Apply(datastore.Event[models.Recipe]{Docs: []models.Recipe{{RecipeID: "a"}}})
	m.Apply(datastore.Event[models.Recipe]{Err: errors.New("stream interrupted")})

	if got := m.Snapshot(); len(got) != 1 || got[0].RecipeID != "a" {
		t.Fatalf("error push dropped data: %+v", got)
	}
	if m.Err() == nil {
		t.Fatal("error state not surfaced")
	}

	// the next good push clears the error
	m.Apply(datastore.Event[models.Recipe]{Docs: []models.Recipe{{RecipeID: "b"}}})
	if m.Err() != nil {
		t.Fatalf("error not cleared: %v", m.Err())
	}
}

func TestWatchersRunOnEveryEvent(t *testing.T) {
	m := New[models.Recipe]()
	var calls int
	m.Watch(func() { calls++ })

	m.Apply(datastore.Event[models.Recipe]{Docs: nil})
	m.Apply(datastore.Event[models.Recipe]{Err: errors.New("boom")})
	if calls != 2 {
		t.Fatalf("watcher ran %d times, want 2", calls)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := New[models.Recipe]()
	m.Apply(datastore.Event[models.Recipe]{Docs: []models.Recipe{{RecipeID: "a", Title: "x"}}})

	snap := m.Snapshot()
	snap[0].Title = "mutated"
	if got := m.Snapshot(); !reflect.DeepEqual(got[0].Title, "x") {
		t.Fatal("snapshot aliases internal state")
	}
}

func TestAttachReleasesPreviousSubscription(t *testing.T) {
	m := New[models.Recipe]()

	closed1 := false
	ch1 := make(chan datastore.Event[models.Recipe])
	sub1 := datastore.NewSubscription(ch1, func() { closed1 = true; close(ch1) })
	m.Attach(sub1)

	ch2 := make(chan datastore.Event[models.Recipe], 1)
	sub2 := datastore.NewSubscription(ch2, func() { close(ch2) })
	m.Attach(sub2)

	if !closed1 {
		t.Fatal("previous subscription was not released on re-attach")
	}
	m.Close()
}
