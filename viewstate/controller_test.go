package viewstate

import (
	"context"
	"errors"
	"mime/multipart"
	"reflect"
	"testing"
	"time"

	"forkful/datastore"
	"forkful/mirror"
	"forkful/models"
)

type boardWrite struct {
	RecipeID string
	Boards   []string
}

type coverWrite struct {
	BoardID string
	URL     string
}

// fakeDocs records every mutation so tests can assert exact fan-out
// shapes without a backing store.
type fakeDocs struct {
	inserts       []models.Recipe
	boardInserts  []models.Board
	boardWrites   []boardWrite
	coverWrites   []coverWrite
	renames       map[string]string
	deletedBoards []string
	deletedIDs    []string

	failBoardWriteAt int // fail the nth membership rewrite; 0 disables
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{renames: make(map[string]string)}
}

func (f *fakeDocs) calls() int {
	return len(f.inserts) + len(f.boardInserts) + len(f.boardWrites) +
		len(f.coverWrites) + len(f.renames) + len(f.deletedBoards) + len(f.deletedIDs)
}

func (f *fakeDocs) ListRecipes(context.Context) ([]models.Recipe, error) { return nil, nil }
func (f *fakeDocs) ListBoards(context.Context) ([]models.Board, error)  { return nil, nil }

func (f *fakeDocs) InsertRecipe(_ context.Context, r models.Recipe) (string, error) {
	f.inserts = append(f.inserts, r)
	return "new-id", nil
}

func (f *fakeDocs) UpdateRecipeBoards(_ context.Context, recipeID string, boards []string) error {
	if f.failBoardWriteAt > 0 && len(f.boardWrites)+1 == f.failBoardWriteAt {
		return errors.New("store rejected the write")
	}
	cp := make([]string, len(boards))
	copy(cp, boards)
	f.boardWrites = append(f.boardWrites, boardWrite{recipeID, cp})
	return nil
}

func (f *fakeDocs) DeleteRecipe(_ context.Context, recipeID string) error {
	f.deletedIDs = append(f.deletedIDs, recipeID)
	return nil
}

func (f *fakeDocs) InsertBoard(_ context.Context, b models.Board) (string, error) {
	f.boardInserts = append(f.boardInserts, b)
	return "new-board-id", nil
}

func (f *fakeDocs) UpdateBoardCover(_ context.Context, boardID, coverURL string) error {
	f.coverWrites = append(f.coverWrites, coverWrite{boardID, coverURL})
	return nil
}

func (f *fakeDocs) RenameBoard(_ context.Context, boardID, newName string) error {
	f.renames[boardID] = newName
	return nil
}

func (f *fakeDocs) DeleteBoard(_ context.Context, boardID string) error {
	f.deletedBoards = append(f.deletedBoards, boardID)
	return nil
}

type fakeBlobs struct {
	saved int
}

func (f *fakeBlobs) SavePhoto(multipart.File, *multipart.FileHeader, string) (string, string, error) {
	f.saved++
	return "uploads/fake.jpg", "uploads/thumbs/fake.jpg", nil
}

func newTestController(recipes []models.Recipe, boards []models.Board, docs *fakeDocs) (*Controller, *mirror.Mirror[models.Recipe]) {
	rm := mirror.New[models.Recipe]()
	rm.Apply(datastore.Event[models.Recipe]{Docs: recipes})
	bm := mirror.New[models.Board]()
	bm.Apply(datastore.Event[models.Board]{Docs: boards})
	c := New(rm, bm, docs, &fakeBlobs{})
	c.SetUser("u1", true)
	return c, rm
}

func TestCreateRecipeDoesNotTouchLocalState(t *testing.T) {
	docs := newFakeDocs()
	c, rm := newTestController(nil, nil, docs)

	id, err := c.CreateRecipe(context.Background(), RecipeInput{Title: "  Pancakes  "}, nil, nil)
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if id != "new-id" {
		t.Fatalf("id = %q", id)
	}
	if len(docs.inserts) != 1 {
		t.Fatalf("expected one insert, got %d", len(docs.inserts))
	}
	got := docs.inserts[0]
	if got.Title != "Pancakes" || got.Source != models.SourcePersonal || got.UserID != "u1" {
		t.Fatalf("unexpected document: %+v", got)
	}
	if _, err := time.Parse(time.RFC3339, got.CreatedAt); err != nil {
		t.Fatalf("createdAt not ISO-8601: %q", got.CreatedAt)
	}
	// no optimistic insert: the mirror stays empty until the next push
	if n := len(rm.Snapshot()); n != 0 {
		t.Fatalf("mirror gained %d recipes without a snapshot push", n)
	}
}

func TestCreateRecipeRequiresTitleAndCurator(t *testing.T) {
	docs := newFakeDocs()
	c, _ := newTestController(nil, nil, docs)

	if _, err := c.CreateRecipe(context.Background(), RecipeInput{}, nil, nil); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("want ErrTitleRequired, got %v", err)
	}
	c.SetUser("u1", false)
	if _, err := c.CreateRecipe(context.Background(), RecipeInput{Title: "x"}, nil, nil); !errors.Is(err, ErrNotCurator) {
		t.Fatalf("want ErrNotCurator, got %v", err)
	}
	if docs.calls() != 0 {
		t.Fatalf("rejected creates must not reach the store, saw %d calls", docs.calls())
	}
}

func TestSetBoardsAssignsCoverOnlyWhenMissing(t *testing.T) {
	recipes := []models.Recipe{{RecipeID: "r1", Title: "Tart", ImageURL: "http://img/tart.jpg"}}
	boards := []models.Board{
		{BoardID: "b1", Name: "Desserts"},
		{BoardID: "b2", Name: "Favorites", CoverImage: "http://img/old.jpg"},
	}
	docs := newFakeDocs()
	c, _ := newTestController(recipes, boards, docs)

	if err := c.SetBoardsForRecipe(context.Background(), "r1", []string{"Desserts"}); err != nil {
		t.Fatalf("SetBoardsForRecipe: %v", err)
	}
	if len(docs.coverWrites) != 1 {
		t.Fatalf("expected exactly one cover update, got %d", len(docs.coverWrites))
	}
	if got := docs.coverWrites[0]; got.BoardID != "b1" || got.URL != "http://img/tart.jpg" {
		t.Fatalf("cover write = %+v", got)
	}

	// a board that already has a cover is left untouched
	docs.coverWrites = nil
	if err := c.SetBoardsForRecipe(context.Background(), "r1", []string{"Favorites"}); err != nil {
		t.Fatalf("SetBoardsForRecipe: %v", err)
	}
	if len(docs.coverWrites) != 0 {
		t.Fatalf("expected no cover update, got %d", len(docs.coverWrites))
	}
}

func TestSetBoardsCreatesUnknownBoard(t *testing.T) {
	recipes := []models.Recipe{{RecipeID: "r1", Title: "Tart", LocalImagePath: "uploads/tart.jpg"}}
	docs := newFakeDocs()
	c, _ := newTestController(recipes, nil, docs)

	if err := c.SetBoardsForRecipe(context.Background(), "r1", []string{"Brand New"}); err != nil {
		t.Fatalf("SetBoardsForRecipe: %v", err)
	}
	if len(docs.boardInserts) != 1 {
		t.Fatalf("expected one implicit board create, got %d", len(docs.boardInserts))
	}
	created := docs.boardInserts[0]
	if created.Name != "Brand New" || created.CoverImage != "/static/uploads/tart.jpg" {
		t.Fatalf("implicit board = %+v", created)
	}
}

func TestDeleteBoardFansOutPerReferencingRecipe(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Boards: []string{"Weeknight", "Desserts"}},
		{RecipeID: "r2", Boards: []string{"Desserts"}},
		{RecipeID: "r3", Boards: []string{"Weeknight"}},
		{RecipeID: "r4", Boards: []string{"Soups", "Weeknight", "Soups"}},
	}
	boards := []models.Board{{BoardID: "b1", Name: "Weeknight"}}
	docs := newFakeDocs()
	c, _ := newTestController(recipes, boards, docs)

	if err := c.DeleteBoard(context.Background(), "b1", "Weeknight"); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if len(docs.boardWrites) != 3 {
		t.Fatalf("expected 3 membership rewrites, got %d", len(docs.boardWrites))
	}
	want := map[string][]string{
		"r1": {"Desserts"},
		"r3": {},
		"r4": {"Soups", "Soups"}, // other entries and order preserved
	}
	for _, w := range docs.boardWrites {
		if !reflect.DeepEqual(w.Boards, want[w.RecipeID]) {
			t.Errorf("rewrite for %s = %v, want %v", w.RecipeID, w.Boards, want[w.RecipeID])
		}
	}
	if !reflect.DeepEqual(docs.deletedBoards, []string{"b1"}) {
		t.Fatalf("board deletes = %v", docs.deletedBoards)
	}
}

func TestRenameBoardRewritesEveryReference(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Boards: []string{"Weeknight", "Weeknight", "Soups"}},
		{RecipeID: "r2", Boards: []string{"Soups"}},
	}
	boards := []models.Board{{BoardID: "b1", Name: "Weeknight"}}
	docs := newFakeDocs()
	c, _ := newTestController(recipes, boards, docs)

	if err := c.RenameBoard(context.Background(), "b1", "Weeknight", "Quick Meals"); err != nil {
		t.Fatalf("RenameBoard: %v", err)
	}
	if len(docs.boardWrites) != 1 {
		t.Fatalf("expected 1 membership rewrite, got %d", len(docs.boardWrites))
	}
	if got := docs.boardWrites[0].Boards; !reflect.DeepEqual(got, []string{"Quick Meals", "Quick Meals", "Soups"}) {
		t.Fatalf("rewrite = %v", got)
	}
	if docs.renames["b1"] != "Quick Meals" {
		t.Fatalf("board rename = %v", docs.renames)
	}
}

func TestRenameBoardRejectsDuplicateBeforeAnyWrite(t *testing.T) {
	boards := []models.Board{
		{BoardID: "b1", Name: "Weeknight"},
		{BoardID: "b2", Name: "Quick Meals"},
	}
	docs := newFakeDocs()
	c, _ := newTestController(nil, boards, docs)

	err := c.RenameBoard(context.Background(), "b1", "Weeknight", "quick meals")
	if !errors.Is(err, ErrDuplicateBoard) {
		t.Fatalf("want ErrDuplicateBoard, got %v", err)
	}
	if docs.calls() != 0 {
		t.Fatalf("duplicate rename must be rejected before any store call, saw %d", docs.calls())
	}
}

func TestRenameBoardMidFanOutFailureLeavesEarlierWrites(t *testing.T) {
	recipes := []models.Recipe{
		{RecipeID: "r1", Boards: []string{"Weeknight"}},
		{RecipeID: "r2", Boards: []string{"Weeknight"}},
	}
	boards := []models.Board{{BoardID: "b1", Name: "Weeknight"}}
	docs := newFakeDocs()
	docs.failBoardWriteAt = 2
	c, _ := newTestController(recipes, boards, docs)

	err := c.RenameBoard(context.Background(), "b1", "Weeknight", "Quick Meals")
	if err == nil {
		t.Fatal("expected fan-out failure")
	}
	// the first rewrite stays applied, the board itself is untouched
	if len(docs.boardWrites) != 1 {
		t.Fatalf("expected 1 applied rewrite, got %d", len(docs.boardWrites))
	}
	if len(docs.renames) != 0 {
		t.Fatalf("board rename must not happen after a failed fan-out")
	}
}

func TestBoardEditWorkingSet(t *testing.T) {
	recipes := []models.Recipe{{RecipeID: "r1", Boards: []string{"Soups"}}}
	docs := newFakeDocs()
	c, _ := newTestController(recipes, nil, docs)

	picks, err := c.StartBoardEdit("r1")
	if err != nil {
		t.Fatalf("StartBoardEdit: %v", err)
	}
	if !reflect.DeepEqual(picks, []string{"Soups"}) {
		t.Fatalf("seed picks = %v", picks)
	}

	c.SetBoardEdit([]string{"Soups", "Desserts"})
	c.CancelBoardEdit()
	if err := c.CommitBoardEdit(context.Background()); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("commit after cancel should fail, got %v", err)
	}
	if len(docs.boardWrites) != 0 {
		t.Fatalf("cancelled edit must not write, saw %d", len(docs.boardWrites))
	}

	c.StartBoardEdit("r1")
	c.SetBoardEdit([]string{"Desserts"})
	if err := c.CommitBoardEdit(context.Background()); err != nil {
		t.Fatalf("CommitBoardEdit: %v", err)
	}
	if len(docs.boardWrites) != 1 || !reflect.DeepEqual(docs.boardWrites[0].Boards, []string{"Desserts"}) {
		t.Fatalf("committed writes = %+v", docs.boardWrites)
	}
}

func TestSetQueryDebouncedTrailingEdge(t *testing.T) {
	docs := newFakeDocs()
	c, _ := newTestController(sampleRecipes(), nil, docs)

	fired := make(chan struct{}, 4)
	c.SetQueryDebounced("l", nil)
	c.SetQueryDebounced("le", nil)
	c.SetQueryDebounced("lemon", func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(QueryDebounce + 500*time.Millisecond):
		t.Fatal("debounced query never fired")
	}
	m := c.Render()
	if m.Query != "lemon" {
		t.Fatalf("query = %q, want the trailing input", m.Query)
	}
	if len(m.Recipes) != 1 || m.Recipes[0].RecipeID != "1" {
		t.Fatalf("derived sequence = %v", m.Recipes)
	}
	// earlier keystrokes were cancelled, so nothing else fires
	select {
	case <-fired:
		t.Fatal("cancelled keystroke fired anyway")
	case <-time.After(QueryDebounce * 2):
	}
}
