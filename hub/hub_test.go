package hub

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"testing"

	"forkful/datastore"
	"forkful/mirror"
	"forkful/models"
	"forkful/viewstate"
)

type nopDocs struct{}

func (nopDocs) ListRecipes(context.Context) ([]models.Recipe, error)        { return nil, nil }
func (nopDocs) ListBoards(context.Context) ([]models.Board, error)          { return nil, nil }
func (nopDocs) InsertRecipe(context.Context, models.Recipe) (string, error) { return "", nil }
func (nopDocs) UpdateRecipeBoards(context.Context, string, []string) error  { return nil }
func (nopDocs) DeleteRecipe(context.Context, string) error                  { return nil }
func (nopDocs) InsertBoard(context.Context, models.Board) (string, error)   { return "", nil }
func (nopDocs) UpdateBoardCover(context.Context, string, string) error      { return nil }
func (nopDocs) RenameBoard(context.Context, string, string) error           { return nil }
func (nopDocs) DeleteBoard(context.Context, string) error                   { return nil }

type nopBlobs struct{}

func (nopBlobs) SavePhoto(multipart.File, *multipart.FileHeader, string) (string, string, error) {
	return "", "", nil
}

func TestSnapshotPushRefreshesSessions(t *testing.T) {
	rm := mirror.New[models.Recipe]()
	bm := mirror.New[models.Board]()
	h := NewHub(rm, bm, nopDocs{}, nopBlobs{})
	h.Start()

	s := &Session{
		hub:  h,
		send: make(chan []byte, 8),
		ctrl: viewstate.New(rm, bm, nopDocs{}, nopBlobs{}),
	}
	h.add(s)

	rm.Apply(datastore.Event[models.Recipe]{Docs: []models.Recipe{
		{RecipeID: "1", Title: "Tart", CreatedAt: "2024-01-01T00:00:00Z"},
	}})

	select {
	case data := <-s.send:
		var m viewstate.RenderModel
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("bad render payload: %v", err)
		}
		if len(m.Recipes) != 1 || m.Recipes[0].Title != "Tart" {
			t.Fatalf("render = %+v", m)
		}
	default:
		t.Fatal("no render pushed after snapshot")
	}
}

func TestFullSendQueueDoesNotBlockRefresh(t *testing.T) {
	rm := mirror.New[models.Recipe]()
	bm := mirror.New[models.Board]()
	h := NewHub(rm, bm, nopDocs{}, nopBlobs{})
	h.Start()

	s := &Session{
		hub:  h,
		send: make(chan []byte), // unbuffered with no reader: always full
		ctrl: viewstate.New(rm, bm, nopDocs{}, nopBlobs{}),
	}
	h.add(s)

	// Apply runs watchers synchronously; a blocking push would hang here
	rm.Apply(datastore.Event[models.Recipe]{Docs: nil})
}

func TestPushAfterRemoveIsNoOp(t *testing.T) {
	rm := mirror.New[models.Recipe]()
	bm := mirror.New[models.Board]()
	h := NewHub(rm, bm, nopDocs{}, nopBlobs{})

	s := &Session{
		hub:  h,
		send: make(chan []byte, 1),
		ctrl: viewstate.New(rm, bm, nopDocs{}, nopBlobs{}),
	}
	h.add(s)
	h.remove(s) // closes send

	// a push racing a disconnect must not reach the closed channel
	s.pushRender()

	if _, ok := <-s.send; ok {
		t.Fatal("push reached a removed session")
	}
}
