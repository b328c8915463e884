// Package viewstate reconciles the recipe and board mirrors with
// user-entered filter, sort, and view selections, and mediates document
// mutations back through the data-access boundary. Local state is never
// updated optimistically: every mutation becomes visible only through
// the next pushed snapshot.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"forkful/datastore"
	"forkful/filemgr"
	"forkful/mirror"
	"forkful/models"
)

type ViewMode string

const (
	ModeRecipes ViewMode = "recipes"
	ModeBoards  ViewMode = "boards"
)

// QueryDebounce is the trailing-edge delay that coalesces a keystroke
// stream into one filter pass.
const QueryDebounce = 250 * time.Millisecond

var (
	ErrNotCurator     = errors.New("not allowed to modify the collection")
	ErrTitleRequired  = errors.New("title is required")
	ErrDuplicateBoard = errors.New("a board with that name already exists")
	ErrBoardNotFound  = errors.New("board not found")
	ErrRecipeNotFound = errors.New("recipe not found")
)

// RecipeInput is the user-entered field set for a new recipe. Absent
// optionals stay empty and are stripped before persisting.
type RecipeInput struct {
	Title        string
	Author       string
	Description  string
	Ingredients  []string
	Instructions []string
	PrepTime     string
	CookTime     string
	TotalTime    string
	Servings     string
	ImageURL     string
	SourceURL    string
}

// Controller owns one session's view state over the shared mirrors.
// View operations mutate only local state; document mutations go through
// the Documents/Blobs interfaces and rely on the next snapshot push.
type Controller struct {
	recipes *mirror.Mirror[models.Recipe]
	boards  *mirror.Mirror[models.Board]
	docs    datastore.Documents
	blobs   datastore.Blobs

	userID  string
	curator bool

	mu          sync.Mutex
	mode        ViewMode
	activeBoard string
	query       string
	sortKey     SortKey
	derived     []models.Recipe
	boardEdit   []string // working set while editing one recipe's memberships
	boardEditID string
	debounce    *time.Timer
}

func New(recipes *mirror.Mirror[models.Recipe], boards *mirror.Mirror[models.Board], docs datastore.Documents, blobs datastore.Blobs) *Controller {
	return &Controller{
		recipes: recipes,
		boards:  boards,
		docs:    docs,
		blobs:   blobs,
		mode:    ModeRecipes,
		sortKey: DefaultSort,
	}
}

// SetUser records the acting user's identity and curator standing for
// this session. Curator gating is UI convenience only; the real boundary
// lives in the store's access rules.
func (c *Controller) SetUser(userID string, curator bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.curator = curator
}

// recompute derives the displayed sequence from the latest snapshot:
// sort(filter(match(query), board-membership), sortKey). The derived
// sequence is never authoritative.
func (c *Controller) recompute() {
	docs := c.recipes.Snapshot()
	if c.activeBoard != "" {
		docs = OnBoard(docs, c.activeBoard)
	}
	docs = FilterRecipes(docs, c.query)
	SortRecipes(docs, c.sortKey)
	c.derived = docs
}

// SetQuery applies a search query immediately.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = text
	c.recompute()
}

// SetQueryDebounced coalesces rapid keystrokes: only the trailing input
// is applied, QueryDebounce after the last call. fire runs after the
// query lands so the transport can push a fresh render.
func (c *Controller) SetQueryDebounced(text string, fire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(QueryDebounce, func() {
		c.SetQuery(text)
		if fire != nil {
			fire()
		}
	})
}

func (c *Controller) SetSort(key SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortKey = key
	c.recompute()
}

// SwitchView toggles between the recipe list and the board gallery and
// clears any active board filter.
func (c *Controller) SwitchView(mode ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.activeBoard = ""
	c.recompute()
}

// OpenBoard scopes the recipe view to members of the named board. The
// current search and sort selections stay in effect.
func (c *Controller) OpenBoard(boardID string) error {
	board, ok := c.boardByID(boardID)
	if !ok {
		return ErrBoardNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeRecipes
	c.activeBoard = board.Name
	c.recompute()
	return nil
}

func (c *Controller) boardByID(boardID string) (models.Board, bool) {
	for _, b := range c.boards.Snapshot() {
		if b.BoardID == boardID {
			return b, true
		}
	}
	return models.Board{}, false
}

func (c *Controller) boardByName(name string) (models.Board, bool) {
	for _, b := range c.boards.Snapshot() {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return models.Board{}, false
}

func (c *Controller) recipeByID(recipeID string) (models.Recipe, bool) {
	for _, r := range c.recipes.Snapshot() {
		if r.RecipeID == recipeID {
			return r, true
		}
	}
	return models.Recipe{}, false
}

// CreateRecipe validates input, optionally stores the photo, and issues
// the create. The new recipe appears only via the next snapshot push;
// there is no optimistic local insert.
func (c *Controller) CreateRecipe(ctx context.Context, in RecipeInput, photo multipart.File, header *multipart.FileHeader) (string, error) {
	c.mu.Lock()
	curator, userID := c.curator, c.userID
	c.mu.Unlock()
	if !curator {
		return "", ErrNotCurator
	}
	if strings.TrimSpace(in.Title) == "" {
		return "", ErrTitleRequired
	}

	r := models.Recipe{
		UserID:       userID,
		Title:        strings.TrimSpace(in.Title),
		Author:       in.Author,
		Description:  in.Description,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		TotalTime:    in.TotalTime,
		Servings:     in.Servings,
		ImageURL:     in.ImageURL,
		SourceURL:    in.SourceURL,
		Source:       models.SourcePersonal,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if photo != nil && header != nil {
		localPath, thumb, err := c.blobs.SavePhoto(photo, header, in.Title)
		if err != nil {
			return "", err
		}
		r.LocalImagePath = localPath
		r.Thumbnail = thumb
	}

	return c.docs.InsertRecipe(ctx, r)
}

// DeleteRecipe issues the delete. On failure the item stays visible and
// the error is surfaced; on success the next snapshot removes it.
func (c *Controller) DeleteRecipe(ctx context.Context, recipeID string) error {
	c.mu.Lock()
	curator := c.curator
	c.mu.Unlock()
	if !curator {
		return ErrNotCurator
	}
	return c.docs.DeleteRecipe(ctx, recipeID)
}

// SetBoardsForRecipe writes the full replacement membership list, then
// best-effort assigns a cover image to each named board that lacks one,
// creating boards that do not exist yet. Cover assignment is not
// transactional with the membership write and is not retried.
func (c *Controller) SetBoardsForRecipe(ctx context.Context, recipeID string, names []string) error {
	c.mu.Lock()
	curator := c.curator
	c.mu.Unlock()
	if !curator {
		return ErrNotCurator
	}

	recipe, ok := c.recipeByID(recipeID)
	if !ok {
		return ErrRecipeNotFound
	}

	if err := c.docs.UpdateRecipeBoards(ctx, recipeID, names); err != nil {
		return err
	}

	cover := filemgr.ResolveImageURL(recipe.ImageURL, recipe.LocalImagePath)
	now := time.Now().UTC().Format(time.RFC3339)
	for _, name := range names {
		board, exists := c.boardByName(name)
		if !exists {
			b := models.Board{Name: name, CoverImage: cover, CreatedAt: now}
			if _, err := c.docs.InsertBoard(ctx, b); err != nil {
				log.Printf("viewstate: implicit board create %q failed: %v", name, err)
			}
			continue
		}
		if board.CoverImage == "" && cover != "" {
			if err := c.docs.UpdateBoardCover(ctx, board.BoardID, cover); err != nil {
				log.Printf("viewstate: cover assignment for %q failed: %v", name, err)
			}
		}
	}
	return nil
}

// RenameBoard rewrites the name on the board and on every recipe that
// references the old name. The duplicate check is advisory and happens
// before any write. The fan-out is sequential and not atomic: a failure
// partway leaves earlier recipes renamed with no compensation, and a
// retry re-applies membership rewrites idempotently.
func (c *Controller) RenameBoard(ctx context.Context, boardID, oldName, newName string) error {
	c.mu.Lock()
	curator := c.curator
	c.mu.Unlock()
	if !curator {
		return ErrNotCurator
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("board name is required")
	}
	if existing, ok := c.boardByName(newName); ok && existing.BoardID != boardID {
		return ErrDuplicateBoard
	}

	for _, r := range c.recipes.Snapshot() {
		if !containsName(r.Boards, oldName) {
			continue
		}
		next := make([]string, 0, len(r.Boards))
		for _, b := range r.Boards {
			if b == oldName {
				next = append(next, newName)
			} else {
				next = append(next, b)
			}
		}
		if err := c.docs.UpdateRecipeBoards(ctx, r.RecipeID, next); err != nil {
			return fmt.Errorf("rename fan-out stopped at recipe %s: %w", r.RecipeID, err)
		}
	}
	return c.docs.RenameBoard(ctx, boardID, newName)
}

// DeleteBoard strips the name from every referencing recipe, one update
// per recipe, then deletes the board document. Same non-atomic fan-out
// caveats as RenameBoard.
func (c *Controller) DeleteBoard(ctx context.Context, boardID, name string) error {
	c.mu.Lock()
	curator := c.curator
	c.mu.Unlock()
	if !curator {
		return ErrNotCurator
	}

	for _, r := range c.recipes.Snapshot() {
		if !containsName(r.Boards, name) {
			continue
		}
		next := make([]string, 0, len(r.Boards))
		for _, b := range r.Boards {
			if b != name {
				next = append(next, b)
			}
		}
		if err := c.docs.UpdateRecipeBoards(ctx, r.RecipeID, next); err != nil {
			return fmt.Errorf("delete fan-out stopped at recipe %s: %w", r.RecipeID, err)
		}
	}
	return c.docs.DeleteBoard(ctx, boardID)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// StartBoardEdit seeds the board-selection working set from the recipe's
// current memberships. The set is local and discarded on cancel.
func (c *Controller) StartBoardEdit(recipeID string) ([]string, error) {
	recipe, ok := c.recipeByID(recipeID)
	if !ok {
		return nil, ErrRecipeNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boardEditID = recipeID
	c.boardEdit = append([]string(nil), recipe.Boards...)
	return append([]string(nil), c.boardEdit...), nil
}

func (c *Controller) SetBoardEdit(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boardEdit = append([]string(nil), names...)
}

func (c *Controller) CancelBoardEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boardEdit = nil
	c.boardEditID = ""
}

// CommitBoardEdit persists the working set through SetBoardsForRecipe
// and clears it. The working set survives a failed commit so the user
// can re-invoke.
func (c *Controller) CommitBoardEdit(ctx context.Context) error {
	c.mu.Lock()
	recipeID := c.boardEditID
	names := append([]string(nil), c.boardEdit...)
	c.mu.Unlock()
	if recipeID == "" {
		return ErrRecipeNotFound
	}
	if err := c.SetBoardsForRecipe(ctx, recipeID, names); err != nil {
		return err
	}
	c.CancelBoardEdit()
	return nil
}
