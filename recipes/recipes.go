package recipes

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"forkful/auth"
	"forkful/datastore"
	"forkful/filemgr"
	"forkful/globals"
	"forkful/mirror"
	"forkful/models"
	"forkful/utils"
	"forkful/viewstate"

	"github.com/julienschmidt/httprouter"
)

// Handler wires the HTTP mutation surface to the view-state controller.
// Each request gets its own controller over the shared mirrors so
// concurrent requests never share identity state.
type Handler struct {
	Recipes *mirror.Mirror[models.Recipe]
	Boards  *mirror.Mirror[models.Board]
	Docs    datastore.Documents
	Blobs   datastore.Blobs
}

func (h *Handler) ctrl(r *http.Request) *viewstate.Controller {
	c := viewstate.New(h.Recipes, h.Boards, h.Docs, h.Blobs)
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	email, _ := r.Context().Value(globals.EmailKey).(string)
	c.SetUser(userID, auth.IsCurator(email))
	return c
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, viewstate.ErrNotCurator):
		return http.StatusForbidden
	case errors.Is(err, viewstate.ErrTitleRequired),
		errors.Is(err, viewstate.ErrDuplicateBoard),
		errors.Is(err, filemgr.ErrNotAnImage),
		errors.Is(err, filemgr.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, viewstate.ErrRecipeNotFound),
		errors.Is(err, viewstate.ErrBoardNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetRecipes serves the full current mirror, already filtered and
// sorted per query params, for clients that fetch before the socket is
// up.
func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := h.ctrl(r)
	if q := r.URL.Query().Get("search"); q != "" {
		c.SetQuery(q)
	}
	if s := r.URL.Query().Get("sort"); s != "" {
		c.SetSort(viewstate.SortKey(s))
	}
	if b := r.URL.Query().Get("board"); b != "" {
		for _, board := range h.Boards.Snapshot() {
			if strings.EqualFold(board.Name, b) {
				c.OpenBoard(board.BoardID)
				break
			}
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, c.Render())
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	for _, rec := range h.Recipes.Snapshot() {
		if rec.RecipeID == id {
			utils.RespondWithJSON(w, http.StatusOK, viewstate.RecipeCard{
				Recipe: rec,
				Image:  filemgr.ResolveImageURL(rec.ImageURL, rec.LocalImagePath),
			})
			return
		}
	}
	utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(filemgr.MaxPhotoBytes + (1 << 20)); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	in := viewstate.RecipeInput{
		Title:        r.FormValue("title"),
		Author:       r.FormValue("author"),
		Description:  r.FormValue("description"),
		Ingredients:  splitLines(r.FormValue("ingredients")),
		Instructions: splitLines(r.FormValue("instructions")),
		PrepTime:     r.FormValue("prepTime"),
		CookTime:     r.FormValue("cookTime"),
		TotalTime:    r.FormValue("totalTime"),
		Servings:     r.FormValue("servings"),
		ImageURL:     r.FormValue("imageUrl"),
		SourceURL:    r.FormValue("sourceUrl"),
	}

	var photo multipart.File
	var header *multipart.FileHeader
	if files := r.MultipartForm.File["photo"]; len(files) > 0 {
		header = files[0]
		f, err := header.Open()
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error reading file")
			return
		}
		defer f.Close()
		photo = f
	}

	id, err := h.ctrl(r).CreateRecipe(r.Context(), in, photo, header)
	if err != nil {
		utils.RespondWithError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"recipeid": id})
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.ctrl(r).DeleteRecipe(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

// SetBoards writes the full replacement membership list for one recipe.
func (h *Handler) SetBoards(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Boards []string `json:"boards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := h.ctrl(r).SetBoardsForRecipe(r.Context(), ps.ByName("id"), body.Boards); err != nil {
		utils.RespondWithError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
