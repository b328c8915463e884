package boards

import (
	"encoding/json"
	"errors"
	"net/http"

	"forkful/auth"
	"forkful/datastore"
	"forkful/globals"
	"forkful/mirror"
	"forkful/models"
	"forkful/utils"
	"forkful/viewstate"

	"github.com/julienschmidt/httprouter"
)

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
	case errors.Is(err, viewstate.ErrDuplicateBoard):
		return http.StatusBadRequest
	case errors.Is(err, viewstate.ErrBoardNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := h.ctrl(r)
	c.SwitchView(viewstate.ModeBoards)
	utils.RespondWithJSON(w, http.StatusOK, c.Render())
}

// RenameBoard rewrites the board name and fans the change out over
// every referencing recipe. A mid-fan-out failure is reported once;
// already-applied rewrites stay applied.
func (h *Handler) RenameBoard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := h.ctrl(r).RenameBoard(r.Context(), ps.ByName("id"), body.OldName, body.NewName); err != nil {
		utils.RespondWithError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "renamed"})
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := h.ctrl(r).DeleteBoard(r.Context(), ps.ByName("id"), body.Name); err != nil {
		utils.RespondWithError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}
