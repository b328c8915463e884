package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"forkful/auth"
	"forkful/middleware"
	"forkful/viewstate"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Session is one connected browser tab: a socket plus its own view-state
// controller.
type Session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ctrl *viewstate.Controller
}

// viewCommand is a client-issued view operation. Mutations go over HTTP;
// the socket carries only filter/sort/view-selection state.
type viewCommand struct {
	Action string `json:"action"` // query | sort | view | openBoard
	Value  string `json:"value"`
}

// ServeWS upgrades the connection and runs the session until the client
// goes away. Identity comes from the bearer token when present; an
// anonymous session still gets the read-only live view.
func ServeWS(h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}

		ctrl := viewstate.New(h.recipes, h.boards, h.docs, h.blobs)
		token := r.Header.Get("Authorization")
		if token == "" {
			if t := r.URL.Query().Get("token"); t != "" {
				token = "Bearer " + t
			}
		}
		if claims, err := middleware.ValidateJWT(token); err == nil {
			ctrl.SetUser(claims.UserID, auth.IsCurator(claims.Email))
		}

		s := &Session{hub: h, conn: conn, send: make(chan []byte, 8), ctrl: ctrl}
		h.add(s)

		go s.writePump()
		s.pushRender()
		s.readPump()
	}
}

func (s *Session) readPump() {
	defer func() {
		s.hub.remove(s)
		s.conn.Close()
	}()

	for {
		var cmd viewCommand
		if err := s.conn.ReadJSON(&cmd); err != nil {
			return
		}

		switch cmd.Action {
		case "query":
			// trailing-edge debounce; the push fires when the query lands
			s.ctrl.SetQueryDebounced(cmd.Value, s.pushRender)
			continue
		case "sort":
			s.ctrl.SetSort(viewstate.SortKey(cmd.Value))
		case "view":
			s.ctrl.SwitchView(viewstate.ViewMode(cmd.Value))
		case "openBoard":
			if err := s.ctrl.OpenBoard(cmd.Value); err != nil {
				s.pushError(err)
				continue
			}
		default:
			log.Printf("hub: unknown view command %q", cmd.Action)
			continue
		}
		s.pushRender()
	}
}

func (s *Session) pushError(err error) {
	m := s.ctrl.Render()
	m.Error = err.Error()
	if data, merr := json.Marshal(m); merr == nil {
		s.trySend(data)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			if !ok {
				s.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
