package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/shell"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// viewRequest is the incoming WebSocket message format.
type viewRequest struct {
	Type       string `json:"type"` // solve, comment, rating, hover, leave, open, close
	Expression string `json:"expression,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Rating     int    `json:"rating,omitempty"`
	Panel      string `json:"panel,omitempty"`
}

// viewResponse is the outgoing WebSocket message format.
type viewResponse struct {
	Type  string      `json:"type"` // "view" or "error"
	View  *shell.View `json:"view,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	metricViewClients.Inc()
	defer metricViewClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// changed holds at most one pending push; bursts collapse into one view.
	changed := make(chan struct{}, 1)
	changed <- struct{}{}
	unsubscribe := d.shell.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	errs := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.writeLoop(ctx, conn, changed, errs)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			cancel()
			<-done
			return
		}

		var req viewRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sendError(errs, "invalid message format")
			continue
		}
		d.dispatch(ctx, req, errs)
	}
}

// dispatch applies one client frame. Solve runs in the background so the
// connection keeps reading while the request is pending. The coordinator is
// shared by every client, so the request outlives this connection.
func (d *Dashboard) dispatch(ctx context.Context, req viewRequest, errs chan<- string) {
	var err error
	switch req.Type {
	case "solve":
		go func() {
			res, err := d.shell.Solve(context.WithoutCancel(ctx), req.Expression)
			observeSolve(res, err)
			if err != nil {
				sendError(errs, shell.UserMessage(err))
			}
		}()
		return
	case "comment":
		if _, err = d.shell.SubmitFeedback(ctx, req.Comment, req.Rating); err == nil {
			metricFeedbackPosted.Inc()
		}
	case "rating":
		err = d.shell.SetRating(req.Rating)
	case "hover":
		d.shell.HoverRating(req.Rating)
	case "leave":
		d.shell.LeaveRating()
	case "open":
		err = d.shell.OpenPanel(overlay.PanelID(req.Panel))
	case "close":
		err = d.shell.ClosePanel(overlay.PanelID(req.Panel))
	default:
		sendError(errs, "unknown message type: "+req.Type)
		return
	}
	if err != nil {
		sendError(errs, shell.UserMessage(err))
	}
}

func (d *Dashboard) writeLoop(ctx context.Context, conn *websocket.Conn, changed <-chan struct{}, errs <-chan string) {
	for {
		var resp viewResponse
		select {
		case <-ctx.Done():
			return
		case msg := <-errs:
			resp = viewResponse{Type: "error", Error: msg}
		case <-changed:
			v, err := d.shell.View(ctx)
			if err != nil {
				log.Printf("dashboard: building view: %v", err)
				resp = viewResponse{Type: "error", Error: shell.GenericMessage}
				break
			}
			resp = viewResponse{Type: "view", View: &v}
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("dashboard: websocket write: %v", err)
			conn.Close()
			return
		}
	}
}

func sendError(errs chan<- string, message string) {
	select {
	case errs <- message:
	default:
		log.Printf("dashboard: dropping websocket error: %s", message)
	}
}
