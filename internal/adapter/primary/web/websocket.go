package web

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"volumectl/internal/adapter/primary/bridge"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: checkOrigin,
}

// checkOrigin allows same-origin, loopback and private-network pages.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		log.Warnf("rejected WebSocket connection: invalid origin %q", origin)
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	requestHost := r.Host
	if h, _, err := net.SplitHostPort(requestHost); err == nil {
		requestHost = h
	}
	if host == requestHost {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
		return true
	}
	log.Warnf("rejected WebSocket connection from origin %q", origin)
	return false
}

// BridgeRequest is a script call received over the WebSocket.
type BridgeRequest struct {
	ID     string          `json:"id,omitempty"`
	Action string          `json:"action"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// BridgeResponse is the callback delivered for one BridgeRequest.
type BridgeResponse struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}
	log.Infof("bridge client connected from %s", r.RemoteAddr)

	send := make(chan BridgeResponse, sendBuffer)
	done := make(chan struct{})
	go writePump(conn, send, done)

	s.readPump(conn, send)
	close(send)
	<-done
	log.Infof("bridge client %s disconnected", r.RemoteAddr)
}

// readPump executes requests one at a time in arrival order.
func (s *Server) readPump(conn *websocket.Conn, send chan<- BridgeResponse) {
	conn.SetReadLimit(maxMessageSize)
	for {
		var req BridgeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("websocket read: %v", err)
			}
			return
		}
		send <- s.handleBridgeRequest(req)
	}
}

func (s *Server) handleBridgeRequest(req BridgeRequest) BridgeResponse {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	resp := BridgeResponse{ID: req.ID, Action: req.Action}
	cb := bridge.CallbackFuncs{
		OnSuccess: func(result any) {
			resp.Success = true
			resp.Result = result
		},
		OnError: func(message string) {
			resp.Error = message
		},
	}
	if !s.dispatcher.Execute(req.Action, req.Args, cb) {
		resp.Error = bridge.ErrUnhandledAction.Error() + ": " + req.Action
	}
	return resp
}

func writePump(conn *websocket.Conn, send <-chan BridgeResponse, done chan<- struct{}) {
	defer close(done)
	defer conn.Close()
	for resp := range send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			log.Warnf("websocket write: %v", err)
			// Closing unblocks readPump; draining keeps it from blocking on send.
			conn.Close()
			for range send {
			}
			return
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
