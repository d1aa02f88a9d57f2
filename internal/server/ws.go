package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/magefree/commander-engine-go/internal/game"
	"github.com/magefree/commander-engine-go/internal/game/rules"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The engine enforces all game rules; the socket layer accepts any
	// origin and leaves access control to the deployment in front of it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request is an inbound client message.
type Request struct {
	Op        string      `json:"op"`
	RequestID string      `json:"request_id,omitempty"`
	GameID    string      `json:"game_id,omitempty"`
	PlayerID  string      `json:"player_id,omitempty"`
	Seats     []game.Seat `json:"seats,omitempty"`
	Action    game.Action `json:"action,omitempty"`
}

// Response is an outbound server message. Exactly one of Result, View,
// Actions, Events or Error is populated, keyed by Op.
type Response struct {
	Op        string             `json:"op"`
	RequestID string             `json:"request_id,omitempty"`
	GameID    string             `json:"game_id,omitempty"`
	Result    *game.ActionResult `json:"result,omitempty"`
	View      *game.GameView     `json:"view,omitempty"`
	Actions   []game.LegalAction `json:"actions,omitempty"`
	Events    []rules.Event      `json:"events,omitempty"`
	Event     *rules.Event       `json:"event,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Server exposes the engine over websocket connections.
type Server struct {
	logger *zap.Logger
	engine *game.Engine

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New creates a websocket server over the given engine.
func New(logger *zap.Logger, engine *game.Engine) *Server {
	return &Server{
		logger:  logger,
		engine:  engine,
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the HTTP handler for the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		server: s,
		conn:   conn,
		send:   make(chan Response, 64),
		done:   make(chan struct{}),
		subs:   make(map[string]int),
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.conn.Close()
	}
}

// dropClient retires a connection. The send channel is never closed:
// subscription listeners deliver on other clients' goroutines and may still
// fire mid-drop, so shutdown is signalled through done instead.
func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.done)
	}
	s.mu.Unlock()
	for gameID, handle := range c.subs {
		s.engine.Unsubscribe(gameID, handle)
	}
}

// client is one websocket connection. The read pump processes requests; the
// write pump serializes all outbound traffic, including subscription events.
type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan Response
	done   chan struct{}
	subs   map[string]int
}

func (c *client) readPump() {
	defer func() {
		c.server.dropClient(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.reply(Response{Op: "error", Error: "malformed request: " + err.Error()})
			continue
		}
		c.handle(req)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case resp := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(resp); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) reply(resp Response) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- resp:
	case <-c.done:
	default:
		// Slow consumer; drop the connection rather than block the engine.
		c.conn.Close()
	}
}

func (c *client) handle(req Request) {
	resp := Response{Op: req.Op, RequestID: req.RequestID, GameID: req.GameID}

	switch req.Op {
	case "create_game":
		gameID, err := c.server.engine.CreateGame(req.GameID, req.Seats)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.GameID = gameID
		view, err := c.server.engine.View(gameID, req.PlayerID)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.View = view

	case "submit_action":
		result, err := c.server.engine.SubmitAction(req.GameID, req.Action)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Result = &result

	case "query_state":
		view, err := c.server.engine.View(req.GameID, req.PlayerID)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.View = view

	case "legal_actions":
		actions, err := c.server.engine.LegalActions(req.GameID, req.PlayerID)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Actions = actions

	case "events":
		events, err := c.server.engine.Events(req.GameID)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Events = events

	case "subscribe":
		if _, dup := c.subs[req.GameID]; dup {
			resp.Error = "already subscribed"
			break
		}
		gameID := req.GameID
		handle, err := c.server.engine.Subscribe(gameID, func(event rules.Event) {
			ev := event
			c.reply(Response{Op: "event", GameID: gameID, Event: &ev})
		})
		if err != nil {
			resp.Error = err.Error()
			break
		}
		c.subs[gameID] = handle

	default:
		resp.Error = "unknown op: " + req.Op
	}

	c.reply(resp)
}
