package server

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/game"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger, catalog.NewStarterStore(), game.Options{Seed: 1})
	srv := New(logger, engine)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testSeats() []game.Seat {
	deck := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		deck = append(deck, "forest")
	}
	return []game.Seat{
		{PlayerID: "p1", Name: "Alice", Deck: deck},
		{PlayerID: "p2", Name: "Bob", Deck: deck},
	}
}

func roundTrip(t *testing.T, conn *websocket.Conn, req Request) Response {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestCreateGameAndQueryState(t *testing.T) {
	conn := dialTestServer(t)

	resp := roundTrip(t, conn, Request{
		Op:       "create_game",
		GameID:   "g1",
		PlayerID: "p1",
		Seats:    testSeats(),
	})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.View)
	assert.Equal(t, "g1", resp.View.GameID)
	assert.Len(t, resp.View.Players, 2)

	resp = roundTrip(t, conn, Request{Op: "query_state", GameID: "g1", PlayerID: "p2"})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.View)
	assert.Equal(t, "p1", resp.View.ActivePlayer)
}

func TestSubmitActionOverSocket(t *testing.T) {
	conn := dialTestServer(t)

	resp := roundTrip(t, conn, Request{Op: "create_game", GameID: "g2", Seats: testSeats()})
	require.Empty(t, resp.Error)

	resp = roundTrip(t, conn, Request{
		Op:     "submit_action",
		GameID: "g2",
		Action: game.Action{Kind: game.ActionPassPriority, PlayerID: "p1"},
	})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Applied)
	assert.Equal(t, "p2", resp.Result.Waiting)
}

func TestLegalActionsOverSocket(t *testing.T) {
	conn := dialTestServer(t)

	resp := roundTrip(t, conn, Request{Op: "create_game", GameID: "g3", Seats: testSeats()})
	require.Empty(t, resp.Error)

	resp = roundTrip(t, conn, Request{Op: "legal_actions", GameID: "g3", PlayerID: "p1"})
	require.Empty(t, resp.Error)
	assert.NotEmpty(t, resp.Actions)
}

func TestUnknownOp(t *testing.T) {
	conn := dialTestServer(t)
	resp := roundTrip(t, conn, Request{Op: "bogus"})
	assert.Contains(t, resp.Error, "unknown op")
}

func TestReplyAfterDisconnect(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewEngine(logger, catalog.NewStarterStore(), game.Options{Seed: 1})
	srv := New(logger, engine)

	c := &client{
		server: srv,
		send:   make(chan Response, 64),
		done:   make(chan struct{}),
		subs:   make(map[string]int),
	}
	srv.mu.Lock()
	srv.clients[c] = struct{}{}
	srv.mu.Unlock()

	srv.dropClient(c)
	srv.dropClient(c) // dropping twice is harmless

	// A subscription listener runs on the publishing client's goroutine and
	// may fire after the drop. Delivery must be a no-op, not a panic, even
	// once nothing drains the queue; push past the buffer to cover the
	// full-queue path.
	for i := 0; i < 2*cap(c.send); i++ {
		c.reply(Response{Op: "event", GameID: "g"})
	}
}

func TestUnknownGameErrors(t *testing.T) {
	conn := dialTestServer(t)
	resp := roundTrip(t, conn, Request{Op: "query_state", GameID: "missing"})
	assert.NotEmpty(t, resp.Error)
}
