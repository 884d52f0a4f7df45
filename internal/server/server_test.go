package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/lobby"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *lobby.Lobby) {
	t.Helper()
	l := lobby.New(lobby.WithLogger(testLogger()), lobby.WithSeed(7))
	t.Cleanup(l.Close)
	return NewServer(l, testLogger(), opts...), l
}

// post sends body as JSON and returns the recorded response.
func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[ErrorData](t, w).Code
}

// seatThree creates a table for alice and seats bob and carol. Keys are
// returned in seat order.
func seatThree(t *testing.T, h http.Handler) (string, []string) {
	t.Helper()
	w := post(t, h, "/create", createRequest{Name: "alice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[createResponse](t, w)

	keys := []string{created.Key}
	for _, name := range []string{"bob", "carol"} {
		w := post(t, h, "/join", joinRequest{Name: name, Table: created.TableID})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		keys = append(keys, decodeBody[joinResponse](t, w).Key)
	}
	return created.TableID, keys
}

func getTable(t *testing.T, h http.Handler, key string) game.View {
	t.Helper()
	w := post(t, h, "/get_table", keyRequest{Key: key})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody[game.View](t, w)
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestCreateUsesDefaults(t *testing.T) {
	t.Parallel()
	srv, l := newTestServer(t, WithDefaults(game.Settings{MinimumBid: 20, SeatCap: 4, StartingChips: 500}))
	h := srv.Handler()

	w := post(t, h, "/create", createRequest{Name: "alice", StartingChips: 300})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[createResponse](t, w)
	assert.Equal(t, created.TableID, l.FindPlayer(created.Key))

	view := getTable(t, h, created.Key)
	assert.Equal(t, "alice", view.Settings.Name)
	assert.Equal(t, 20, view.Settings.MinimumBid)
	assert.Equal(t, 4, view.Settings.SeatCap)
	assert.Equal(t, 300, view.Settings.StartingChips)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()
	tableID, keys := seatThree(t, h)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"malformed json", "/create", "{", http.StatusBadRequest, "bad_request"},
		{"missing name", "/create", createRequest{}, http.StatusBadRequest, "bad_request"},
		{"invalid settings", "/create", createRequest{Name: "x", MaxPlayers: 9}, http.StatusBadRequest, "invalid_settings"},
		{"unknown table", "/join", joinRequest{Name: "dave", Table: "nope"}, http.StatusNotFound, "table_not_found"},
		{"unknown key", "/get_table", keyRequest{Key: "nope"}, http.StatusUnauthorized, "unknown_key"},
		{"start by guest", "/start", keyRequest{Key: keys[1]}, http.StatusForbidden, "not_host"},
		{"edit by guest", "/edit", editRequest{Key: keys[2], Name: "mine", MinimalBid: 5, MaxPlayers: 7, StartingChips: 100}, http.StatusForbidden, "not_host"},
		{"act before start", "/action", map[string]any{"key": keys[0], "action": "Fold"}, http.StatusConflict, "hand_not_running"},
		{"missing action", "/action", keyRequest{Key: keys[0]}, http.StatusBadRequest, "bad_request"},
		{"unknown action", "/action", map[string]any{"key": keys[0], "action": "Bluff"}, http.StatusBadRequest, "unknown_action"},
		{"raise without amount", "/action", map[string]any{"key": keys[0], "action": "Raise"}, http.StatusUnprocessableEntity, "invalid_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}

	w := post(t, h, "/find", keyRequest{Key: keys[2]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tableID, decodeBody[findResponse](t, w).Table)
}

func TestStartNeedsThreePlayers(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w := post(t, h, "/create", createRequest{Name: "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[createResponse](t, w)

	w = post(t, h, "/start", keyRequest{Key: created.Key})
	assert.Equal(t, http.StatusTooEarly, w.Code)
	assert.Equal(t, "not_enough_players", errorCode(t, w))
}

func TestHandFlow(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()
	_, keys := seatThree(t, h)

	w := post(t, h, "/start", keyRequest{Key: keys[0]})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	view := getTable(t, h, keys[0])
	require.True(t, view.Running)
	assert.Equal(t, "PreFlop", view.Street)
	assert.Equal(t, 10, view.Pot)
	assert.Len(t, view.Seats[0].HoleCards, 2)
	assert.Empty(t, view.Seats[1].HoleCards, "other players' cards stay hidden")

	acting := view.ActingSeat
	other := keys[(acting+1)%3]
	w = post(t, h, "/action", map[string]any{"key": other, "action": "Call"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_your_turn", errorCode(t, w))

	w = post(t, h, "/action", map[string]any{"key": keys[acting], "action": map[string]int{"Raise": 1000}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "insufficient_chips", errorCode(t, w))

	w = post(t, h, "/action", map[string]any{"key": keys[acting], "action": "Check"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "cannot_check", errorCode(t, w))

	for i := 0; i < 3; i++ {
		view = getTable(t, h, keys[0])
		w = post(t, h, "/action", map[string]any{"key": keys[view.ActingSeat], "action": "Call"})
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	}

	view = getTable(t, h, keys[0])
	assert.Equal(t, "Flop", view.Street)
	assert.Len(t, view.Board, 3)
	assert.Equal(t, 15, view.Pot)

	w = post(t, h, "/edit", editRequest{Key: keys[0], Name: "renamed", MinimalBid: 5, MaxPlayers: 7, StartingChips: 100})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "hand_in_progress", errorCode(t, w))

	w = post(t, h, "/action", map[string]any{"key": keys[view.ActingSeat], "action": map[string]any{"kind": "raise", "amount": 10}})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, 10, getTable(t, h, keys[0]).RequiredBet)
}

func TestExitClosesEmptyTable(t *testing.T) {
	t.Parallel()
	srv, l := newTestServer(t)
	h := srv.Handler()

	w := post(t, h, "/create", createRequest{Name: "alice"})
	created := decodeBody[createResponse](t, w)

	w = post(t, h, "/exit", keyRequest{Key: created.Key})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, l.Tables())

	w = post(t, h, "/exit", keyRequest{Key: created.Key})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchAndTables(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	h := srv.Handler()

	post(t, h, "/create", createRequest{Name: "alice", MinimalBid: 10})
	post(t, h, "/create", createRequest{Name: "bob", TableName: "high rollers", MinimalBid: 50, StartingChips: 1000})

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	tables := decodeBody[[]lobby.Summary](t, w)
	require.Len(t, tables, 2)
	assert.Equal(t, "alice", tables[0].Name)
	assert.Equal(t, "high rollers", tables[1].Name)

	req = httptest.NewRequest(http.MethodGet, "/search?minimal_bid=50", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeBody[[]lobby.Summary](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "high rollers", found[0].Name)

	w = post(t, h, "/search", lobby.Criteria{Name: "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	found = decodeBody[[]lobby.Summary](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, 10, found[0].MinimalBid)

	req = httptest.NewRequest(http.MethodGet, "/search?max_players=lots", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/create", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, WithAllowedOrigins("https://poker.example"))

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("Origin", "https://poker.example")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "https://poker.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCheckOrigin(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, WithAllowedOrigins("poker.example"))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, srv.checkOrigin(req), "requests without an origin are allowed")

	req.Header.Set("Origin", "https://poker.example")
	assert.True(t, srv.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, srv.checkOrigin(req))
}

func wsURL(ts *httptest.Server, key string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?key=" + key
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readView reads messages until a table view satisfying pred arrives.
func readView(t *testing.T, conn *websocket.Conn, pred func(game.View) bool) game.View {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readMessage(t, conn)
		if msg.Type != MessageTypeTable {
			continue
		}
		var view game.View
		require.NoError(t, json.Unmarshal(msg.Data, &view))
		if pred(view) {
			return view
		}
	}
	t.Fatal("expected table view never arrived")
	return game.View{}
}

func TestWebSocketRejectsUnknownKey(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketPushesViews(t *testing.T) {
	t.Parallel()
	srv, l := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer func() { _ = srv.Shutdown(t.Context()) }()

	_, keys := seatThree(t, srv.Handler())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, keys[1]), nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readView(t, conn, func(game.View) bool { return true })
	assert.Equal(t, 1, initial.ViewerSeat)
	assert.False(t, initial.Running)

	require.NoError(t, l.StartGame(keys[0]))
	running := readView(t, conn, func(v game.View) bool { return v.Running })
	assert.Len(t, running.Seats[1].HoleCards, 2)
	assert.Empty(t, running.Seats[0].HoleCards)

	// Acting out of turn is answered with an error message.
	if running.ActingSeat != 1 {
		msg, err := NewMessage(MessageTypeAction, map[string]any{"action": "Call"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))
		for {
			reply := readMessage(t, conn)
			if reply.Type != MessageTypeError {
				continue
			}
			var data ErrorData
			require.NoError(t, json.Unmarshal(reply.Data, &data))
			assert.Equal(t, "not_your_turn", data.Code)
			break
		}
	}

	msg, err := NewMessage(MessageTypeGetTable, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
	readView(t, conn, func(v game.View) bool { return v.Running })

	assert.Eventually(t, func() bool { return srv.hub.count() == 1 }, time.Second, 10*time.Millisecond)
}
