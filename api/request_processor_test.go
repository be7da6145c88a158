package api_test

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-computer/api"
	"github.com/saeidalz13/battleship-computer/db/sqlc"
	"github.com/saeidalz13/battleship-computer/internal/config"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
	mc "github.com/saeidalz13/battleship-computer/models/connection"
	"github.com/saeidalz13/battleship-computer/models/match"
	"github.com/sqlc-dev/pqtype"
)

var (
	testIpNet = net.IPNet{IP: net.IPv4(10, 0, 0, 7).To4(), Mask: net.CIDRMask(32, 32)}
	dialer    = websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectErr    bool

	reqPayload  T
	respPayload K // Used to unmarshal the response
}

type testServer struct {
	url         string
	gameManager *match.BattleshipGameManager
}

func newTestServer(t *testing.T, opts ...api.Option) testServer {
	t.Helper()

	gm := match.NewBattleshipGameManager(match.WithSeed(17))
	opts = append(opts, api.WithServerIpNet(testIpNet))
	rp, err := api.NewRequestProcessor(mc.NewBattleshipSessionManager(), gm, opts...)
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(api.NewServeMux(rp))
	t.Cleanup(server.Close)

	return testServer{url: server.URL, gameManager: gm}
}

// dial opens a session and returns its connection and id.
func (ts testServer) dial(t *testing.T) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(ts.url, "http")+api.RouteBattleship, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	var respSessionId mc.Message[mc.RespSessionId]
	readJSON(t, conn, &respSessionId)
	if respSessionId.Code != mc.CodeSessionID || respSessionId.Payload.SessionID == "" {
		t.Fatalf("expected a session id, got %+v", respSessionId)
	}

	return conn, respSessionId.Payload.SessionID
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(v); err != nil {
		t.Fatal(err)
	}
}

func writeJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatal(err)
	}
}

func quickGrid() mb.Grid {
	grid := mb.NewGrid(mb.GridSizeQuick, mb.GridSizeQuick)
	grid[0][0], grid[0][1] = int(mb.ShipCodeDestroyer), int(mb.ShipCodeDestroyer)
	grid[1][5], grid[2][5], grid[3][5] = int(mb.ShipCodeCruiser), int(mb.ShipCodeCruiser), int(mb.ShipCodeCruiser)
	for x := 1; x <= 4; x++ {
		grid[5][x] = int(mb.ShipCodeBattleship)
	}
	return grid
}

func createGame(t *testing.T, conn *websocket.Conn, mode int) mc.RespCreateGame {
	t.Helper()

	writeJSON(t, conn, mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{GameMode: mode}})

	var resp mc.Message[mc.RespCreateGame]
	readJSON(t, conn, &resp)
	if resp.Code != mc.CodeCreateGame || resp.Error != nil {
		t.Fatalf("expected a created game, got %+v (%+v)", resp, resp.Error)
	}
	return resp.Payload
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.url + api.RouteHealth)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status: %d\tgot: %d", http.StatusOK, resp.StatusCode)
	}
}

func TestInvalidCode(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)

	tests := []Test[[]byte, mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   []byte(`{"code": 255}`),
		},
		{
			name:         "server only code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   []byte(`{"code": 5}`),
		},
		{
			name:         "missing code",
			expectedCode: mc.CodeSignalAbsent,
			reqPayload:   []byte(`{"payload": {"game_mode": 0}}`),
		},
		{
			name:         "not json",
			expectedCode: mc.CodeSignalAbsent,
			reqPayload:   []byte(`fire at will`),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, test.reqPayload); err != nil {
				t.Fatal(err)
			}

			readJSON(t, conn, &test.respPayload)
			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatal("expected an error in the response")
			}
		})
	}
}

func TestReconnectUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.url, "http") + api.RouteBattleship + "?" + api.URLQuerySessionIDKeyword + "=bogus"
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var resp mc.Message[mc.NoPayload]
	readJSON(t, conn, &resp)
	if resp.Code != mc.CodeReceivedInvalidSessionID {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeReceivedInvalidSessionID, resp.Code)
	}
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	conn, sessionId := ts.dial(t)

	tests := []Test[mc.Message[mc.ReqCreateGame], mc.Message[mc.RespCreateGame]]{
		{
			name:         "quick",
			expectedCode: mc.CodeCreateGame,
			reqPayload:   mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{GameMode: mb.GameModeQuick}},
		},
		{
			name:         "classic",
			expectedCode: mc.CodeCreateGame,
			reqPayload:   mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{GameMode: mb.GameModeClassic}},
		},
		{
			name:         "unknown mode",
			expectedCode: mc.CodeCreateGame,
			expectErr:    true,
			reqPayload:   mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{GameMode: 9}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			writeJSON(t, conn, test.reqPayload)
			readJSON(t, conn, &test.respPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if (test.respPayload.Error != nil) != test.expectErr {
				t.Fatalf("expected error: %t\tgot: %+v", test.expectErr, test.respPayload.Error)
			}
			if test.expectErr {
				return
			}

			size, fleet := mb.ModeSettings(test.reqPayload.Payload.GameMode)
			payload := test.respPayload.Payload
			if payload.Rows != size || payload.Columns != size {
				t.Fatalf("expected %dx%d grid, got %dx%d", size, size, payload.Rows, payload.Columns)
			}
			if len(payload.Fleet) != len(fleet) {
				t.Fatalf("expected ships: %d\tgot: %d", len(fleet), len(payload.Fleet))
			}

			game, err := ts.gameManager.FetchGame(payload.GameUuid)
			if err != nil {
				t.Fatal(err)
			}
			if game.HumanPlayer().Uuid() != payload.PlayerUuid || game.HumanPlayer().SessionId() != sessionId {
				t.Fatal("created game does not belong to this session")
			}
		})
	}

	// a new game replaces the previous one of the session
	if ts.gameManager.Count() != 1 {
		t.Fatalf("expected games: %d\tgot: %d", 1, ts.gameManager.Count())
	}
}

func TestProdHidesErrorDetails(t *testing.T) {
	ts := newTestServer(t, api.WithStage(config.StageProd))
	conn, _ := ts.dial(t)

	writeJSON(t, conn, mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: mc.ReqCreateGame{GameMode: 9}})

	var resp mc.Message[mc.RespCreateGame]
	readJSON(t, conn, &resp)
	if resp.Error == nil {
		t.Fatal("expected an error in the response")
	}
	if resp.Error.ErrorDetails != "" || resp.Error.Message == "" {
		t.Fatalf("expected only a message, got %+v", resp.Error)
	}
}

func TestAttackOtherSessionGame(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.dial(t)
	intruder, _ := ts.dial(t)

	created := createGame(t, owner, mb.GameModeQuick)

	writeJSON(t, intruder, mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{
		GameUuid:   created.GameUuid,
		PlayerUuid: created.PlayerUuid,
		X:          0,
		Y:          0,
	}})

	var resp mc.Message[mc.RespAttack]
	readJSON(t, intruder, &resp)
	if resp.Code != mc.CodeAttack || resp.Error == nil {
		t.Fatalf("expected a failed attack, got %+v", resp)
	}
}

// Plays a whole quick game over the websocket: the human knows where
// the computer fleet is and sinks it before the computer can.
func TestQuickGameHumanWins(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ts := newTestServer(t, api.WithQuerier(sqlc.New(db)))
	conn, _ := ts.dial(t)
	serverInet := pqtype.Inet{IPNet: testIpNet, Valid: true}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, games_created)")).
		WithArgs(serverInet).
		WillReturnResult(sqlmock.NewResult(0, 1))
	created := createGame(t, conn, mb.GameModeQuick)

	readyTests := []Test[mc.Message[mc.ReqReadyPlayer], mc.Message[mc.NoPayload]]{
		{
			name:         "empty grid",
			expectedCode: mc.CodeReady,
			expectErr:    true,
			reqPayload: mc.Message[mc.ReqReadyPlayer]{Code: mc.CodeReady, Payload: mc.ReqReadyPlayer{
				GameUuid:    created.GameUuid,
				PlayerUuid:  created.PlayerUuid,
				DefenceGrid: mb.NewGrid(mb.GridSizeQuick, mb.GridSizeQuick),
			}},
		},
		{
			name:         "wrong player",
			expectedCode: mc.CodeReady,
			expectErr:    true,
			reqPayload: mc.Message[mc.ReqReadyPlayer]{Code: mc.CodeReady, Payload: mc.ReqReadyPlayer{
				GameUuid:    created.GameUuid,
				PlayerUuid:  "someone",
				DefenceGrid: quickGrid(),
			}},
		},
		{
			name:         "valid grid",
			expectedCode: mc.CodeReady,
			reqPayload: mc.Message[mc.ReqReadyPlayer]{Code: mc.CodeReady, Payload: mc.ReqReadyPlayer{
				GameUuid:    created.GameUuid,
				PlayerUuid:  created.PlayerUuid,
				DefenceGrid: quickGrid(),
			}},
		},
	}

	for _, test := range readyTests {
		t.Run(test.name, func(t *testing.T) {
			writeJSON(t, conn, test.reqPayload)
			readJSON(t, conn, &test.respPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected status: %d\t got: %d", test.expectedCode, test.respPayload.Code)
			}
			if (test.respPayload.Error != nil) != test.expectErr {
				t.Fatalf("expected error: %t\tgot: %+v", test.expectErr, test.respPayload.Error)
			}
		})
	}

	var respStart mc.Message[mc.NoPayload]
	readJSON(t, conn, &respStart)
	if respStart.Code != mc.CodeStartGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeStartGame, respStart.Code)
	}

	// the grid is fixed once the match started
	writeJSON(t, conn, readyTests[len(readyTests)-1].reqPayload)
	var respReadyAgain mc.Message[mc.NoPayload]
	readJSON(t, conn, &respReadyAgain)
	if respReadyAgain.Code != mc.CodeReady || respReadyAgain.Error == nil {
		t.Fatalf("expected a rejected grid, got %+v", respReadyAgain)
	}

	game, err := ts.gameManager.FetchGame(created.GameUuid)
	if err != nil {
		t.Fatal(err)
	}
	var targets []mb.Coordinates
	for _, ship := range game.ComputerPlayer().DefenceBoard().Ships() {
		targets = append(targets, ship.Coordinates()...)
	}

	for i, target := range targets {
		last := i == len(targets)-1
		if last {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO computer_match_results")).
				WithArgs(created.GameUuid, int32(mb.GameModeQuick), match.WinnerHuman, int32(len(targets)-1), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}

		writeJSON(t, conn, mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{
			GameUuid:   created.GameUuid,
			PlayerUuid: created.PlayerUuid,
			X:          target.X,
			Y:          target.Y,
		}})

		var respAttack mc.Message[mc.RespAttack]
		readJSON(t, conn, &respAttack)
		if respAttack.Code != mc.CodeAttack || respAttack.Error != nil {
			t.Fatalf("expected a successful attack, got %+v (%+v)", respAttack, respAttack.Error)
		}
		if respAttack.Payload.X != target.X || respAttack.Payload.Y != target.Y {
			t.Fatalf("expected attack at %+v, got (%d,%d)", target, respAttack.Payload.X, respAttack.Payload.Y)
		}
		if state := mb.PositionState(respAttack.Payload.PositionState); state != mb.PositionStateHit && state != mb.PositionStateSunk {
			t.Fatalf("expected a hit on a ship cell, got %s", state)
		}

		if last {
			break
		}

		var respComputer mc.Message[mc.RespAttack]
		readJSON(t, conn, &respComputer)
		if respComputer.Code != mc.CodeComputerAttack || respComputer.Error != nil {
			t.Fatalf("expected the computer to fire back, got %+v (%+v)", respComputer, respComputer.Error)
		}
		if !respComputer.Payload.IsTurn {
			t.Fatal("expected the turn back with the human")
		}
		if x, y := respComputer.Payload.X, respComputer.Payload.Y; x < 0 || x >= mb.GridSizeQuick || y < 0 || y >= mb.GridSizeQuick {
			t.Fatalf("computer fired out of the grid: (%d,%d)", x, y)
		}
	}

	var respEnd mc.Message[mc.RespEndGame]
	readJSON(t, conn, &respEnd)
	if respEnd.Code != mc.CodeEndGame {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeEndGame, respEnd.Code)
	}
	if respEnd.Payload.PlayerMatchStatus != mb.PlayerMatchStatusWon {
		t.Fatalf("expected match status: %d\tgot: %d", mb.PlayerMatchStatusWon, respEnd.Payload.PlayerMatchStatus)
	}
	if respEnd.Payload.ShotsFired != len(targets) {
		t.Fatalf("expected shots fired: %d\tgot: %d", len(targets), respEnd.Payload.ShotsFired)
	}

	// a finished game takes no more attacks
	writeJSON(t, conn, mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{
		GameUuid:   created.GameUuid,
		PlayerUuid: created.PlayerUuid,
	}})
	var respLate mc.Message[mc.RespAttack]
	readJSON(t, conn, &respLate)
	if respLate.Error == nil {
		t.Fatal("expected an error attacking a finished game")
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, rematch_called)")).
		WithArgs(serverInet).
		WillReturnResult(sqlmock.NewResult(0, 1))
	writeJSON(t, conn, mc.NewMessage[mc.NoPayload](mc.CodeRematchCall))

	var respRematch mc.Message[mc.NoPayload]
	readJSON(t, conn, &respRematch)
	if respRematch.Code != mc.CodeSelectGrid {
		t.Fatalf("expected status: %d\t got: %d", mc.CodeSelectGrid, respRematch.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func TestStats(t *testing.T) {
	t.Run("analytics disabled", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := http.Get(ts.url + api.RouteStats)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("expected status: %d\tgot: %d", http.StatusServiceUnavailable, resp.StatusCode)
		}
	})

	t.Run("per mode", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		ts := newTestServer(t, api.WithQuerier(sqlc.New(db)))

		columns := []string{"matches", "computer_wins", "avg_shots_to_win"}
		mock.ExpectQuery(regexp.QuoteMeta("FROM computer_match_results")).
			WithArgs(int32(mb.GameModeQuick)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(4, 1, 21.0))
		mock.ExpectQuery(regexp.QuoteMeta("FROM computer_match_results")).
			WithArgs(int32(mb.GameModeClassic)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(10, 7, 52.5))

		resp, err := http.Get(ts.url + api.RouteStats)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status: %d\tgot: %d", http.StatusOK, resp.StatusCode)
		}

		var stats mc.RespComputerStats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			t.Fatal(err)
		}
		expected := mc.RespComputerStats{
			Quick:   mc.RespModeStats{Matches: 4, ComputerWins: 1, AvgShotsToWin: 21},
			Classic: mc.RespModeStats{Matches: 10, ComputerWins: 7, AvgShotsToWin: 52.5},
		}
		if stats != expected {
			t.Fatalf("expected stats: %+v\tgot: %+v", expected, stats)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations were not met: %v", err)
		}
	})
}
