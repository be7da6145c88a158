package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/saeidalz13/battleship-computer/db/sqlc"
	"github.com/saeidalz13/battleship-computer/internal/config"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
	mc "github.com/saeidalz13/battleship-computer/models/connection"
	"github.com/saeidalz13/battleship-computer/models/match"
	"github.com/sqlc-dev/pqtype"
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    match.GameManager
	analytics      *sqlc.AnalyticsManager
	stage          string
	ipnet          net.IPNet
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager match.GameManager,
	opts ...Option,
) (*RequestProcessor, error) {
	rp := &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		stage:          config.StageDev,
	}

	for _, opt := range opts {
		if err := opt(rp); err != nil {
			return nil, err
		}
	}

	if rp.ipnet.IP == nil {
		rp.ipnet = findServerIpNet()
	}
	return rp, nil
}

// The first non-loopback IPv4 address keys the analytics rows of this
// server. Machines without one fall back to loopback.
func findServerIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("failed to list network interfaces", "err", err)
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Warn("failed to list interface addresses", "iface", iface.Name, "err", err)
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: ipnet.Mask}
			}
		}
	}

	log.Warn("no external ipv4 address found, using loopback")
	return loopback
}

// Expose this method to use it in testing
func (rp *RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("could not open websocket connection", "remote", r.RemoteAddr, "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Info("a new connection established", "remote", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			// This either means an expired session or invalid session ID
			_ = conn.WriteJSON(mc.NewErrorMessage(mc.CodeReceivedInvalidSessionID, err.Error(), "session expired or invalid"))
			_ = conn.Close()
		}
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionGame *match.Game
		sessionId   = session.Id()
	)

	defer func() {
		if sessionGame != nil {
			rp.gameManager.TerminateGame(sessionGame.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		log.Info("session closed", "session", sessionId, "lasted", time.Since(session.CreatedAt()).Round(time.Second))
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// This error happens after retries. If it's not nil,
			// then something was wrong with the session connection
			// and couldn't be resolved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewErrorMessage(mc.CodeSignalAbsent, err.Error(), "incoming req payload must contain 'code' field")
			if !rp.write(session, msg) {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {

		// A session plays one game at a time; a new one replaces it
		case mc.CodeCreateGame:
			game, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, sessionId)
			if game != nil {
				if sessionGame != nil {
					rp.gameManager.TerminateGame(sessionGame.Uuid())
				}
				sessionGame = game
				rp.recordGameCreated()
			}

			if !rp.write(session, respMsg) {
				break sessionLoop
			}

		// This code means the player has selected their grid and
		// ready to start the game
		case mc.CodeReady:
			game, respMsg := NewRequest(payload).HandleReadyPlayer(rp.gameManager, sessionId)
			if !rp.write(session, respMsg) {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if game.IsReadyToStart() {
				if !rp.write(session, mc.NewMessage[mc.NoPayload](mc.CodeStartGame)) {
					break sessionLoop
				}
			}

		// The human shot is answered first, then the computer shoots
		// back unless the human just won.
		case mc.CodeAttack:
			game, respMsg := NewRequest(payload).HandleAttack(rp.gameManager, sessionId)
			if !rp.write(session, respMsg) {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if !game.IsFinished() {
				compMsg := NewRequest().HandleComputerAttack(game)
				if compMsg.Error != nil {
					// the match state is broken; it cannot go on
					log.Error("computer failed to attack", "game", game.Uuid(), "err", compMsg.Error.ErrorDetails)
					game.FinishGame()
				}
				if !rp.write(session, compMsg) {
					break sessionLoop
				}
				if compMsg.Error != nil {
					continue sessionLoop
				}
			}

			if game.IsFinished() {
				rp.recordMatchResult(game)

				respEnd := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
				respEnd.AddPayload(mc.RespEndGame{
					PlayerMatchStatus: game.HumanPlayer().MatchStatus(),
					ShotsFired:        game.HumanPlayer().ShotsFired(),
					ComputerShots:     game.ComputerPlayer().ShotsFired(),
				})
				if !rp.write(session, respEnd) {
					break sessionLoop
				}
			}

		case mc.CodeRematchCall:
			respMsg := NewRequest().HandleCallRematch(sessionGame)
			if respMsg.Error == nil {
				rp.recordRematch()
			}

			if !rp.write(session, respMsg) {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewErrorMessage(mc.CodeInvalidSignal, "", "invalid code in the incoming payload")
			if !rp.write(session, respInvalidSignal) {
				break sessionLoop
			}
		}
	}
}

// write reports whether the session can go on.
func (rp *RequestProcessor) write(session *mc.Session, msg any) bool {
	switch m := msg.(type) {
	case mc.Message[mc.NoPayload]:
		scrubError(rp.stage, &m)
		msg = m
	case mc.Message[mc.RespCreateGame]:
		scrubError(rp.stage, &m)
		msg = m
	case mc.Message[mc.RespAttack]:
		scrubError(rp.stage, &m)
		msg = m
	}

	if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
		log.Warn("failed to write to session", "session", session.Id(), "err", err)
		return false
	}
	return true
}

func (rp *RequestProcessor) serverInet() pqtype.Inet {
	return pqtype.Inet{IPNet: rp.ipnet, Valid: true}
}

// Analytics failures never end a game.
func (rp *RequestProcessor) recordGameCreated() {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.analytics.IncrementGamesCreatedCount(ctx, rp.serverInet()); err != nil {
		log.Warn("failed to record created game", "err", err)
	}
}

func (rp *RequestProcessor) recordRematch() {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.analytics.IncrementRematchCalledCount(ctx, rp.serverInet()); err != nil {
		log.Warn("failed to record rematch", "err", err)
	}
}

func (rp *RequestProcessor) recordMatchResult(game *match.Game) {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	computer := game.ComputerPlayer()
	err := rp.analytics.RecordComputerMatch(ctx, sqlc.InsertComputerMatchResultParams{
		GameUuid:      game.Uuid(),
		GameMode:      int32(game.Mode()),
		Winner:        game.Winner(),
		ComputerShots: int32(computer.ShotsFired()),
		ComputerHits:  int32(computer.ShotsHit()),
	})
	if err != nil {
		log.Warn("failed to record match result", "game", game.Uuid(), "err", err)
	}
}

// HandleStats serves how the computer fared per game mode. Without
// analytics there is nothing to serve.
func (rp *RequestProcessor) HandleStats(w http.ResponseWriter, r *http.Request) {
	if rp.analytics == nil {
		http.Error(w, "analytics disabled", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sqlc.QuerierCtxTimeout)
	defer cancel()

	var resp mc.RespComputerStats
	modes := []struct {
		mode  int
		stats *mc.RespModeStats
	}{
		{mb.GameModeQuick, &resp.Quick},
		{mb.GameModeClassic, &resp.Classic},
	}

	for _, m := range modes {
		mode, stats := m.mode, m.stats
		row, err := rp.analytics.ComputerMatchStats(ctx, int32(mode))
		if err != nil {
			log.Error("failed to fetch computer match stats", "mode", mode, "err", err)
			http.Error(w, "failed to fetch stats", http.StatusInternalServerError)
			return
		}
		*stats = mc.RespModeStats{
			Matches:       row.Matches,
			ComputerWins:  row.ComputerWins,
			AvgShotsToWin: row.AvgShotsToWin,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warn("failed to write stats", "err", err)
	}
}
