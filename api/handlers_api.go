package api

import (
	"encoding/json"
	"errors"

	cerr "github.com/saeidalz13/battleship-computer/internal/error"
	mc "github.com/saeidalz13/battleship-computer/models/connection"
	"github.com/saeidalz13/battleship-computer/models/match"
)

type RequestHandler interface {
	HandleCreateGame(gm match.GameManager, sessionID string) (*match.Game, mc.Message[mc.RespCreateGame])
	HandleReadyPlayer(gm match.GameManager, sessionID string) (*match.Game, mc.Message[mc.NoPayload])
	HandleAttack(gm match.GameManager, sessionID string) (*match.Game, mc.Message[mc.RespAttack])
	HandleComputerAttack(game *match.Game) mc.Message[mc.RespAttack]
	HandleCallRematch(game *match.Game) mc.Message[mc.NoPayload]
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func (r Request) HandleCreateGame(gm match.GameManager, sessionID string) (*match.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var req mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid create game payload")
		return nil, resp
	}

	game, err := gm.CreateGame(req.Payload.GameMode, sessionID)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	resp.AddPayload(mc.NewRespCreateGame(game.Uuid(), game.HumanPlayer().Uuid(), game.Mode()))
	return game, resp
}

// User will choose the configurations of ships on defence grid.
// Then the grid is sent to backend and validated against the fleet
// of the game mode.
func (r Request) HandleReadyPlayer(gm match.GameManager, sessionID string) (*match.Game, mc.Message[mc.NoPayload]) {
	resp := mc.NewMessage[mc.NoPayload](mc.CodeReady)

	var req mc.Message[mc.ReqReadyPlayer]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), "invalid ready payload")
		return nil, resp
	}

	game, err := findSessionGame(gm, req.Payload.GameUuid, req.Payload.PlayerUuid, sessionID)
	if err != nil {
		resp.AddError(err.Error(), "game or player not found")
		return nil, resp
	}

	if err := game.Ready(req.Payload.DefenceGrid); err != nil {
		resp.AddError(err.Error(), "invalid defence grid")
		return game, resp
	}

	return game, resp
}

func (r Request) HandleAttack(gm match.GameManager, sessionID string) (*match.Game, mc.Message[mc.RespAttack]) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return nil, resp
	}

	game, err := findSessionGame(gm, req.Payload.GameUuid, req.Payload.PlayerUuid, sessionID)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return nil, resp
	}

	result, err := game.HumanAttack(req.Payload.X, req.Payload.Y)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return game, resp
	}

	// The computer fires next, so the human waits
	resp.AddPayload(newRespAttack(result, false))
	return game, resp
}

// The computer always fires right after a human attack that did not
// end the game.
func (r Request) HandleComputerAttack(game *match.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeComputerAttack)

	result, err := game.ComputerAttack()
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrComputerFailed)
		return resp
	}

	resp.AddPayload(newRespAttack(result, !game.IsFinished()))
	return resp
}

func (r Request) HandleCallRematch(game *match.Game) mc.Message[mc.NoPayload] {
	if game == nil {
		return mc.NewErrorMessage(mc.CodeRematchCall, "no game in this session", "rematch failed")
	}

	if err := game.Reset(); err != nil {
		return mc.NewErrorMessage(mc.CodeRematchCall, err.Error(), "rematch failed")
	}

	return mc.NewMessage[mc.NoPayload](mc.CodeSelectGrid)
}

func newRespAttack(result match.AttackResult, isTurn bool) mc.RespAttack {
	return mc.RespAttack{
		X:                         result.Coordinates.X,
		Y:                         result.Coordinates.Y,
		PositionState:             int(result.PositionState),
		IsTurn:                    isTurn,
		DefenderSunkenShipsCoords: result.SunkShipCoordinates,
	}
}

// A session may only touch the game it created, as the player it
// was given.
func findSessionGame(gm match.GameManager, gameUuid, playerUuid, sessionID string) (*match.Game, error) {
	game, err := gm.FetchGame(gameUuid)
	if err != nil {
		return nil, err
	}

	human := game.HumanPlayer()
	if human.Uuid() != playerUuid {
		return nil, cerr.ErrPlayerNotExist(playerUuid)
	}
	if human.SessionId() != sessionID {
		return nil, errors.New("game belongs to another session")
	}

	return game, nil
}
