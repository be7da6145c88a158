package match

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/saeidalz13/battleship-computer/internal"
	cerr "github.com/saeidalz13/battleship-computer/internal/error"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
	cp "github.com/saeidalz13/battleship-computer/models/computer"
)

const (
	WinnerNone     = ""
	WinnerHuman    = "human"
	WinnerComputer = "computer"
)

// AttackResult is one shot from either side of the match.
// SunkShipCoordinates is only set when the shot sank a ship.
type AttackResult struct {
	Coordinates         mb.Coordinates
	PositionState       mb.PositionState
	SunkShipCoordinates []mb.Coordinates
}

// Game is a match between one human and the computer. The human
// always shoots first. A Game is driven by the single session
// goroutine of its human player.
type Game struct {
	uuid       string
	mode       int
	isFinished bool
	rng        *rand.Rand

	human    *mb.Player
	computer *mb.Player
	ai       *cp.Computer
}

func NewGame(mode int, sessionID string, rng *rand.Rand) (*Game, error) {
	if !mb.IsGameModeValid(mode) {
		return nil, cerr.ErrInvalidGameMode(mode)
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game{
		uuid:     newGameUuid(),
		mode:     mode,
		rng:      rng,
		human:    mb.NewPlayer(sessionID, false, true),
		computer: mb.NewPlayer("", true, false),
	}
	if err := g.setupComputer(); err != nil {
		return nil, err
	}

	return g, nil
}

func newGameUuid() string {
	return internal.NewShortUuid(internal.GameUuidLength)
}

// A fresh fleet and a fresh targeting state for every match.
func (g *Game) setupComputer() error {
	board, err := mb.PlaceFleetRandomly(g.mode, g.rng)
	if err != nil {
		return err
	}

	ai, err := cp.NewComputer(board.Rows(), board.Columns(), cp.WithRand(g.rng))
	if err != nil {
		return err
	}

	g.computer.SetDefenceBoard(board)
	g.ai = ai
	return nil
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Mode() int {
	return g.mode
}

func (g *Game) HumanPlayer() *mb.Player {
	return g.human
}

func (g *Game) ComputerPlayer() *mb.Player {
	return g.computer
}

func (g *Game) IsFinished() bool {
	return g.isFinished
}

func (g *Game) FinishGame() {
	g.isFinished = true
}

func (g *Game) IsReadyToStart() bool {
	return g.human.IsReady() && g.computer.IsReady()
}

// Sets the defence grid of the human player. The grid is fixed
// for the whole match; only a rematch takes a new one.
func (g *Game) Ready(defenceGrid mb.Grid) error {
	if g.isFinished {
		return cerr.ErrGameAlreadyFinished(g.uuid)
	}
	if g.human.IsReady() {
		return cerr.ErrPlayerAlreadyReady(g.human.Uuid())
	}

	board, err := mb.NewBoardFromDefenceGrid(defenceGrid, g.mode)
	if err != nil {
		return err
	}

	g.human.SetDefenceBoard(board)
	return nil
}

func (g *Game) HumanAttack(x, y int) (AttackResult, error) {
	if err := g.checkAttack(g.human); err != nil {
		return AttackResult{}, err
	}

	target := mb.NewCoordinates(x, y)
	state, err := g.computer.DefenceBoard().Fire(target)
	if err != nil {
		return AttackResult{}, err
	}

	return g.afterAttack(g.human, g.computer, target, state), nil
}

// ComputerAttack lets the computer take its turn against the human
// defence board.
func (g *Game) ComputerAttack() (AttackResult, error) {
	if err := g.checkAttack(g.computer); err != nil {
		return AttackResult{}, err
	}

	shot, err := g.ai.TakeTurn(g.human.DefenceBoard())
	if err != nil {
		return AttackResult{}, fmt.Errorf("%s: %w", cerr.ConstErrComputerFailed, err)
	}

	return g.afterAttack(g.computer, g.human, shot.Coordinates, shot.PositionState), nil
}

func (g *Game) checkAttack(attacker *mb.Player) error {
	if g.isFinished {
		return cerr.ErrGameAlreadyFinished(g.uuid)
	}
	if !g.IsReadyToStart() {
		return cerr.ErrGameNotStarted(g.uuid)
	}
	if !attacker.IsTurn() {
		return cerr.ErrNotTurnForAttacker(attacker.Uuid())
	}
	return nil
}

func (g *Game) afterAttack(attacker, defender *mb.Player, target mb.Coordinates, state mb.PositionState) AttackResult {
	attacker.RecordShot(state)

	result := AttackResult{Coordinates: target, PositionState: state}
	if state == mb.PositionStateSunk {
		result.SunkShipCoordinates = slices.Clone(defender.DefenceBoard().ShipAt(target).Coordinates())
	}

	if defender.DefenceBoard().IsFleetSunk() {
		attacker.SetMatchStatusToWon()
		defender.SetMatchStatusToLost()
		g.FinishGame()
		return result
	}

	attacker.SetTurnFalse()
	defender.SetTurnTrue()
	return result
}

// Winner is WinnerNone until the game is finished.
func (g *Game) Winner() string {
	switch {
	case g.human.MatchStatus() == mb.PlayerMatchStatusWon:
		return WinnerHuman
	case g.computer.MatchStatus() == mb.PlayerMatchStatusWon:
		return WinnerComputer
	default:
		return WinnerNone
	}
}

// Reset prepares the game for a rematch. The human has to send a
// new defence grid; the computer gets a new fleet.
func (g *Game) Reset() error {
	g.human.Reset()
	g.computer.Reset()
	g.human.SetTurnTrue()
	g.computer.SetTurnFalse()

	if err := g.setupComputer(); err != nil {
		return err
	}

	g.isFinished = false
	return nil
}

// Exposed for the computer's view of the match in logs and tests.
func (g *Game) ComputerState() cp.State {
	return g.ai.State()
}
