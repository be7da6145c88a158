package battleship

import (
	"github.com/saeidalz13/battleship-computer/internal"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type Player struct {
	uuid        string
	sessionID   string
	isComputer  bool
	isTurn      bool
	matchStatus int
	shotsFired  int
	shotsHit    int
	defence     *Board
}

func NewPlayer(sessionID string, isComputer, isTurn bool) *Player {
	return &Player{
		uuid:        internal.NewShortUuid(internal.PlayerUuidLength),
		sessionID:   sessionID,
		isComputer:  isComputer,
		isTurn:      isTurn,
		matchStatus: PlayerMatchStatusUndefined,
	}
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) SessionId() string {
	return p.sessionID
}

func (p *Player) IsComputer() bool {
	return p.isComputer
}

func (p *Player) IsTurn() bool {
	return p.isTurn
}

func (p *Player) SetTurnTrue() {
	p.isTurn = true
}

func (p *Player) SetTurnFalse() {
	p.isTurn = false
}

func (p *Player) DefenceBoard() *Board {
	return p.defence
}

func (p *Player) SetDefenceBoard(board *Board) {
	p.defence = board
}

func (p *Player) IsReady() bool {
	return p.defence != nil
}

// Records the outcome of a shot this player fired.
func (p *Player) RecordShot(state PositionState) {
	p.shotsFired++
	if state == PositionStateHit || state == PositionStateSunk {
		p.shotsHit++
	}
}

func (p *Player) ShotsFired() int {
	return p.shotsFired
}

func (p *Player) ShotsHit() int {
	return p.shotsHit
}

func (p *Player) MatchStatus() int {
	return p.matchStatus
}

func (p *Player) SetMatchStatusToLost() {
	p.matchStatus = PlayerMatchStatusLost
}

func (p *Player) SetMatchStatusToWon() {
	p.matchStatus = PlayerMatchStatusWon
}

func (p *Player) IsMatchOver() bool {
	return p.matchStatus != PlayerMatchStatusUndefined
}

// Clears the board, counters and status for a rematch
func (p *Player) Reset() {
	p.defence = nil
	p.shotsFired = 0
	p.shotsHit = 0
	p.matchStatus = PlayerMatchStatusUndefined
}
