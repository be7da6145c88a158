package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed   = "attack operation failed"
	ConstErrComputerFailed = "computer could not take its turn"
)

// Invariant breaches of the computer player. These mean the
// state upstream is inconsistent and the match cannot go on.
var (
	ErrNoShipsRemaining     = errors.New("no ships remaining on the target grid")
	ErrCandidatePoolEmpty   = errors.New("checkerboard candidate pool is empty")
	ErrNoWeightedCandidates = errors.New("every candidate has a zero placement score")
	ErrTargetBoxedIn        = errors.New("tracked hit is boxed in and no backup group is left")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrGameAlreadyFinished(gameUuid string) error {
	return fmt.Errorf("game is already finished, uuid: %s", gameUuid)
}

func ErrGameNotStarted(gameUuid string) error {
	return fmt.Errorf("game has not started yet, uuid: %s", gameUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("player with this uuid does not exist, uuid: %s", playerUuid)
}

func ErrPlayerAlreadyReady(playerUuid string) error {
	return fmt.Errorf("player already sent a defence grid for this match, uuid: %s", playerUuid)
}

func ErrNotTurnForAttacker(playerUuid string) error {
	return fmt.Errorf("not the turn of this player to attack, uuid: %s", playerUuid)
}

func ErrInvalidGameMode(mode int) error {
	return fmt.Errorf("invalid game mode: %d", mode)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id was not found, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("incoming x or y is out of game grid bound\tx: %d\ty: %d", x, y)
}

func ErrAttackPositionAlreadyFilled(x, y int) error {
	return fmt.Errorf("current position in grid already taken\tx: %d\ty: %d", x, y)
}

func ErrShipOverlap(x, y int) error {
	return fmt.Errorf("ship overlaps another ship\tx: %d\ty: %d", x, y)
}

func ErrDefenceGridInvalidSize(rows, columns int) error {
	return fmt.Errorf("defence grid must be %d rows by %d columns", rows, columns)
}

func ErrDefenceGridUnknownCode(code int) error {
	return fmt.Errorf("defence grid contains an unknown ship code: %d", code)
}

func ErrDefenceGridInvalidShip(code int) error {
	return fmt.Errorf("ship with code %d is not a straight line of its length", code)
}

func ErrFleetPlacementFailed(attempts int) error {
	return fmt.Errorf("could not place the fleet after %d attempts", attempts)
}
