package connection

import (
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

type RespShip struct {
	Code   uint8 `json:"code"`
	Length int   `json:"length"`
}

type RespCreateGame struct {
	GameUuid   string     `json:"game_uuid"`
	PlayerUuid string     `json:"player_uuid"`
	Rows       int        `json:"rows"`
	Columns    int        `json:"columns"`
	Fleet      []RespShip `json:"fleet"`
}

func NewRespCreateGame(gameUuid, playerUuid string, mode int) RespCreateGame {
	size, fleet := mb.ModeSettings(mode)

	ships := make([]RespShip, 0, len(fleet))
	for _, code := range fleet {
		ships = append(ships, RespShip{Code: uint8(code), Length: mb.ShipLength(code)})
	}

	return RespCreateGame{
		GameUuid:   gameUuid,
		PlayerUuid: playerUuid,
		Rows:       size,
		Columns:    size,
		Fleet:      ships,
	}
}

// RespAttack reports one shot. With CodeAttack it is the human shot
// at the computer fleet, with CodeComputerAttack the computer shot
// at the human fleet.
type RespAttack struct {
	X                         int              `json:"x"`
	Y                         int              `json:"y"`
	PositionState             int              `json:"position_state"`
	IsTurn                    bool             `json:"is_turn"`
	DefenderSunkenShipsCoords []mb.Coordinates `json:"defender_sunken_ships_coords,omitempty"`
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespEndGame struct {
	PlayerMatchStatus int `json:"player_match_status"`
	ShotsFired        int `json:"shots_fired"`
	ComputerShots     int `json:"computer_shots"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}

// How the computer fared in one game mode, served on the stats route.
type RespModeStats struct {
	Matches       int64   `json:"matches"`
	ComputerWins  int64   `json:"computer_wins"`
	AvgShotsToWin float64 `json:"avg_shots_to_win"`
}

type RespComputerStats struct {
	Quick   RespModeStats `json:"quick"`
	Classic RespModeStats `json:"classic"`
}
