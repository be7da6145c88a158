package connection

import (
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
)

type ReqCreateGame struct {
	GameMode int `json:"game_mode"`
}

type ReqReadyPlayer struct {
	GameUuid    string  `json:"game_uuid"`
	PlayerUuid  string  `json:"player_uuid"`
	DefenceGrid mb.Grid `json:"defence_grid"`
}

type ReqAttack struct {
	GameUuid   string `json:"game_uuid"`
	PlayerUuid string `json:"player_uuid"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
}
