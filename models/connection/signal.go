package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodeSelectGrid
	CodeReady
	CodeStartGame
	CodeAttack

	// The computer fired back; sent right after the
	// response to a human attack
	CodeComputerAttack
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Ask the server for a rematch against a fresh computer fleet
	CodeRematchCall
)
