package battleship

const (
	GameModeQuick int = iota
	GameModeClassic
)

const (
	GridSizeQuick   int = 6
	GridSizeClassic int = 10
)

type Fleet []ShipCode

var (
	FleetQuick   = Fleet{ShipCodeDestroyer, ShipCodeCruiser, ShipCodeBattleship}
	FleetClassic = Fleet{ShipCodeDestroyer, ShipCodeSubmarine, ShipCodeCruiser, ShipCodeBattleship, ShipCodeCarrier}
)

// Has reports whether a defence grid cell value is a ship of the fleet.
func (f Fleet) Has(code int) bool {
	for _, sc := range f {
		if int(sc) == code {
			return true
		}
	}
	return false
}

// Total number of cells the fleet covers
func (f Fleet) Cells() int {
	cells := 0
	for _, sc := range f {
		cells += ShipLength(sc)
	}
	return cells
}

func IsGameModeValid(mode int) bool {
	return mode == GameModeQuick || mode == GameModeClassic
}

// Returns the square grid size and the fleet of a mode.
// Invalid modes fall back to quick.
func ModeSettings(mode int) (int, Fleet) {
	if mode == GameModeClassic {
		return GridSizeClassic, FleetClassic
	}
	return GridSizeQuick, FleetQuick
}
