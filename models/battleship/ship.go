package battleship

type ShipCode uint8

const (
	ShipCodeDestroyer ShipCode = iota + 1
	ShipCodeSubmarine
	ShipCodeCruiser
	ShipCodeBattleship
	ShipCodeCarrier
)

var shipLengths = map[ShipCode]int{
	ShipCodeDestroyer:  2,
	ShipCodeSubmarine:  3,
	ShipCodeCruiser:    3,
	ShipCodeBattleship: 4,
	ShipCodeCarrier:    5,
}

func IsShipCodeValid(code ShipCode) bool {
	_, ok := shipLengths[code]
	return ok
}

func ShipLength(code ShipCode) int {
	return shipLengths[code]
}

type Ship struct {
	code        ShipCode
	length      int
	hits        int
	coordinates []Coordinates
}

func NewShip(code ShipCode) *Ship {
	length := ShipLength(code)
	return &Ship{
		code:        code,
		length:      length,
		coordinates: make([]Coordinates, 0, length),
	}
}

func (sh *Ship) Code() ShipCode {
	return sh.code
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) GotHit() {
	sh.hits++
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == sh.length
}

func (sh *Ship) Coordinates() []Coordinates {
	return sh.coordinates
}
