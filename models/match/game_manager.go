package match

import (
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	cerr "github.com/saeidalz13/battleship-computer/internal/error"
)

type GameManager interface {
	CreateGame(mode int, sessionID string) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	Count() int
}

type BattleshipGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex

	// seeded managers give every game its own reproducible stream
	seeded  bool
	seed    uint64
	created uint64
}

var _ GameManager = (*BattleshipGameManager)(nil)

type Option func(*BattleshipGameManager)

// WithSeed makes the computer fleets and shots reproducible.
func WithSeed(seed uint64) Option {
	return func(bgm *BattleshipGameManager) {
		bgm.seeded = true
		bgm.seed = seed
	}
}

func NewBattleshipGameManager(opts ...Option) *BattleshipGameManager {
	bgm := &BattleshipGameManager{
		games: make(map[string]*Game, 10),
	}
	for _, opt := range opts {
		opt(bgm)
	}
	return bgm
}

func (bgm *BattleshipGameManager) CreateGame(mode int, sessionID string) (*Game, error) {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	game, err := NewGame(mode, sessionID, bgm.newRand())
	if err != nil {
		return nil, err
	}

	// short uuids can collide
	for {
		if _, prs := bgm.games[game.uuid]; !prs {
			break
		}
		game.uuid = newGameUuid()
	}

	bgm.games[game.uuid] = game
	log.Debug("game created", "game", game.uuid, "mode", mode)
	return game, nil
}

func (bgm *BattleshipGameManager) newRand() *rand.Rand {
	bgm.created++
	if bgm.seeded {
		return rand.New(rand.NewPCG(bgm.seed, bgm.created))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) Count() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
