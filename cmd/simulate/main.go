// Command simulate plays the computer against randomly placed fleets
// and reports how many shots it needs to sink them.
package main

import (
	"flag"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	mb "github.com/saeidalz13/battleship-computer/models/battleship"
	cp "github.com/saeidalz13/battleship-computer/models/computer"
)

type simResult struct {
	shots int
	err   error
}

// playOne lets the computer fire until the fleet is sunk and returns
// the number of shots it took.
func playOne(mode int, rng *rand.Rand) (int, error) {
	board, err := mb.PlaceFleetRandomly(mode, rng)
	if err != nil {
		return 0, err
	}

	computer, err := cp.NewComputer(board.Rows(), board.Columns(), cp.WithRand(rng))
	if err != nil {
		return 0, err
	}

	shots := 0
	for !board.IsFleetSunk() {
		if _, err := computer.TakeTurn(board); err != nil {
			return shots, err
		}
		shots++
	}
	return shots, nil
}

func worker(mode int, seed uint64, games <-chan uint64, results chan<- simResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for game := range games {
		shots, err := playOne(mode, rand.New(rand.NewPCG(seed, game)))
		results <- simResult{shots: shots, err: err}
	}
}

func main() {
	games := flag.Int("games", 1000, "number of games to play")
	mode := flag.Int("mode", mb.GameModeClassic, "game mode, 0 quick and 1 classic")
	seed := flag.Uint64("seed", rand.Uint64(), "seed of the first game")
	workers := flag.Int("workers", runtime.NumCPU(), "number of workers")
	flag.Parse()

	if !mb.IsGameModeValid(*mode) || *games <= 0 || *workers <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.Info("simulating", "games", *games, "mode", *mode, "seed", *seed, "workers", *workers)

	tasks := make(chan uint64, *games)
	results := make(chan simResult, *games)

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go worker(*mode, *seed, tasks, results, &wg)
	}

	for i := 0; i < *games; i++ {
		tasks <- uint64(i)
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		total, played, failed int
		minShots              = math.MaxInt
		maxShots              int
	)
	for result := range results {
		if result.err != nil {
			failed++
			log.Error("game failed", "shots", result.shots, "err", result.err)
			continue
		}

		played++
		total += result.shots
		minShots = min(minShots, result.shots)
		maxShots = max(maxShots, result.shots)
	}

	if played == 0 {
		log.Fatal("no game finished", "failed", failed)
	}
	log.Info("done",
		"played", played,
		"failed", failed,
		"avg", float64(total)/float64(played),
		"min", minShots,
		"max", maxShots,
	)
}
