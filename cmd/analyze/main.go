// Command analyze plays seeded simulated games for each rule set in the configs
// directory and prints how long games last and how high the tiles get. The same
// seed always yields the same report, which makes rule set changes comparable.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"sort"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/tile-merge-game/game/config"
	"github.com/wricardo/tile-merge-game/game/engine"
)

// maxMovesPerGame caps a simulated game; real games end far earlier
const maxMovesPerGame = 100000

// Strategy picks the next direction from the directions that change the board
type Strategy func(grid *engine.Grid, possible []engine.Direction, rng *rand.Rand) engine.Direction

// cornerOrder keeps the big tiles in the bottom-left corner
var cornerOrder = []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up}

func cornerStrategy(grid *engine.Grid, possible []engine.Direction, rng *rand.Rand) engine.Direction {
	for _, dir := range cornerOrder {
		for _, p := range possible {
			if p == dir {
				return dir
			}
		}
	}
	return possible[0]
}

func randomStrategy(grid *engine.Grid, possible []engine.Direction, rng *rand.Rand) engine.Direction {
	return possible[rng.IntN(len(possible))]
}

var strategies = map[string]Strategy{
	"corner": cornerStrategy,
	"random": randomStrategy,
}

// GameStats is the outcome of one simulated game
type GameStats struct {
	Moves       int
	Merges      int
	HighestTile int
}

// Report aggregates the games played with one rule set
type Report struct {
	ConfigName   string
	Games        int
	TotalMoves   int
	TotalMerges  int
	BestTile     int
	Distribution map[int]int // highest tile -> number of games
}

// AverageMoves returns the mean game length
func (r *Report) AverageMoves() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.TotalMoves) / float64(r.Games)
}

// simulateGame plays one game to the end with the given strategy
func simulateGame(cfg *engine.GameConfig, seed uint64, strategy Strategy) (GameStats, error) {
	game, err := engine.NewEngine(cfg, engine.NewSeededRand(seed))
	if err != nil {
		return GameStats{}, err
	}
	// Separate stream for strategy choices so placements stay comparable across strategies
	choices := engine.NewSeededRand(^seed)

	var stats GameStats
	for stats.Moves < maxMovesPerGame && !game.IsGameOver() {
		grid := game.GetGrid()
		possible := grid.PossibleMoves()
		if len(possible) == 0 {
			break
		}

		turn := game.Move(strategy(&grid, possible, choices))
		stats.Moves++
		stats.Merges += engine.CountMerges(turn.Events)
	}

	grid := game.GetGrid()
	stats.HighestTile = grid.HighestTile()
	return stats, nil
}

// analyzeConfig plays games with consecutive seeds starting at seed
func analyzeConfig(cfg *engine.GameConfig, games int, seed uint64, strategy Strategy) (*Report, error) {
	report := &Report{
		ConfigName:   cfg.Name,
		Distribution: make(map[int]int),
	}

	for i := 0; i < games; i++ {
		stats, err := simulateGame(cfg, seed+uint64(i), strategy)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}
		report.Games++
		report.TotalMoves += stats.Moves
		report.TotalMerges += stats.Merges
		report.Distribution[stats.HighestTile]++
		if stats.HighestTile > report.BestTile {
			report.BestTile = stats.HighestTile
		}
	}

	return report, nil
}

func printReport(w io.Writer, id string, r *Report) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", id)
	fmt.Fprintf(w, "Name: %s\n", r.ConfigName)
	fmt.Fprintf(w, "Games: %d\n", r.Games)
	fmt.Fprintf(w, "Average moves: %.1f\n", r.AverageMoves())
	fmt.Fprintf(w, "Total merges: %d\n", r.TotalMerges)
	fmt.Fprintf(w, "Best tile: %d\n", r.BestTile)

	tiles := make([]int, 0, len(r.Distribution))
	for tile := range r.Distribution {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

	fmt.Fprintln(w, "Highest tile distribution:")
	for _, tile := range tiles {
		count := r.Distribution[tile]
		fmt.Fprintf(w, "  %5d: %d (%.0f%%)\n", tile, count, 100*float64(count)/float64(r.Games))
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "play seeded simulated games per rule set and report statistics",
		ArgsUsage: "[rule set ids...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "directory containing rule set files",
			},
			&cli.IntFlag{
				Name:  "games",
				Value: 20,
				Usage: "games to play per rule set",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "seed of the first game; game i uses seed+i",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Value: "corner",
				Usage: "move strategy: corner or random",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	strategy, ok := strategies[cmd.String("strategy")]
	if !ok {
		return cli.Exit(fmt.Sprintf("unknown strategy %q (use corner or random)", cmd.String("strategy")), 2)
	}

	games := cmd.Int("games")
	if games <= 0 {
		return cli.Exit("games must be positive", 2)
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			ids = append(ids, info.ConfigID)
		}
	}
	if len(ids) == 0 {
		return cli.Exit("no rule sets found", 1)
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		cfg, err := manager.LoadConfig(id)
		if err != nil {
			return fmt.Errorf("rule set %s: %w", id, err)
		}

		report, err := analyzeConfig(cfg, games, cmd.Uint64("seed"), strategy)
		if err != nil {
			return fmt.Errorf("rule set %s: %w", id, err)
		}
		printReport(cmd.Root().Writer, id, report)
	}

	return nil
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
