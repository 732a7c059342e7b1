// Package engine provides the core game logic for the tile merge game.
//
// The engine package implements the game mechanics including:
//   - The 4x4 grid and the directional slide/merge algorithm
//   - Move events describing every tile that moved or merged
//   - Seeded random tile placement
//   - Game-over detection and move history
//   - Rule set loading and validation
//
// Core Types:
//
// Grid is the tile matrix and carries the primitive operations: MergeAll,
// PlaceRandom, Snapshot and Initialize. GameEngine wraps a Grid with a rule
// set, a random source and history, and plays whole turns through Move.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.NewSeededRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	turn := gameEngine.Move(engine.Left)
//	for _, ev := range turn.Events {
//		fmt.Println(ev.FromX, ev.FromY, "->", ev.ToX, ev.ToY, ev.IsMerge)
//	}
//
// Game Rules:
//
// Every move slides all tiles toward one edge. Two equal tiles that meet merge
// into one tile of double value; a tile produced by a merge does not merge
// again in the same move. When anything moved a new tile (2, or 4 with the
// rule set's probability) appears on a random empty cell. The game is over
// when the board is full and no move changes it.
package engine
