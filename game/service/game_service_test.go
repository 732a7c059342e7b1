package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wricardo/tile-merge-game/game/engine"
	"github.com/wricardo/tile-merge-game/game/service"
	"github.com/wricardo/tile-merge-game/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig, seed uint64) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config, engine.NewSeededRand(seed))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		Seed:           seed,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %w", service.ErrNotFound)
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig, seed uint64) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config, seed)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %w", service.ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return fmt.Errorf("session %w", service.ErrNotFound)
}

func (m *MockSessionManager) LastAccessed(id string) (time.Time, error) {
	if session, exists := m.sessions[id]; exists {
		return session.LastAccessedAt, nil
	}
	return time.Time{}, fmt.Errorf("session %w", service.ErrNotFound)
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	// Only 2s spawn so turns are predictable
	defaultConfig := &engine.GameConfig{
		Name:            "test",
		Description:     "Test configuration",
		FourProbability: 0,
		StartTiles:      2,
	}
	defaultConfig.Messages.Welcome = "Welcome to test!"
	defaultConfig.Messages.Moved = "Moved %s"
	defaultConfig.Messages.NoMove = "Nothing moved"
	defaultConfig.Messages.GameOver = "Game over!"

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":    defaultConfig,
			"default": defaultConfig,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("configuration %w", service.ErrNotFound)
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	return []*service.ConfigInfo{{
		Filename:        "test.json",
		ConfigID:        "test",
		Name:            "test",
		Description:     "Test configuration",
		FourProbability: 0,
		StartTiles:      2,
	}}, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w configuration: %v", service.ErrInvalid, err)
	}
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager, *service.SessionInfo) {
	t.Helper()
	sessions := NewMockSessionManager()
	svc := service.NewGameService(sessions, NewMockConfigManager())

	seed := uint64(7)
	info, err := svc.CreateSession(context.Background(), service.CreateSessionOptions{ConfigName: "test", Seed: &seed})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, sessions, info
}

func gridFromRows(rows [engine.Size][engine.Size]int) engine.Grid {
	return engine.Grid(rows)
}

// lockedAfterRight is one slide away from a locked checkerboard
var lockedAfterRight = gridFromRows([engine.Size][engine.Size]int{
	{4, 2, 4, 0},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
})

var checkerboard = gridFromRows([engine.Size][engine.Size]int{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
})

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	tests := []struct {
		name       string
		configName string
		wantErr    error
	}{
		{name: "create with default config", configName: ""},
		{name: "create with specific config", configName: "test"},
		{name: "create with unknown config", configName: "nonexistent", wantErr: service.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, service.CreateSessionOptions{ConfigName: tt.configName})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.ConfigName != "test" {
				t.Errorf("Expected config id 'test', got %q", session.ConfigName)
			}
			if session.GameState.EmptyCells != engine.Cells-2 {
				t.Errorf("Expected two starting tiles, got %d empty cells", session.GameState.EmptyCells)
			}
		})
	}
}

func TestGameService_CreateSessionSeed(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	seed := uint64(1234)
	a, err := svc.CreateSession(ctx, service.CreateSessionOptions{Seed: &seed})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	b, err := svc.CreateSession(ctx, service.CreateSessionOptions{Seed: &seed})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if a.Seed != seed || b.Seed != seed {
		t.Errorf("Expected seed %d to be reported, got %d and %d", seed, a.Seed, b.Seed)
	}
	if a.GameState.Board != b.GameState.Board {
		t.Error("Sessions with equal seeds should start with equal boards")
	}

	info, err := svc.GetSession(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.Seed != seed {
		t.Errorf("GetSession lost the seed, got %d", info.Seed)
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions, info := newTestService(t)

	sessions.sessions[info.ID].Engine.SetGrid(gridFromRows([engine.Size][engine.Size]int{{2, 2, 0, 0}}))

	result, err := svc.Move(ctx, info.ID, "a", false)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Success || result.Direction != "left" {
		t.Errorf("Expected an effective left move, got %+v", result)
	}
	want := []engine.MoveEvent{{FromX: 1, FromY: 0, ToX: 0, ToY: 0, IsMerge: true}}
	if diff := cmp.Diff(want, result.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if result.Merges != 1 {
		t.Errorf("Expected 1 merge, got %d", result.Merges)
	}
	if result.Placement == nil || result.Placement.Value != 2 {
		t.Errorf("Expected a placed 2, got %+v", result.Placement)
	}
	if result.GameState.Board.At(0, 0) != 4 {
		t.Errorf("Expected 4 at (0,0), got %d", result.GameState.Board.At(0, 0))
	}

	t.Run("ineffective move", func(t *testing.T) {
		sessions.sessions[info.ID].Engine.SetGrid(gridFromRows([engine.Size][engine.Size]int{{2, 4, 8, 16}}))
		result, err := svc.Move(ctx, info.ID, "left", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Success || len(result.Events) != 0 || result.Placement != nil {
			t.Errorf("Expected a no-op move, got %+v", result)
		}
		if result.Message != "Nothing moved" {
			t.Errorf("Expected no-move message, got %q", result.Message)
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		before := sessions.sessions[info.ID].Engine.Snapshot()
		historyBefore := len(sessions.sessions[info.ID].Engine.GetMoveHistory())

		_, err := svc.Move(ctx, info.ID, "diagonal", false)
		if !errors.Is(err, engine.ErrInvalidDirection) {
			t.Errorf("Expected ErrInvalidDirection, got %v", err)
		}
		if sessions.sessions[info.ID].Engine.Snapshot() != before {
			t.Error("Rejected direction must not touch the board")
		}
		if len(sessions.sessions[info.ID].Engine.GetMoveHistory()) != historyBefore {
			t.Error("Rejected direction must not be recorded")
		}
	})

	t.Run("invalid session", func(t *testing.T) {
		_, err := svc.Move(ctx, "nonexistent", "up", false)
		if !errors.Is(err, service.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("move with reset", func(t *testing.T) {
		sessions.sessions[info.ID].Engine.SetGrid(checkerboard)
		result, err := svc.Move(ctx, info.ID, "up", true)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if !result.WasReset {
			t.Error("Expected was_reset to be set")
		}
		if result.GameOver {
			t.Error("Reset should have started a fresh game")
		}
		if result.GameState.CurrentMovesCount != 1 {
			t.Errorf("Expected one move in the fresh segment, got %d", result.GameState.CurrentMovesCount)
		}
	})
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()

	t.Run("plays every move and records ineffective ones", func(t *testing.T) {
		svc, sessions, info := newTestService(t)
		sessions.sessions[info.ID].Engine.SetGrid(gridFromRows([engine.Size][engine.Size]int{{2, 2, 0, 0}}))

		result, err := svc.BulkMove(ctx, info.ID, []string{"left", "left", "up"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.RequestedMoves != 3 || result.MovesExecuted != 3 || len(result.Steps) != 3 {
			t.Fatalf("Expected 3 executed steps, got %+v", result)
		}
		if !result.Steps[0].Moved || result.Steps[0].Merges != 1 || result.TotalMerges < 1 {
			t.Errorf("Unexpected first step: %+v", result.Steps[0])
		}
		if result.StartHighest != 2 || result.EndHighest < 4 {
			t.Errorf("Unexpected highest tiles: start=%d end=%d", result.StartHighest, result.EndHighest)
		}
		if result.EffectiveMoves > result.MovesExecuted {
			t.Errorf("Effective moves %d exceed executed %d", result.EffectiveMoves, result.MovesExecuted)
		}
		if !result.Success || result.StopReasonCode != "" {
			t.Errorf("Expected an uninterrupted batch, got code=%q", result.StopReasonCode)
		}
	})

	t.Run("validates all moves first", func(t *testing.T) {
		svc, sessions, info := newTestService(t)
		before := sessions.sessions[info.ID].Engine.Snapshot()

		_, err := svc.BulkMove(ctx, info.ID, []string{"left", "sideways", "up"}, false)
		if !errors.Is(err, engine.ErrInvalidDirection) {
			t.Fatalf("Expected ErrInvalidDirection, got %v", err)
		}
		if sessions.sessions[info.ID].Engine.Snapshot() != before {
			t.Error("A rejected batch must not play any move")
		}
	})

	t.Run("empty moves", func(t *testing.T) {
		svc, _, info := newTestService(t)
		_, err := svc.BulkMove(ctx, info.ID, []string{}, false)
		if !errors.Is(err, service.ErrInvalid) {
			t.Errorf("Expected ErrInvalid, got %v", err)
		}
	})

	t.Run("invalid session", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.BulkMove(ctx, "nonexistent", []string{"up"}, false)
		if !errors.Is(err, service.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("stops at game over", func(t *testing.T) {
		svc, sessions, info := newTestService(t)
		sessions.sessions[info.ID].Engine.SetGrid(lockedAfterRight)

		result, err := svc.BulkMove(ctx, info.ID, []string{"right", "left", "up"}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.MovesExecuted != 1 {
			t.Errorf("Expected 1 executed move, got %d", result.MovesExecuted)
		}
		if result.StopReasonCode != "game_over" || result.StoppedOnMove != 2 {
			t.Errorf("Expected stop at move 2 with game_over, got code=%q on=%d", result.StopReasonCode, result.StoppedOnMove)
		}
		if !result.GameOver || !result.Steps[0].GameOver {
			t.Error("Expected the game to be over")
		}
		if len(result.PossibleMoves) != 0 {
			t.Errorf("Expected no possible moves, got %v", result.PossibleMoves)
		}
	})

	t.Run("reset revives a finished game", func(t *testing.T) {
		svc, sessions, info := newTestService(t)
		sessions.sessions[info.ID].Engine.SetGrid(checkerboard)

		result, err := svc.BulkMove(ctx, info.ID, []string{"up", "down"}, true)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.WasReset || result.MovesExecuted != 2 {
			t.Errorf("Expected both moves after reset, got %+v", result)
		}
	})

	t.Run("truncates long batches", func(t *testing.T) {
		svc, _, info := newTestService(t)
		moves := make([]string, engine.MaxBulkMoves+10)
		for i := range moves {
			moves[i] = []string{"left", "up", "right", "down"}[i%4]
		}

		result, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkMoves {
			t.Errorf("Expected truncation at %d, got truncated=%v limit=%d", engine.MaxBulkMoves, result.Truncated, result.Limit)
		}
		if result.RequestedMoves != len(moves) {
			t.Errorf("Expected requested_moves %d, got %d", len(moves), result.RequestedMoves)
		}
		if result.MovesExecuted > engine.MaxBulkMoves || result.MovesExecuted != len(result.Steps) {
			t.Errorf("Executed %d moves with %d steps", result.MovesExecuted, len(result.Steps))
		}
	})
}

func TestGameService_GetBoard(t *testing.T) {
	ctx := context.Background()
	svc, sessions, info := newTestService(t)

	board, err := svc.GetBoard(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}
	if board != sessions.sessions[info.ID].Engine.Snapshot() {
		t.Error("GetBoard should return the engine snapshot")
	}

	if _, err := svc.GetBoard(ctx, "nonexistent"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, info := newTestService(t)

	if _, err := svc.BulkMove(ctx, info.ID, []string{"up", "right", "down", "left"}, false); err != nil {
		t.Fatalf("Failed to make moves: %v", err)
	}

	tests := []struct {
		name          string
		opts          service.HistoryOptions
		wantMoves     int
		wantFirstMove int
		wantPages     int
		wantNext      bool
	}{
		{
			name:          "default options are newest first",
			opts:          service.HistoryOptions{},
			wantMoves:     4,
			wantFirstMove: 4,
			wantPages:     1,
		},
		{
			name:          "ascending with pagination",
			opts:          service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"},
			wantMoves:     2,
			wantFirstMove: 1,
			wantPages:     2,
			wantNext:      true,
		},
		{
			name:          "second descending page",
			opts:          service.HistoryOptions{Page: 2, Limit: 3, Order: "desc"},
			wantMoves:     1,
			wantFirstMove: 1,
			wantPages:     2,
		},
		{
			name:      "page past the end",
			opts:      service.HistoryOptions{Page: 5, Limit: 2},
			wantMoves: 0,
			wantPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory() error = %v", err)
			}
			if result.Moves == nil {
				t.Fatal("GetMoveHistory() returned nil moves slice")
			}
			if len(result.Moves) != tt.wantMoves {
				t.Fatalf("Expected %d moves, got %d", tt.wantMoves, len(result.Moves))
			}
			if tt.wantMoves > 0 && result.Moves[0].MoveNumber != tt.wantFirstMove {
				t.Errorf("Expected first move number %d, got %d", tt.wantFirstMove, result.Moves[0].MoveNumber)
			}
			if result.TotalMoves != 4 || result.TotalPages != tt.wantPages || result.HasNext != tt.wantNext {
				t.Errorf("Unexpected paging: total=%d pages=%d next=%v", result.TotalMoves, result.TotalPages, result.HasNext)
			}
		})
	}

	if _, err := svc.GetMoveHistory(ctx, "nonexistent", service.HistoryOptions{}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, service.CreateSessionOptions{ConfigName: "test"})
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
	if err := svc.DeleteSession(ctx, ids[0]); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, sessions, info := newTestService(t)

	if _, err := svc.Move(ctx, info.ID, "up", false); err != nil {
		t.Fatalf("Failed to move: %v", err)
	}
	sessions.sessions[info.ID].Engine.SetGrid(checkerboard)

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if state.GameOver {
		t.Error("Reset should start a playable game")
	}
	if state.EmptyCells != engine.Cells-2 {
		t.Errorf("Expected two tiles after reset, got %d empty cells", state.EmptyCells)
	}
	if state.TotalMoves != 1 || state.CurrentMovesCount != 0 {
		t.Errorf("Expected cumulative history kept and segment cleared, got total=%d current=%d", state.TotalMoves, state.CurrentMovesCount)
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 1 || configs[0].ConfigID != "test" {
		t.Errorf("Unexpected configs: %v, %v", configs, err)
	}

	if _, err := svc.LoadConfig(ctx, "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	bad := &engine.GameConfig{Name: "bad"}
	if err := svc.SaveConfig(ctx, "bad", bad); !errors.Is(err, service.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
	if err := svc.SaveConfig(ctx, "good", engine.DefaultConfig()); err != nil {
		t.Errorf("SaveConfig failed: %v", err)
	}
}

// Reads touch the access time; run with -race to catch unsynchronized access
func TestGameService_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(), NewMockConfigManager())

	info, err := svc.CreateSession(ctx, service.CreateSessionOptions{ConfigName: "test"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got, err := svc.GetSession(ctx, info.ID)
				if err != nil {
					errs <- err
					return
				}
				if got.LastAccessedAt.Before(info.CreatedAt) {
					errs <- fmt.Errorf("last access %v before creation %v", got.LastAccessedAt, info.CreatedAt)
					return
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
					return
				}
				if _, err := svc.GetBoard(ctx, info.ID); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
