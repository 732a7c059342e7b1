// Package service provides the business logic layer for the tile merge game.
//
// The service package implements:
//   - Multi-session game management
//   - Direction parsing at the boundary
//   - Single and bulk move processing
//   - Move history pagination
//   - Rule set access
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule set loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Engines are not safe for concurrent use, so every call goes
// through one service lock: mutations take it exclusively, reads share it.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionOptions{ConfigName: "easy"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "left", false)
//	// result.Events lists every tile that slid or merged
//
// Errors:
//
// Lookups that miss wrap ErrNotFound and rejected input wraps ErrInvalid or
// engine.ErrInvalidDirection, so transports can map them with errors.Is.
package service
