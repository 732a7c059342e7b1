// Package websocket pushes game updates to renderers over WebSocket.
//
// A central Hub owns the set of connected clients, grouped by session. Its Run
// loop is the only goroutine touching the registry; registration, removal and
// broadcasts reach it through channels. Each client has a read pump (keepalive
// only, incoming frames are ignored) and a write pump.
//
// Message Protocol:
//
// Every frame is one JSON Message:
//   - {"session_id": "ab12", "event": "move", "data": MoveData} after each turn,
//     carrying the ordered move events and the placed tile so a renderer can
//     animate exactly what happened
//   - {"session_id": "ab12", "event": "state_update", "game_state": {...}}
//     with the resulting state
//
// Clients pick their session with the ?session= query parameter.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastMove(sessionID, websocket.MoveData{Events: turn.Events})
package websocket
