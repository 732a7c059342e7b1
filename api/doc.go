// Package api provides HTTP REST API handlers for the tile merge game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({config_id, seed})
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Full game state
//   - GET /api/sessions/{id}/board - Row-major board snapshot
//   - POST /api/sessions/{id}/move - Play one turn ({direction, reset})
//   - POST /api/sessions/{id}/bulk-move - Play up to 50 turns ({moves, reset})
//   - POST /api/sessions/{id}/reset - Start a fresh game
//   - GET /api/sessions/{id}/history - Paginated move history
//
// Configuration:
//   - GET /api/configs - List rule sets
//   - POST /api/configs - Save a rule set
//   - GET /api/configs/{name} - Get one rule set
//
// Every turn is pushed to WebSocket clients of the session (/ws?session=id)
// as a move event followed by a state_update.
//
// Errors are returned as JSON with a status derived from the error kind:
//
//	{"error": "session abcd: session not found"}
//
// Invalid directions and rule sets map to 400, missing sessions and rule sets
// to 404, anything else to 500.
package api
