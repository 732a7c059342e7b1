// Package mcp exposes the tile merge game to Model Context Protocol clients.
//
// The Client registers one MCP tool per game operation and proxies every call
// to the REST API, so the MCP surface and the HTTP surface always agree:
//   - create_session, list_sessions, get_session
//   - game_state, move, bulk_move, reset_game, move_history
//   - list_configs, game_instructions, describe_cell
//
// Results are rendered as text: the board as four aligned rows ("." for an
// empty cell), followed by the move events of the turn and the placed tile.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
