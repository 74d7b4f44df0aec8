// Package server exposes the alignment pipeline over HTTP using Gin.
//
// Routes:
//
//   - POST /v1/align: label transcript segments with diarization turns
//   - GET /health: sidecar health aggregation
//   - GET /info: build information
//
// Every request passes through recovery, request ID, request logging and
// body size middleware (server/middleware); per-client rate limiting is
// enabled by server.rate_limit.
package server
