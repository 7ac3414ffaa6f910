// Package server exposes the scanner over HTTP.
//
// Routes:
//
//	POST /api/v1/scan              scan one {url, content} pair
//	POST /api/v1/scan/batch        scan a JSON array of pairs
//	GET  /api/v1/history/{domain}  list stored scans of a domain
//	GET  /healthz                  liveness and dataset size
//	GET  /metrics                  Prometheus metrics
//
// Request bodies are capped and rejected with 400 and a JSON
// {"error": "..."} body when they cannot be decoded.
package server
