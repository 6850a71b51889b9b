package constants

import "time"

// HTTP Configuration
const (
	// MaxBodySize is the maximum size of a filter request body (1 MB)
	MaxBodySize = 1 << 20

	// MaxHeaderBytes is the maximum size for HTTP headers (1 MB)
	MaxHeaderBytes = 1 << 20
)

// Server Timeouts
const (
	// ServerReadTimeout is the maximum duration for reading the entire request
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration before timing out writes of the response
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum amount of time to wait for the next request
	ServerIdleTimeout = 120 * time.Second

	// ServerReadHeaderTimeout is the amount of time allowed to read request headers
	ServerReadHeaderTimeout = 5 * time.Second

	// ShutdownTimeout bounds the graceful shutdown
	ShutdownTimeout = 30 * time.Second
)
