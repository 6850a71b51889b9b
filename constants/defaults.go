// Package constants defines application-wide defaults, timeouts and limits.
package constants

import "time"

// Default Values
const (
	// DefaultPort is the default HTTP server port
	DefaultPort = "50000"

	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"

	// DefaultLocale is the language filters format dates and change case for
	DefaultLocale = "en"

	// DefaultTimezone is the zone dates are parsed in and rendered for
	DefaultTimezone = "UTC"

	// AppVersion is the current application version
	AppVersion = "0.1.0"
)

// Rate limiting
const (
	// DefaultRateLimit is the number of filter requests a client may burst
	DefaultRateLimit = 60

	// RateLimitRefill is the time it takes to regain one request
	RateLimitRefill = time.Second

	// RateLimitCleanupInterval is how often idle buckets are collected
	RateLimitCleanupInterval = 5 * time.Minute

	// RateLimitStaleAfter is how long a bucket may stay idle before it is dropped
	RateLimitStaleAfter = 10 * time.Minute
)

// Pipeline limits
const (
	// MaxPipelineSteps bounds the number of filters in one pipeline request
	MaxPipelineSteps = 64
)
