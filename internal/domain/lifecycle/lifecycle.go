// Package lifecycle holds shared constants for component start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds start and shutdown work done in fx hooks.
const DefaultTimeout = 10 * time.Second
