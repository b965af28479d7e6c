// Package logging contains the singleton logger that unjar uses globally.
// It has nothing else in it since every other package depends on it.
package logging

import (
	"gopkg.in/op/go-logging.v1"
)

// Log is the process-wide logger.
var Log = logging.MustGetLogger("unjar")
