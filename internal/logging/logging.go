package logging

import (
	"io"
	"log"
	"os"
)

// EnvDebug enables debug logging when set to any non-empty value.
const EnvDebug = "SIZESCOPE_DEBUG"

var (
	Debug   *log.Logger
	Scanner *log.Logger
	API     *log.Logger
	Enabled bool
)

func init() {
	// Only enable logging if SIZESCOPE_DEBUG is set
	if os.Getenv(EnvDebug) == "" {
		Debug = log.New(io.Discard, "", 0)
		Scanner = log.New(io.Discard, "", 0)
		API = log.New(io.Discard, "", 0)
		Enabled = false
		return
	}

	Enabled = true

	// One file shared by all loggers
	debugFile, err := os.OpenFile("sizescope-debug.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Debug = log.New(os.Stderr, "[DEBUG] ", log.Ldate|log.Ltime)
		Scanner = log.New(os.Stderr, "[SCANNER] ", log.Ldate|log.Ltime)
		API = log.New(os.Stderr, "[API] ", log.Ldate|log.Ltime)
		return
	}

	Debug = log.New(debugFile, "[debug] ", log.Lmicroseconds)
	Scanner = log.New(debugFile, "[scanner] ", log.Lmicroseconds)
	API = log.New(debugFile, "[api] ", log.Lmicroseconds)
}

// SetOutput redirects every logger to w and enables logging.
// Used by the CLI --debug flag.
func SetOutput(w io.Writer) {
	Enabled = true
	Debug = log.New(w, "[debug] ", log.Lmicroseconds)
	Scanner = log.New(w, "[scanner] ", log.Lmicroseconds)
	API = log.New(w, "[api] ", log.Lmicroseconds)
}
