package internal

import (
	"io"
	"log"
	"os"
)

// LogPrefix marks every log line of the game
const LogPrefix = "metropac "

// InitLogging sends the standard logger to stdout with microsecond timestamps
func InitLogging() {
	InitLoggingTo(os.Stdout)
}

// InitLoggingTo is InitLogging with a custom destination
func InitLoggingTo(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix(LogPrefix)
}
