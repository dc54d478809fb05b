package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init installs the default logger used by the game and the CLI.
func Init(level string, noColor bool) {
	Setup(os.Stderr, level, noColor)
}

// Setup is Init with an explicit writer.
func Setup(w io.Writer, level string, noColor bool) {
	log.SetDefault(log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Prefix:          "DANMAKU",
	}))
	log.SetLevel(ParseLevel(level))

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}

// ParseLevel maps a config level name to a log level. Unknown names fall
// back to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
