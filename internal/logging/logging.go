package logging

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

const prefix = "showsearch: "

// Configure routes the std logger into a rotating file at path, so nothing
// is written over the TUI. Close the result to release the file.
func Configure(path string) io.Closer {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     14,
	}
	log.SetOutput(out)
	log.SetPrefix(prefix)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lmsgprefix)
	return out
}
