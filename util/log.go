package util

import "github.com/hauke96/sigolo/v2"

// LogFatalBug logs the message and exits. Only use it for states the parser itself must never reach, never for
// invalid user input.
func LogFatalBug(format string, args ...interface{}) {
	sigolo.Fatalb(1, format+" - This is a bug in docql, please report it.", args...)
}
