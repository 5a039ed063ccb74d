package server

import "fmt"

const (
	// Standard colors
	Black   = "\033[30m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

var methodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// logRoute prints a method-coloured route line for dev consoles.
func logRoute(method, path string) {
	display := method
	if color, ok := methodColors[method]; ok {
		display = color + fmt.Sprintf("%-7s", method) + ResetColor
	}
	fmt.Println("["+display+"]", path)
}
