package colors

// Color is an ANSI SGR code.
type Color int

// ANSI codes used to colorize log output.
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
const (
	RED    Color = 31
	GREEN  Color = 32
	YELLOW Color = 33
	BLUE   Color = 34
	CYAN   Color = 36
	BOLD   Color = 1
)

// LEFT_ARROW is the glyph printed in place of the "info" level on console
const LEFT_ARROW = "⇾"
