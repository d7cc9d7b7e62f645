package color

import (
	"github.com/fatih/color"
)

var (
	promptColor    = color.New(color.FgCyan, color.Bold)
	infoColor      = color.New(color.FgGreen)
	warningColor   = color.New(color.FgYellow, color.Bold)
	errorColor     = color.New(color.FgRed, color.Bold)
	userColor      = color.New(color.FgHiBlue)
	assistantColor = color.New(color.FgHiYellow, color.Bold)
)

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorWarning(s string) string {
	return warningColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

// ColorRole colours a speaker label by conversation role.
func ColorRole(role, s string) string {
	if role == "assistant" {
		return assistantColor.Sprint(s)
	}
	return userColor.Sprint(s)
}
