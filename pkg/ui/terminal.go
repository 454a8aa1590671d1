// Package ui holds the terminal presentation layer: colored status lines
// and rendering of resolved records and run summaries.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const ASCIILogo = `
 ╔════════════════════════════════════════════════╗
 ║ ████████╗ ██████╗ ██╗  ██╗███████╗ ██████╗██████╗  ║
 ║ ╚══██╔══╝██╔═══██╗██║ ██╔╝██╔════╝██╔════╝██╔══██╗ ║
 ║    ██║   ██║   ██║█████╔╝ ███████╗██║     ██████╔╝ ║
 ║    ██║   ██║   ██║██╔═██╗ ╚════██║██║     ██╔══██╗ ║
 ║    ██║   ╚██████╔╝██║  ██╗███████║╚██████╗██║  ██║ ║
 ║    ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝ ║
 ╚════════════════════════════════════════════════╝
`

var (
	cyan    = color.New(color.FgCyan).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
)

// Quiet suppresses all decorative output when true
var Quiet bool

// PrintLogo prints the startup banner
func PrintLogo() {
	if Quiet {
		return
	}
	fmt.Print(cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(red(msg + ": " + fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Println(red(msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if Quiet {
		return
	}
	fmt.Println(green(msg))
}

// PrintInfo prints a labeled value line
func PrintInfo(label, value string) {
	if Quiet {
		return
	}
	fmt.Printf("%s: %s\n", cyan(label), yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if Quiet {
		return
	}
	if len(args) > 0 {
		fmt.Println(yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
		return
	}
	fmt.Println(yellow(msg))
}

// PrintHeader prints a section divider with a title
func PrintHeader(title string) {
	if Quiet {
		return
	}
	fmt.Println(magenta("── " + title + " " + strings.Repeat("─", max(0, 40-len(title)))))
}

// PrintDim prints secondary detail text
func PrintDim(msg string) {
	if Quiet {
		return
	}
	fmt.Println(dim(msg))
}
