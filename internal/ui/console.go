// Package ui renders the interactive console output: the banner, live
// progress lines and found-match blocks.
package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"ethvanity/pkg/worker"
)

var (
	green   = color.New(color.FgGreen, color.Bold)
	yellow  = color.New(color.FgYellow, color.Bold)
	cyan    = color.New(color.FgCyan)
	red     = color.New(color.FgRed)
	bold    = color.New(color.Bold)
	magenta = color.New(color.FgMagenta, color.Bold)
	dim     = color.New(color.Faint)
)

const logoASCII = `
███████╗████████╗██╗  ██╗██╗   ██╗ █████╗ ███╗  ██╗██╗████████╗██╗   ██╗
██╔════╝╚══██╔══╝██║  ██║██║   ██║██╔══██╗████╗ ██║██║╚══██╔══╝╚██╗ ██╔╝
█████╗     ██║   ███████║╚██╗ ██╔╝███████║██╔██╗██║██║   ██║    ╚████╔╝
██╔══╝     ██║   ██╔══██║ ╚████╔╝ ██╔══██║██║╚████║██║   ██║     ╚██╔╝
███████╗   ██║   ██║  ██║  ╚██╔╝  ██║  ██║██║ ╚███║██║   ██║      ██║
╚══════╝   ╚═╝   ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚══╝╚═╝   ╚═╝      ╚═╝
`

// PrintBanner prints the startup logo and version line.
func PrintBanner(version string) {
	magenta.Print(logoASCII)
	bold.Printf("ethvanity v%s\n\n", version)
}

// PrintSearchInfo prints the search configuration before mining starts.
func PrintSearchInfo(target, mode, difficulty string, workers int, gpu bool) {
	bold.Print("Searching  ")
	cyan.Println(target)
	fmt.Printf("  mode:       %s\n", mode)
	fmt.Printf("  difficulty: %s\n", difficulty)
	if gpu {
		fmt.Printf("  workers:    %d CPU + GPU\n", workers)
	} else {
		fmt.Printf("  workers:    %d CPU\n", workers)
	}
	fmt.Println()
}

// PrintProgress prints a single live progress line. Carriage return keeps it
// on one terminal row.
func PrintProgress(tested uint64, perSecond float64, elapsed time.Duration, found, target int) {
	fmt.Printf("\r  %s tested  |  %s/s  |  %s elapsed  |  %d/%d found   ",
		FormatNumber(tested), FormatNumber(uint64(perSecond)), FormatDuration(elapsed), found, target)
}

// PrintMatch prints a found key block. For counter-based searches the secret
// is a salt nonce and is also shown in decimal, the form CREATE2 deployment
// scripts usually take.
func PrintMatch(n int, rec worker.FoundRecord) {
	fmt.Println()
	green.Printf("=== Match #%d ===\n", n)
	bold.Print("  address:    ")
	cyan.Println(rec.Address.Checksum())
	if rec.NonceSecret {
		bold.Print("  salt nonce: ")
		fmt.Println("0x" + rec.SecretHex())
		bold.Print("  (decimal):  ")
		fmt.Println(rec.SecretDecimal())
	} else {
		bold.Print("  private key: ")
		yellow.Println("0x" + rec.SecretHex())
		dim.Println("  keep this key secret; anyone holding it controls the address")
	}
	fmt.Printf("  worker:     %d\n", rec.WorkerID)
	fmt.Println()
}

// PrintOutcome prints why the search ended.
func PrintOutcome(interrupted bool) {
	fmt.Println()
	if interrupted {
		yellow.Println("Stopped by user.")
	} else {
		green.Println("Target reached!")
	}
}

// PrintSummary prints the final statistics after the search stops.
func PrintSummary(tested uint64, elapsed time.Duration, found int) {
	fmt.Printf("  tested:  %s addresses\n", FormatNumber(tested))
	fmt.Printf("  elapsed: %s\n", FormatDuration(elapsed))
	fmt.Printf("  found:   %d\n", found)
}

// PrintError prints an error line to the console.
func PrintError(err error) {
	red.Printf("error: %v\n", err)
}

// FormatNumber renders a count with K/M/B suffixes for readability.
func FormatNumber(n uint64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FormatDuration renders an elapsed time as h/m/s with whole seconds.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
