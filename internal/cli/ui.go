package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Palette. The node colours of the scenes (blue, yellow, green) are echoed
// here so terminal output reads like the animation.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight renders scene names and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleSuccess renders success markers.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// status is one kind of single-line message.
type status struct {
	icon  string
	style lipgloss.Style
	body  lipgloss.Style // applied to the message
}

var (
	plain = lipgloss.NewStyle()

	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen), plain}
	statusError   = status{"✗", lipgloss.NewStyle().Foreground(colorRed), plain}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorYellow), lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray), plain}
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

func (s status) print(format string, args ...any) {
	fmt.Println(s.style.Render(s.icon) + " " + s.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { statusSuccess.print(format, args...) }
func printError(format string, args ...any)   { statusError.print(format, args...) }
func printWarning(format string, args ...any) { statusWarning.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented, dimmed line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

func printNewline() { fmt.Println() }

// printStats prints frame counts, elapsed time and whether the artifact
// came from the cache, e.g. "  120 frames · 48 unique · 1.2s · fresh".
func printStats(frames, unique int, elapsed time.Duration, cached bool) {
	fmt.Println("  " + statsLine(frames, unique, elapsed, cached))
}

func statsLine(frames, unique int, elapsed time.Duration, cached bool) string {
	var parts []string
	if frames > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d frames", frames)))
	}
	if unique > 0 && unique < frames {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d unique", unique)))
	}
	if elapsed > 0 {
		parts = append(parts, StyleDim.Render(elapsed.Round(time.Millisecond).String()))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render(iconCached))
	} else {
		parts = append(parts, StyleDim.Render(iconFresh))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
