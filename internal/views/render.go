package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/rudhh/questly/internal/model"
)

type AppData struct {
	Header     string
	Body       string
	SidePane   string
	StatusLine string
	Footer     string
}

// Theme maps a profile theme color to the lipgloss palette the screens use.
type Theme struct {
	Accent lipgloss.Color
	Good   lipgloss.Color
	Bad    lipgloss.Color
	Dim    lipgloss.Color
}

var themePalette = map[model.ThemeColor]lipgloss.Color{
	model.ThemeViolet:  lipgloss.Color("13"),
	model.ThemeEmerald: lipgloss.Color("10"),
	model.ThemeBlue:    lipgloss.Color("12"),
	model.ThemeRose:    lipgloss.Color("9"),
	model.ThemeAmber:   lipgloss.Color("11"),
}

func ThemeFor(color model.ThemeColor, highContrast bool) Theme {
	accent, ok := themePalette[color]
	if !ok {
		accent = themePalette[model.ThemeViolet]
	}
	dim := lipgloss.Color("8")
	if highContrast {
		dim = lipgloss.Color("15")
	}
	return Theme{
		Accent: accent,
		Good:   lipgloss.Color("10"),
		Bad:    lipgloss.Color("9"),
		Dim:    dim,
	}
}

func RenderApp(theme Theme, data AppData) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle := lipgloss.NewStyle().Foreground(theme.Good)
	errorStyle := lipgloss.NewStyle().Foreground(theme.Bad)
	footerStyle := lipgloss.NewStyle().Foreground(theme.Dim)

	body := panelStyle.Width(62).Render(data.Body)
	row := body
	if data.SidePane != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Width(46).Render(data.SidePane))
	}

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders mentor replies. On renderer failure the raw text is
// shown rather than nothing.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
