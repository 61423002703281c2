package report

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorOK    = lipgloss.Color("#22C55E")
	colorInfo  = lipgloss.Color("#4A9EFF")
	colorWarn  = lipgloss.Color("#EAB308")
	colorFail  = lipgloss.Color("#EF4444")
	colorDim   = lipgloss.Color("#9CA3AF")
	colorWhite = lipgloss.Color("#F9FAFB")
)

// Styler renders classification badges and accents. With Enabled false
// every method passes text through unstyled, for pipes and --no-color.
type Styler struct {
	Enabled bool

	ok      lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
	heading lipgloss.Style
}

// NewStyler builds the palette once.
func NewStyler(enabled bool) *Styler {
	return &Styler{
		Enabled: enabled,
		ok:      lipgloss.NewStyle().Bold(true).Foreground(colorOK),
		info:    lipgloss.NewStyle().Foreground(colorInfo),
		warn:    lipgloss.NewStyle().Bold(true).Foreground(colorWarn),
		fail:    lipgloss.NewStyle().Bold(true).Foreground(colorFail),
		dim:     lipgloss.NewStyle().Foreground(colorDim),
		heading: lipgloss.NewStyle().Bold(true).Foreground(colorWhite),
	}
}

func (s *Styler) render(style lipgloss.Style, text string) string {
	if !s.Enabled {
		return text
	}
	return style.Render(text)
}

func (s *Styler) OK(text string) string      { return s.render(s.ok, text) }
func (s *Styler) Info(text string) string    { return s.render(s.info, text) }
func (s *Styler) Warn(text string) string    { return s.render(s.warn, text) }
func (s *Styler) Fail(text string) string    { return s.render(s.fail, text) }
func (s *Styler) Dim(text string) string     { return s.render(s.dim, text) }
func (s *Styler) Heading(text string) string { return s.render(s.heading, text) }
