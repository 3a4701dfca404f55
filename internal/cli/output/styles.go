package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles is the palette used for text mode.
type Styles struct {
	Header1    lipgloss.Style
	Header2    lipgloss.Style
	Bold       lipgloss.Style
	Muted      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Info       lipgloss.Style
	ObjectName lipgloss.Style
	TypeName   lipgloss.Style
	Path       lipgloss.Style
}

// NewStyles builds the palette for w. Colour is stripped when colored is
// false or NO_COLOR is set.
func NewStyles(w io.Writer, colored bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !colored || termenv.EnvNoColor() {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:    lr.NewStyle().Bold(true),
		Bold:       lr.NewStyle().Bold(true),
		Muted:      lr.NewStyle().Foreground(lipgloss.Color("240")),
		Success:    lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:    lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:      lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Info:       lr.NewStyle().Foreground(lipgloss.Color("14")),
		ObjectName: lr.NewStyle().Foreground(lipgloss.Color("13")),
		TypeName:   lr.NewStyle().Foreground(lipgloss.Color("14")).Italic(true),
		Path:       lr.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
