package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/breakdesk/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// breakdeskHuhTheme returns a huh theme using the formatter palette.
func breakdeskHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// pickBreakType prompts for one of the configured break types and returns
// its ID.
func pickBreakType(ctx context.Context, a *App) (string, error) {
	types, err := a.Catalog.ListBreakTypes(ctx)
	if err != nil {
		return "", err
	}
	if len(types) == 0 {
		return "", errors.New("no break types configured; add one with 'breakdesk types add' or 'breakdesk seed'")
	}

	options := make([]huh.Option[string], 0, len(types))
	for _, bt := range types {
		label := fmt.Sprintf("%s (%s)", bt.Name, formatter.FormatSeconds(bt.DurationSec))
		options = append(options, huh.NewOption(label, bt.ID))
	}

	var picked string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which break?").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(breakdeskHuhTheme()).WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("selecting break type: %w", err)
	}
	return picked, nil
}
