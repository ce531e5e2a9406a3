package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/pienaaranker/storypoints-sub000/internal/ui/theme"
)

// tableWidth is the width of tables printed by CLI commands.
const tableWidth = 96

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
	return strings.TrimRight(t.Render(), "\n")
}

// printStyled writes s, downsampling colors for the destination.
func printStyled(w io.Writer, s string) error {
	_, err := lipgloss.Fprintln(w, s)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}
