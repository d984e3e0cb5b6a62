// Package outwriter renders ingestion and evaluation results as tables, JSON or CSV.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Format selects the output encoding.
type Format string

const (
	TableOut Format = "table" // default
	JSONOut  Format = "json"
	CSVOut   Format = "csv"
)

// ParseFormat resolves an output format name. An empty name selects TableOut.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", "text":
		return TableOut, nil
	case TableOut, JSONOut, CSVOut:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q. Must be table, json, or csv", name)
	}
}

// Config controls rendering.
type Config struct {
	Format    Format
	Precision int
	UseColors bool
	// Width overrides the detected terminal width when positive.
	Width int
	// Recipes adds the per-recipe breakdown to evaluation output.
	Recipes bool
}

// DefaultConfig returns a table configuration with two decimal places.
func DefaultConfig() Config {
	return Config{Format: TableOut, Precision: 2}
}

type palette struct {
	red, green, yellow, bold func(...any) string
}

func newPalette(useColors bool) palette {
	if !useColors {
		return palette{red: fmt.Sprint, green: fmt.Sprint, yellow: fmt.Sprint, bold: fmt.Sprint}
	}
	return palette{
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		bold:   color.New(color.Bold).SprintFunc(),
	}
}

// maxNameWidth returns the widest recipe name a table row may show.
func maxNameWidth(cfg Config) int {
	width := cfg.Width
	if width <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			width = 80
		} else {
			width = detected
		}
	}

	// Status and count columns with borders and padding.
	available := width - 45
	return min(max(available, 15), 70)
}

// truncate shortens s to width runes, keeping the tail.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 4 {
		return s
	}
	return "..." + string(r[len(r)-width+3:])
}

func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func formatFloat(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}
