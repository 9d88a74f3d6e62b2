// Package output renders rejection reports as text, table, JSON, or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/bimmerbailey/cmpctrej/internal/analyzer"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w       io.Writer
	format  Format
	colors  palette
	printer *message.Printer
}

// New creates a new output Writer. Colors apply to text and table output only.
func New(w io.Writer, format Format, mode ColorMode) *Writer {
	return &Writer{
		w:       w,
		format:  format,
		colors:  palette{enabled: shouldColorize(mode, w)},
		printer: message.NewPrinter(language.English),
	}
}

// WriteReport outputs a report in the configured format.
func (wr *Writer) WriteReport(r *analyzer.Report) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(r)
	case FormatYAML:
		return wr.WriteYAML(r)
	case FormatTable:
		return wr.writeTable(r)
	default:
		return wr.writeText(r)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML outputs any value as YAML.
func (wr *Writer) WriteYAML(v interface{}) error {
	enc := yaml.NewEncoder(wr.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (wr *Writer) count(n int) string {
	return wr.printer.Sprintf("%d", n)
}

func (wr *Writer) writeHeader(r *analyzer.Report) {
	c := wr.colors
	if r.Source != "" {
		fmt.Fprintf(wr.w, "%s %s\n", c.heading("Source:"), r.Source)
	}
	if r.FirstBlock != "" {
		fmt.Fprintf(wr.w, "%s %s\n", c.heading("First block:"), c.hash(r.FirstBlock))
		fmt.Fprintf(wr.w, "%s %s\n", c.heading("Last block:"), c.hash(r.LastBlock))
	}
	fmt.Fprintln(wr.w, c.muted(fmt.Sprintf("Reconstructions: %s (resolved %s, unresolved %s), rejections: %s, lines: %s",
		wr.count(r.Reconstructions),
		wr.count(r.Resolved),
		wr.count(r.Unresolved),
		wr.count(r.Rejections),
		wr.count(r.TotalLines))))
}

func (wr *Writer) writeNoData() {
	fmt.Fprintln(wr.w, wr.colors.warn("No data found: no required transaction matched a mempool rejection."))
}

func (wr *Writer) writeText(r *analyzer.Report) error {
	wr.writeHeader(r)
	fmt.Fprintln(wr.w)

	if r.NoData {
		wr.writeNoData()
		return nil
	}

	for i, g := range r.Groups {
		fmt.Fprintf(wr.w, "%s: %s\n", wr.colors.category(g.Key, i == 0), wr.count(g.Count))
	}

	if len(r.BlockDetails) > 0 {
		fmt.Fprintln(wr.w)
		fmt.Fprintln(wr.w, wr.colors.heading(fmt.Sprintf("Blocks (%s):", wr.count(r.Blocks))))
		for _, b := range r.BlockDetails {
			fmt.Fprintf(wr.w, "  %s\n", wr.colors.hash(b.Hash))
			for _, tx := range b.Transactions {
				fmt.Fprintf(wr.w, "    %s %s\n", tx.Txid, tx.Reason)
			}
		}
	}

	return nil
}

func (wr *Writer) writeTable(r *analyzer.Report) error {
	wr.writeHeader(r)
	fmt.Fprintln(wr.w)

	if r.NoData {
		wr.writeNoData()
		return nil
	}

	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCOUNT\tPERCENT\tCATEGORY")
	fmt.Fprintln(tw, "----\t-----\t-------\t--------")

	for i, g := range r.Groups {
		fmt.Fprintf(tw, "%d\t%s\t%.1f%%\t%s\n", i+1, wr.count(g.Count), g.Percent, truncate(g.Key, 80))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.BlockDetails) > 0 {
		fmt.Fprintln(wr.w)
		tw = tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BLOCK\tTXID\tCATEGORY")
		fmt.Fprintln(tw, "-----\t----\t--------")
		for _, b := range r.BlockDetails {
			for _, tx := range b.Transactions {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", shortHash(b.Hash), shortHash(tx.Txid), tx.Category)
			}
		}
		return tw.Flush()
	}

	return nil
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// shortHash abbreviates a 64-character hash for table columns.
func shortHash(h string) string {
	if len(h) <= 16 {
		return h
	}
	return h[:8] + ".." + h[len(h)-6:]
}
