package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-timegraph/internal/forest"
	"github.com/wethinkt/go-timegraph/internal/i18n"
	"github.com/wethinkt/go-timegraph/internal/timegraph"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <forest.jsonl>",
	Short: "Print the bounds and entries of a forest file",
	Long: `Load a forest file and print what the timeline would show: the
time bounds, the entry tree and any malformed records.

Examples:
  timegraph inspect trace.jsonl
  timegraph inspect --format calendar trace.jsonl
  timegraph inspect --json trace.jsonl | jq .bounds`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

type inspectBounds struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type inspectEntry struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Start    *int64         `json:"start,omitempty"`
	End      *int64         `json:"end,omitempty"`
	Children []inspectEntry `json:"children,omitempty"`
}

type inspectReport struct {
	Path    string         `json:"path"`
	Lines   int            `json:"lines"`
	Entries int            `json:"entries"`
	Bounds  *inspectBounds `json:"bounds,omitempty"`
	Span    string         `json:"span,omitempty"`
	Errors  []string       `json:"errors"`
	Roots   []inspectEntry `json:"roots"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	res, err := forest.Load(args[0])
	if err != nil {
		return err
	}
	format := timegraph.FormatRelative
	if inspectFormat != "" {
		if format, err = timegraph.ParseTimeFormat(inspectFormat); err != nil {
			return err
		}
	} else if f, err := timegraph.ParseTimeFormat(appConfig.Viewport.TimeFormat); err == nil {
		format = f
	}

	report := buildReport(res)
	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printReport(cmd.OutOrStdout(), report, func(t int64) string {
		return timegraph.FormatTime(t, format, appConfig.Viewport.ClockFrequency)
	})
}

func buildReport(res *forest.Result) inspectReport {
	r := inspectReport{
		Path:    res.Path,
		Lines:   res.Lines,
		Entries: res.Forest.Len(),
		Errors:  make([]string, 0, len(res.Errors)),
		Roots:   make([]inspectEntry, 0, len(res.Forest.Roots)),
	}
	if b, ok := res.Forest.Bounds(); ok {
		r.Bounds = &inspectBounds{Min: b.Min, Max: b.Max}
		r.Span = i18n.FormatSpan(b.Span())
	}
	for _, e := range res.Errors {
		r.Errors = append(r.Errors, e.Error())
	}
	for _, n := range res.Forest.Roots {
		r.Roots = append(r.Roots, toInspectEntry(n))
	}
	return r
}

func toInspectEntry(n *timegraph.Node) inspectEntry {
	e := inspectEntry{ID: n.ID, Name: n.Name}
	if n.Events {
		start, end := n.Start, n.End
		e.Start, e.End = &start, &end
	}
	for _, k := range n.Kids {
		e.Children = append(e.Children, toInspectEntry(k))
	}
	return e
}

func printReport(out io.Writer, r inspectReport, formatTime func(int64) string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n", r.Path)
	fmt.Fprintf(w, "  Lines:\t%d\n", r.Lines)
	fmt.Fprintf(w, "  Entries:\t%d\n", r.Entries)
	if r.Bounds != nil {
		fmt.Fprintf(w, "  Bounds:\t%s – %s (%s)\n", formatTime(r.Bounds.Min), formatTime(r.Bounds.Max), r.Span)
	} else {
		fmt.Fprintf(w, "  Bounds:\tnone\n")
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "  Problems:\t%d\n", len(r.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, e := range r.Errors {
		fmt.Fprintf(out, "    %s\n", e)
	}

	if len(r.Roots) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENTRY\tSTART\tEND\tSPAN")
	var walk func(e inspectEntry, depth int)
	walk = func(e inspectEntry, depth int) {
		name := strings.Repeat("  ", depth) + e.Name
		if e.Start == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\n", name)
		} else {
			span := i18n.FormatSpan(timegraph.Span(*e.Start, *e.End))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, formatTime(*e.Start), formatTime(*e.End), span)
		}
		for _, k := range e.Children {
			walk(k, depth+1)
		}
	}
	for _, e := range r.Roots {
		walk(e, 0)
	}
	return w.Flush()
}
