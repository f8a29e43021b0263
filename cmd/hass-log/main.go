// Command hass-log is a tool for viewing and analyzing discovery event logs.
//
// Log files are created by hass-discovery (or any application wiring an
// eventlog.FileLogger into the discovery pipeline).
//
// Usage:
//
//	hass-log <command> [flags] <file.mlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	hass-log view discovery.mlog
//
//	# View only dispatched events for one service
//	hass-log view -category DISPATCHED -service sonos discovery.mlog
//
//	# Export to JSONL
//	hass-log export discovery.mlog > discovery.jsonl
//
//	# Show statistics
//	hass-log stats discovery.mlog
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/Hansen8601/home-assistant/pkg/eventlog"
)

const usage = `hass-log - Discovery Event Log Analyzer

Usage:
  hass-log <command> [flags] <file.mlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL format
  stats    Show statistics about the log file

Use "hass-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags adds the shared filter flags to a flag set and returns a
// builder that resolves them into an eventlog.Filter after parsing.
func filterFlags(fs *flag.FlagSet) func() eventlog.Filter {
	scanID := fs.String("scan-id", "", "Filter by scan ID")
	category := fs.String("category", "", "Filter by category (FOUND, IGNORED, DISPATCHED, LOADED, ERROR)")
	service := fs.String("service", "", "Filter by service identifier")
	comp := fs.String("component", "", "Filter by component")
	since := fs.String("since", "", "Only events at or after this time (RFC3339)")

	return func() eventlog.Filter {
		filter := eventlog.Filter{
			ScanID:    *scanID,
			Service:   *service,
			Component: *comp,
		}
		if *category != "" {
			cat, ok := eventlog.ParseCategory(*category)
			if !ok {
				fmt.Fprintf(os.Stderr, "Unknown category: %s\n", *category)
				os.Exit(1)
			}
			filter.Category = &cat
		}
		if *since != "" {
			start, err := time.Parse(time.RFC3339, *since)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -since time: %v\n", err)
				os.Exit(1)
			}
			filter.TimeStart = &start
		}
		return filter
	}
}

// openReader parses flags, resolves the log path argument, and opens a
// filtered reader over it.
func openReader(fs *flag.FlagSet, args []string, filter func() eventlog.Filter) *eventlog.Reader {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	reader, err := eventlog.NewFilteredReader(fs.Arg(0), filter())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	return reader
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "hass-log view - View log file in human-readable format\n\nUsage:\n  hass-log view [flags] <file.mlog>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	filter := filterFlags(fs)

	reader := openReader(fs, args, filter)
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read event: %v\n", err)
			os.Exit(1)
		}
		printEvent(event)
	}
}

func printEvent(event eventlog.Event) {
	line := fmt.Sprintf("%s %-10s %s",
		event.Timestamp.Format("15:04:05.000"),
		event.Category, event.Service)
	if event.Component != "" {
		line += " component=" + event.Component
	}
	if event.Platform != "" {
		line += " platform=" + event.Platform
	}
	if event.Error != "" {
		line += " error=" + event.Error
	}
	if len(event.Info) > 0 {
		if data, err := json.Marshal(event.Info); err == nil {
			line += " info=" + string(data)
		}
	}
	fmt.Println(line)
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "hass-log export - Export log file to JSONL\n\nUsage:\n  hass-log export [flags] <file.mlog>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	filter := filterFlags(fs)

	reader := openReader(fs, args, filter)
	defer reader.Close()

	encoder := json.NewEncoder(os.Stdout)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read event: %v\n", err)
			os.Exit(1)
		}
		if err := encoder.Encode(toJSONL(event)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode event: %v\n", err)
			os.Exit(1)
		}
	}
}

// jsonlEvent is the JSONL export shape of a pipeline event. The category
// is rendered as its string name rather than the integer wire value.
type jsonlEvent struct {
	Timestamp string         `json:"timestamp"`
	ScanID    string         `json:"scan_id,omitempty"`
	Category  string         `json:"category"`
	Service   string         `json:"service,omitempty"`
	Component string         `json:"component,omitempty"`
	Platform  string         `json:"platform,omitempty"`
	Info      map[string]any `json:"info,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func toJSONL(event eventlog.Event) jsonlEvent {
	return jsonlEvent{
		Timestamp: event.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		ScanID:    event.ScanID,
		Category:  event.Category.String(),
		Service:   event.Service,
		Component: event.Component,
		Platform:  event.Platform,
		Info:      event.Info,
		Error:     event.Error,
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "hass-log stats - Show statistics about the log file\n\nUsage:\n  hass-log stats [flags] <file.mlog>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	filter := filterFlags(fs)

	reader := openReader(fs, args, filter)
	defer reader.Close()

	var (
		total      int
		categories = make(map[string]int)
		services   = make(map[string]int)
	)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read event: %v\n", err)
			os.Exit(1)
		}
		total++
		categories[event.Category.String()]++
		if event.Service != "" {
			services[event.Service]++
		}
	}

	fmt.Printf("Events: %d\n\n", total)
	fmt.Println("By category:")
	printCounts(categories)
	fmt.Println("\nBy service:")
	printCounts(services)
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %-24s %d\n", key, counts[key])
	}
}
