package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/ipc"
)

var (
	headerColor = color.New(color.FgBlue, color.Bold)
	topColor    = color.New(color.FgGreen, color.Bold)
	dimColor    = color.New(color.FgHiBlack)
	labelColor  = color.New(color.FgWhite, color.Bold)
)

func printWindows(w io.Writer, windows []ipc.WindowInfo) {
	if len(windows) == 0 {
		_, _ = dimColor.Fprintln(w, "no open windows")
		return
	}

	topZ := 0
	for _, win := range windows {
		if win.Z > topZ {
			topZ = win.Z
		}
	}

	_, _ = headerColor.Fprintf(w, "  %-6s %-4s %-15s %-11s %s\n", "ID", "Z", "POSITION", "SIZE", "TITLE")
	for _, win := range windows {
		line := fmt.Sprintf("%-6s %-4d %-15s %-11s %s",
			win.ID,
			win.Z,
			fmt.Sprintf("%d,%d", win.X, win.Y),
			fmt.Sprintf("%dx%d", win.Width, win.Height),
			win.Title)
		if win.Z == topZ {
			_, _ = topColor.Fprintf(w, "* %s\n", line)
			continue
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func printDocuments(w io.Writer, list []docs.Document) {
	if len(list) == 0 {
		_, _ = dimColor.Fprintln(w, "no documents")
		return
	}
	_, _ = headerColor.Fprintf(w, "%-8s %-3s %-24s %s\n", "ID", "", "NAME", "SIZE")
	for _, d := range list {
		fmt.Fprintf(w, "%-8s %-3s %-24s %s\n", d.ID, d.Kind.Icon(), d.Name, humanize.Bytes(documentSize(d)))
	}
}

func printStatus(w io.Writer, status *ipc.StatusData, now time.Time) {
	started := now.Add(-time.Duration(status.UptimeSeconds) * time.Second)
	printLabel(w, "daemon_running", fmt.Sprint(status.DaemonRunning))
	printLabel(w, "windows", fmt.Sprint(status.WindowCount))
	printLabel(w, "top_window", orNone(status.TopWindow))
	printLabel(w, "dragging", orNone(status.DraggingWindow))
	printLabel(w, "events", humanize.Comma(int64(status.EventsProcessed)))
	printLabel(w, "started", humanize.RelTime(started, now, "ago", "from now"))
}

func printLabel(w io.Writer, label, value string) {
	_, _ = labelColor.Fprintf(w, "%-15s ", label+":")
	fmt.Fprintln(w, value)
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
