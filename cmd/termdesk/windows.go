package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/docs"
	"github.com/1broseidon/termdesk/internal/ipc"
)

func runOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  termdesk open <document-id>")
		fmt.Fprintln(os.Stderr, "  termdesk open --title TITLE [--content TEXT]")
		fmt.Fprintln(os.Stderr, "  termdesk open                 (pick a document interactively)")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a new window. Opening the same document twice opens two windows.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	title := fs.String("title", "", "Open a plain text window with this title")
	content := fs.String("content", "", "Text content for --title windows")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 || (*title != "" && fs.NArg() != 0) {
		fmt.Fprintln(os.Stderr, "open takes either <document-id> or --title")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()

	var id string
	var err error
	switch {
	case *title != "":
		id, err = client.Open(*title, *content)
	case fs.NArg() == 1:
		id, err = client.OpenDocument(fs.Arg(0))
	default:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "open requires <document-id> when stdin is not a terminal")
			return 2
		}
		var docID string
		docID, err = pickDocument(client)
		if errors.Is(err, huh.ErrUserAborted) {
			return 1
		}
		if err == nil {
			id, err = client.OpenDocument(docID)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(id)
	return 0
}

func pickDocument(client *ipc.Client) (string, error) {
	list, err := client.ListDocuments()
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", fmt.Errorf("the daemon has no documents")
	}

	opts := make([]huh.Option[string], 0, len(list))
	for _, d := range list {
		opts = append(opts, huh.NewOption(d.Kind.Icon()+" "+d.Name, d.ID))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Open document").
				Options(opts...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

// runWindowCommand handles close and raise, which share one shape.
func runWindowCommand(name, summary string, args []string, fn func(*ipc.Client, string) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: termdesk %s <window-id>\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires <window-id>\n", name)
		fs.Usage()
		return 2
	}
	if err := fn(ipc.NewClient(), fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runClose(args []string) int {
	return runWindowCommand("close", "Close a window. Unknown ids are ignored.", args, (*ipc.Client).Close)
}

func runRaise(args []string) int {
	return runWindowCommand("raise", "Bring a window to the front. Unknown ids are ignored.", args, (*ipc.Client).Raise)
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk move <window-id> <x> <y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Move a window's top-left corner. Stacking order is unchanged.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "move requires <window-id> <x> <y>")
		fs.Usage()
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "move: x and y must be integers")
		return 2
	}

	if err := ipc.NewClient().Move(fs.Arg(0), x, y); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List open windows in open order. The front window is marked with *.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	windows, err := ipc.NewClient().List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(os.Stdout, windows)
	}
	printWindows(os.Stdout, windows)
	return 0
}

func runDocs(args []string) int {
	fs := flag.NewFlagSet("docs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk docs [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the documents the daemon can open.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "docs takes no arguments")
		fs.Usage()
		return 2
	}

	list, err := ipc.NewClient().ListDocuments()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(os.Stdout, list)
	}
	printDocuments(os.Stdout, list)
	return 0
}

func runDrag(args []string) int {
	fs := flag.NewFlagSet("drag", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk drag [--steps N] <window-id> <from-x,from-y> <to-x,to-y>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Press on a window at the first point, move the pointer to the second")
		fmt.Fprintln(os.Stderr, "in N steps and release. Prints the final window position.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	steps := fs.Int("steps", 1, "Number of pointer moves")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 || *steps < 1 {
		fmt.Fprintln(os.Stderr, "drag requires <window-id> <from> <to> and --steps >= 1")
		fs.Usage()
		return 2
	}
	fromX, fromY, err := parsePoint(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	toX, toY, err := parsePoint(fs.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	if err := client.BeginDrag(fs.Arg(0), fromX, fromY); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var pos ipc.PositionData
	for _, p := range interpolate(fromX, fromY, toX, toY, *steps) {
		pos, err = client.ContinueDrag(p[0], p[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			_ = client.EndDrag()
			return 1
		}
	}
	if err := client.EndDrag(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s at %d,%d\n", fs.Arg(0), pos.X, pos.Y)
	return 0
}

// parsePoint parses "x,y".
func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return x, y, nil
}

// interpolate returns steps evenly spaced points ending at (toX, toY).
func interpolate(fromX, fromY, toX, toY, steps int) [][2]int {
	points := make([][2]int, 0, steps)
	for i := 1; i <= steps; i++ {
		points = append(points, [2]int{
			fromX + (toX-fromX)*i/steps,
			fromY + (toY-fromY)*i/steps,
		})
	}
	return points
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// documentSize is the content length used by the docs listing.
func documentSize(d docs.Document) uint64 {
	return uint64(len(d.Content))
}
