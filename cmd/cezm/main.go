// Command cezm is the reference loop driver for the planning workbench:
// it owns the one open schedule file, runs the parse->schedule->layout
// cycle, and dispatches a line-oriented command protocol standing in for
// the keyboard-binding table a concrete front end would supply (out of
// scope per spec.md §1 — "keyboard binding tables... are implementation
// details of a concrete front end, not the planning model"). Grounded on
// cmd/sublc/main.go and cmd/sublrun/main.go's flag-based CLI idiom.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cezm/cezm/internal/arena"
	"github.com/cezm/cezm/internal/cezmerr"
	"github.com/cezm/cezm/internal/commands"
	"github.com/cezm/cezm/internal/cursor"
	"github.com/cezm/cezm/internal/layout"
	"github.com/cezm/cezm/internal/model"
	"github.com/cezm/cezm/internal/parser"
	"github.com/cezm/cezm/internal/schedule"
	"github.com/cezm/cezm/internal/serialize"
	"github.com/cezm/cezm/internal/world"
)

// loopThrottle matches spec.md §5's ~10ms cooperative loop rate.
const loopThrottle = 10 * time.Millisecond

// viewportWidthPx is a fixed stand-in for the real front end's window
// width, since camera/viewport sizing is out of scope per spec.md §1.
const viewportWidthPx = 1600

// pixelsPerDay is a fixed zoom level; camera pan/zoom is out of scope per
// spec.md §1; the display geometry still needs a concrete value to derive
// pixel rectangles from day numbers.
const pixelsPerDay = 12

func main() {
	var (
		version = flag.Bool("version", false, "Show version information")
		quiet   = flag.Bool("quiet", false, "Suppress structured log output below warn level")
	)
	flag.Parse()

	if *version {
		fmt.Println("cezm - planning workbench v1.0.0")
		return
	}

	if *quiet {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	// Tag every log line from this process with a run id, so two cezm
	// sessions editing the same file from separate terminals can be told
	// apart in a shared log stream.
	log.Logger = log.With().Str("run_id", uuid.NewString()).Logger()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <schedule-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(-1)
	}
	path := args[0]

	w, err := loadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("cezm: failed to load schedule file")
	}

	parser.Parse(w)
	runCycle(w)

	log.Info().Str("path", path).Msg("cezm: ready; reading commands from stdin (e.g. quit/save/reload)")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		start := time.Now()

		quit := dispatch(w, path, strings.TrimSpace(scanner.Text()))
		if quit {
			os.Exit(0)
		}

		if elapsed := time.Since(start); elapsed < loopThrottle {
			time.Sleep(loopThrottle - elapsed)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("cezm: error reading command stream")
	}
	os.Exit(0)
}

// loadFile reads path's contents, or — per spec.md §6 — creates a new
// file containing a single space if it doesn't exist yet, returning a
// World seeded with that content either way.
func loadFile(path string) (*world.World, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg(cezmerr.New(cezmerr.IOMissingFile, "creating missing schedule file %q", path).Error())
		content = []byte(" ")
		if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
			return nil, writeErr
		}
		return world.FromBytes(content), nil
	}
	if err != nil {
		return nil, err
	}
	return world.FromBytes(content), nil
}

// saveFile regenerates the canonical on-disk projection (every live task,
// not just the edit-mode subset) and writes it to path.
func saveFile(w *world.World, path string) error {
	serialize.Generate(w, serialize.AllTasks)
	return os.WriteFile(path, w.Buffer.Bytes(), 0o644)
}

// runCycle performs one parse->schedule->layout pass, logging (not
// failing) an unsatisfiable schedule the way the driver loop tolerates a
// temporarily-inconsistent graph mid-edit.
func runCycle(w *world.World) *layout.Layout {
	stats, err := schedule.Solve(w)
	if err != nil {
		log.Warn().Err(err).Msg("cezm: schedule pass did not converge")
	} else {
		log.Debug().Int("tasks_scheduled", stats.TasksScheduled).Int64("solve_time_ms", stats.SolveTimeMS).
			Msg("cezm: schedule pass converged")
	}

	lay, err := layout.Compute(w, viewportWidthPx, projectDayStart(w), pixelsPerDay)
	if err != nil {
		log.Warn().Err(err).Msg("cezm: layout pass failed")
		return &layout.Layout{}
	}
	return lay
}

// projectDayStart returns the earliest DayStart among live tasks, or 0 if
// the graph is empty or unscheduled, giving the layout pass a stable
// vertical origin.
func projectDayStart(w *world.World) int64 {
	earliest := int64(0)
	first := true
	w.Tasks.ForEachLive(func(_ arena.Handle, t *model.Task) {
		if first || t.DayStart < earliest {
			earliest = t.DayStart
			first = false
		}
	})
	return earliest
}

// dispatch interprets one line of the stdin command protocol, mutates w
// accordingly, runs a fresh parse->schedule->layout cycle, and reports
// whether the driver should quit. Recognized commands: quit, save,
// reload, toggle-viewport, insert <text>, return, backspace, delete,
// left, right, up, down, home, end, deselect-multi, rename,
// select-prereqs, select-dependents, deselect-all, toggle-selection,
// split, successor.
func dispatch(w *world.World, path string, line string) (quit bool) {
	if strings.TrimSpace(line) == "" {
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")

	switch cmd {
	case "quit":
		return true

	case "save":
		if err := saveFile(w, path); err != nil {
			log.Warn().Err(err).Msg("cezm: save failed")
		}

	case "reload":
		reloaded, err := loadFile(path)
		if err != nil {
			log.Warn().Err(err).Msg("cezm: reload failed")
			return false
		}
		*w = *reloaded
		parser.Parse(w)

	case "toggle-viewport":
		lay := runCycle(w)
		commands.ToggleViewport(w, lay)

	// Editor-only commands (spec.md §4.D).
	case "insert":
		commands.InsertText(w, rest)
	case "return":
		commands.InsertText(w, "\n")
	case "backspace":
		commands.Backspace(w)
	case "delete":
		commands.DeleteForward(w)
	case "home":
		commands.MoveCursor(w, cursor.LineStart)
	case "end":
		commands.MoveCursor(w, cursor.LineEnd)
	case "deselect-multi":
		commands.DeselectMultiCursor(w)
	case "rename":
		commands.RenameSymbol(w)

	// Shared arrow keys: editor cursor motion in the editor viewport,
	// display-cursor navigation among task-displays in the display
	// viewport (spec.md §4.H; original's VIEWPORT_EDITOR/VIEWPORT_DISPLAY
	// split between text-cursor Move and display_cursor navigation).
	case "left", "right", "up", "down":
		dispatchArrow(w, cmd)

	// Display selection commands (spec.md §4.G/§6) are no-ops in the
	// editor viewport, since there is no display cursor to act on yet.
	// split and successor act on every edit-mode task in either viewport.
	case "select-prereqs":
		if w.Viewport == world.ViewportDisplay {
			commands.SelectPrereqsOneHop(w)
		}
	case "select-dependents":
		if w.Viewport == world.ViewportDisplay {
			commands.SelectDependentsOneHop(w)
		}
	case "deselect-all":
		if w.Viewport == world.ViewportDisplay {
			commands.DeselectAll(w)
		}
	case "toggle-selection":
		if w.Viewport == world.ViewportDisplay {
			commands.ToggleSelectionOnCursorTask(w)
		}
	case "split":
		commands.SplitTask(w)
	case "successor":
		commands.CreateSuccessor(w)

	default:
		log.Warn().Str("command", cmd).Msg("cezm: unrecognized command")
		return false
	}

	parser.Parse(w)
	runCycle(w)
	return false
}

// dispatchArrow routes an arrow-key command to editor cursor motion or
// display-cursor navigation depending on the active viewport.
func dispatchArrow(w *world.World, dir string) {
	if w.Viewport == world.ViewportEditor {
		switch dir {
		case "left":
			commands.MoveCursor(w, cursor.Left)
		case "right":
			commands.MoveCursor(w, cursor.Right)
		case "up":
			commands.MoveCursor(w, cursor.Up)
		case "down":
			commands.MoveCursor(w, cursor.Down)
		}
		return
	}

	lay := runCycle(w)
	switch dir {
	case "left":
		commands.NavigateLeft(w, lay)
	case "right":
		commands.NavigateRight(w, lay)
	case "up":
		commands.NavigateUp(w, lay)
	case "down":
		commands.NavigateDown(w, lay)
	}
}
