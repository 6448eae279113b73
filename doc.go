// Package cezm implements an interactive project-planning workbench: a
// task graph edited as plain indented text, reconciled incrementally by a
// two-pass parser, placed on a calendar by a depth-first
// constraint-satisfaction scheduler, and viewed either as that source text
// or as a laid-out Gantt-style display with a cursor that moves freely
// between the two.
//
// # Architecture Overview
//
// The workbench is built from several cooperating packages under
// internal/:
//
//   - arena: generic slot-recycling pool giving tasks and users stable
//     handles that survive growth and removal
//   - model: the Task/User records, constraint bitset, and status palette
//   - textbuf: the live text buffer the editor view edits directly
//   - parser: the two-pass text-to-graph reconciler (detect tasks, then
//     resolve properties and rebuild dependency bags)
//   - schedule: the backtracking constraint-satisfaction solver that
//     assigns day_start/day_end to every task
//   - layout: column assignment and pixel-rect geometry for the display
//     view, plus dependency-curve sampling
//   - cursor, selection: multi-cursor text editing and the linkage
//     between the editor cursor and the display cursor
//   - commands: the mutating operations a front end drives (insert,
//     delete, rename, split, create successor, navigate, select)
//
// # Basic Usage
//
//	cezm schedule.cezm
//
// reads or creates schedule.cezm, runs an initial parse-schedule-layout
// cycle, and then reads edit commands from stdin until it sees quit.
//
// # Package Structure
//
//   - internal/arena, internal/model: entity storage and domain types
//   - internal/textbuf, internal/cursor, internal/selection: text editing
//   - internal/parser, internal/dateconv, internal/serialize: the
//     text<->graph round trip
//   - internal/schedule: the scheduler
//   - internal/layout: display geometry
//   - internal/commands: the command surface
//   - internal/cezmerr: the tagged domain-error taxonomy
//   - cmd/cezm: the reference driver binary
package cezm
