// Package sequence keeps a path drawn on a field and its list of command
// blocks in lockstep.
//
// Path elements (nodes and segments) live in a [canopy.List] whose hook
// re-derives segment endpoints. Command blocks and inserters alternate in a
// [canopy.Chain], so each one is laid out directly below its predecessor.
// Height changes are collected during the tick and the command list is
// re-laid out at most once per frame.
package sequence
