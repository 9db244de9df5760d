// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package viewsync

// State is the Syncer lifecycle. Transitions: Uninitialized -> Ready
// (Initialize), Ready -> Destroyed (Teardown), Destroyed -> Ready
// (re-Initialize). There are no other transitions.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDestroyed
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
