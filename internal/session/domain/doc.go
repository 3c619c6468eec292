// Package domain defines the core entities and state machine for a game session.
//
// The domain model is centered around a few key concepts:
//
// # Players and Setup
//
// A Player is one person on the couch: display name, age, role label, an
// avatar reference, a turn-order index, and a cumulative score. The roster
// is frozen into a GameSetup at session creation and never changes
// afterwards; only scores move.
//
// # GameState
//
// GameState is the single "where are we" record for a session: the named
// current state, the act derived from it, the active and on-deck players,
// per-act completion timestamps, and per-player turn counts. Every
// transition replaces the whole value; nothing mutates in place.
//
// # State Machine
//
// Sessions move through roughly ten named states partitioned into three
// acts (fact gathering, mini-games, finale) plus a terminal state. The
// allowed transitions form a fixed directed graph; Transition validates
// against it and recomputes derived fields, and the caller appends the
// returned event to the session journal.
package domain
