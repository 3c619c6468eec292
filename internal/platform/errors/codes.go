// Package errors provides structured error handling for the orchestration engine.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Setup errors
	CodeSetupEmptyRoster        Code = "SETUP_EMPTY_ROSTER"
	CodeSetupDuplicatePlayerID  Code = "SETUP_DUPLICATE_PLAYER_ID"
	CodeSetupInvalidSafetyMode  Code = "SETUP_INVALID_SAFETY_MODE"
	CodeSetupInvalidTurnOrder   Code = "SETUP_INVALID_TURN_ORDER"
	CodeSetupEmptyPlayerName    Code = "SETUP_EMPTY_PLAYER_NAME"
	CodeSetupRosterAfterStart   Code = "SETUP_ROSTER_AFTER_START"
	CodeSetupEmptySessionID     Code = "SETUP_EMPTY_SESSION_ID"
	CodeSetupInvalidDuration    Code = "SETUP_INVALID_DURATION"
	CodeSetupInvalidPlayerCount Code = "SETUP_INVALID_PLAYER_COUNT"

	// State machine errors
	CodeStateInvalidTransition Code = "STATE_INVALID_TRANSITION"
	CodeStateUnknownState      Code = "STATE_UNKNOWN_STATE"
	CodeStateSessionComplete   Code = "STATE_SESSION_COMPLETE"

	// Turn errors
	CodeTurnNoPlayers      Code = "TURN_NO_PLAYERS"
	CodeTurnUnknownPlayer  Code = "TURN_UNKNOWN_PLAYER"
	CodeTurnCountUnderflow Code = "TURN_COUNT_UNDERFLOW"

	// Fact errors
	CodeFactEmptyQuestion  Code = "FACT_EMPTY_QUESTION"
	CodeFactEmptyAnswer    Code = "FACT_EMPTY_ANSWER"
	CodeFactEmptyCategory  Code = "FACT_EMPTY_CATEGORY"
	CodeFactInvalidPrivacy Code = "FACT_INVALID_PRIVACY"
	CodeFactNotFound       Code = "FACT_NOT_FOUND"

	// Turn packet errors
	CodePacketNotFound     Code = "PACKET_NOT_FOUND"
	CodePacketEmptyModule  Code = "PACKET_EMPTY_MODULE"
	CodePacketEmptyPlayer  Code = "PACKET_EMPTY_PLAYER"
	CodePacketDoubleScore  Code = "PACKET_DOUBLE_SCORE"
	CodePacketEmptyTagList Code = "PACKET_EMPTY_TAG_LIST"

	// Cartridge errors
	CodeCartridgeDuplicateID  Code = "CARTRIDGE_DUPLICATE_ID"
	CodeCartridgeNotFound     Code = "CARTRIDGE_NOT_FOUND"
	CodeCartridgeNoneEligible Code = "CARTRIDGE_NONE_ELIGIBLE"
	CodeCartridgeEmptyID      Code = "CARTRIDGE_EMPTY_ID"

	// Pacing errors
	CodePacingFloorAboveCeiling Code = "PACING_FLOOR_ABOVE_CEILING"

	// Persistence errors
	CodePersistSchemaMismatch Code = "PERSIST_SCHEMA_MISMATCH"
	CodePersistNotFound       Code = "PERSIST_NOT_FOUND"
	CodePersistEncode         Code = "PERSIST_ENCODE"
	CodePersistUnavailable    Code = "PERSIST_UNAVAILABLE"

	// Content-generation errors
	CodeContentUnavailable Code = "CONTENT_UNAVAILABLE"
	CodeContentMalformed   Code = "CONTENT_MALFORMED"
)
