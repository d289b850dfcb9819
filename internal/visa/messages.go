package visa

// messages.go maps lookup outcomes to user-facing messages with a code that
// users can quote to the relocation team.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source not found: the reference workbook is missing
//	         Action: Place Visas_Affaires_Court_Sejour_Mondial.xlsx in the pages folder
//	SRC002 - Source unreadable: the reference workbook could not be read
//	         Action: Check that the file is a valid workbook with the expected columns
//
// # Query Outcomes (QRY001-QRY099)
//
//	QRY001 - Incomplete query: a form field was left unselected
//	         Action: Fill in every field before searching
//	QRY002 - No match: no rule corresponds to the selected criteria
//	         Action: Check the nationality/origin/destination combination,
//	                 try broader criteria, or contact the relocation team
//
// # Request Errors (REQ001-REQ099, RATE001)
//
//	REQ001 - Request cancelled        Patterns: "context canceled"
//	REQ002 - Request timed out        Patterns: "context deadline exceeded"
//	RATE001 - Too many requests       Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// original technical error when a user reports ERR000.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Code for support reference
}

var (
	msgSourceNotFound = UserMessage{
		Message: "Visa data is unavailable",
		Action:  "Place Visas_Affaires_Court_Sejour_Mondial.xlsx in the pages folder",
		Code:    "SRC001",
	}
	msgSourceUnreadable = UserMessage{
		Message: "Visa data is unavailable",
		Action:  "Check that the reference file is a valid workbook with the expected columns",
		Code:    "SRC002",
	}
	msgIncompleteQuery = UserMessage{
		Message: "Please fill in every field before searching",
		Action:  "Select a value in each dropdown",
		Code:    "QRY001",
	}
	msgNoMatch = UserMessage{
		Message: "No match found for the selected criteria",
		Action:  "Check the nationality/origin/destination combination, try broader criteria, or contact the relocation team",
		Code:    "QRY002",
	}
)

// sentinelMessages is checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrSourceNotFound, msgSourceNotFound},
	{ErrSourceUnreadable, msgSourceUnreadable},
	{ErrIncompleteQuery, msgIncompleteQuery},
	{ErrNoMatch, msgNoMatch},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again in a few moments",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Known sentinels are matched with errors.Is, then technical patterns are
// matched case-insensitively. Returns ERR000 when nothing matches and an
// empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
