package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
// The Code is stable so staff can quote it when reporting a problem.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Matched with strings.Contains; the first match wins, so more
// specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Configuration (CFG001)
	{
		pattern: "not configured",
		msg: UserMessage{
			Message: "The data store is not configured",
			Action:  "Check STORE_DRIVER and STORE_DSN settings",
			Code:    "CFG001",
		},
	},

	// Validation (VAL001-VAL002)
	{
		pattern: "insufficient data",
		msg: UserMessage{
			Message: "Not enough information to create a client record",
			Action:  "Provide a first and last name, or a phone or email",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "The request body is not valid JSON",
			Action:  "Check the request formatting",
			Code:    "VAL003",
		},
	},
	{
		pattern: "required",
		msg: UserMessage{
			Message: "A required field is missing",
			Action:  "Fill in the missing field and try again",
			Code:    "VAL002",
		},
	},

	// Locking (LOCK001)
	{
		pattern: "lock unavailable",
		msg: UserMessage{
			Message: "Another save is in progress",
			Action:  "Wait a moment and try again",
			Code:    "LOCK001",
		},
	},

	// Request dispatch (ACT001)
	{
		pattern: "unknown action",
		msg: UserMessage{
			Message: "The requested action is not recognized",
			Action:  "Check the action name in the request",
			Code:    "ACT001",
		},
	},

	// Store connectivity (DB001-DB003)
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the data store",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The data store connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},

	// Request lifecycle (REQ001-REQ002)
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Please try again or check your connection",
			Code:    "REQ002",
		},
	},

	// Rate limiting (RATE001)
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Staff should check application logs for the original error on ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches the known patterns case-insensitively and returns the first
// match, or the generic ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether an error matched a known pattern and is safe
// to show verbatim. ERR000 fallbacks should be logged instead.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
