/*
   XmitView - MVS transmission file viewer
   Copyright (c) 2026, The XmitView Authors

   This file is part of XmitView.

   XmitView is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   XmitView is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with XmitView. If not, see <http://www.gnu.org/licenses/>.
*/

package mvs

import (
	"errors"
	"fmt"
)

// Error kinds raised while decoding transmission files and unloaded data
// sets. Use errors.Is to test for a kind, details and causes attached with
// the With... methods do not affect matching.
var (
	// ErrMalformedSignature is returned when a file does not start with an
	// INMR01 control record
	ErrMalformedSignature = &DecodeError{Code: "MALFORMED_SIGNATURE",
		Message: "not a transmission file"}

	// ErrInvalidSegmentLength is returned for a segment claiming a length
	// shorter than its own header
	ErrInvalidSegmentLength = &DecodeError{Code: "INVALID_SEGMENT_LENGTH",
		Message: "invalid segment length"}

	// ErrUnknownAttributeKey is returned for a text unit key not in the key
	// table
	ErrUnknownAttributeKey = &DecodeError{Code: "UNKNOWN_ATTRIBUTE_KEY",
		Message: "unknown text unit key"}

	// ErrTruncated is returned when a structure claims more bytes than are
	// available
	ErrTruncated = &DecodeError{Code: "TRUNCATED", Message: "truncated data"}

	// ErrInvalidHeaderRecord is returned when the unload header records are
	// missing or damaged
	ErrInvalidHeaderRecord = &DecodeError{Code: "INVALID_HEADER_RECORD",
		Message: "invalid unload header record"}

	// ErrInvalidDirectoryBlockHeader is returned for a directory block with
	// unexpected key or data length
	ErrInvalidDirectoryBlockHeader = &DecodeError{
		Code: "INVALID_DIRECTORY_BLOCK_HEADER", Message: "invalid directory block"}

	// ErrAddressOutOfExtentRange is returned when a relative track lies
	// beyond all extents
	ErrAddressOutOfExtentRange = &DecodeError{
		Code: "ADDRESS_OUT_OF_EXTENT_RANGE", Message: "address not within any extent"}

	// ErrUnexpectedUtility is returned when the embedded data set was not
	// written by IEBCOPY
	ErrUnexpectedUtility = &DecodeError{Code: "UNEXPECTED_UTILITY",
		Message: "embedded data set was not unloaded by IEBCOPY"}

	// ErrMemberNotFound is returned when a member name is not in the
	// directory
	ErrMemberNotFound = &DecodeError{Code: "MEMBER_NOT_FOUND",
		Message: "member not found"}

	// ErrEmptyMember is returned when a member has no payload
	ErrEmptyMember = &DecodeError{Code: "EMPTY_MEMBER", Message: "member is empty"}

	// ErrUnrecognizedSubRecord marks user data that could not be decoded
	ErrUnrecognizedSubRecord = &DecodeError{Code: "UNRECOGNIZED_SUB_RECORD",
		Message: "unrecognized user data"}
)

// DecodeError is a structured error carrying a code for programmatic
// handling, plus optional cause and details.
type DecodeError struct {
	Code    string
	Message string
	Cause   error
	Details map[string]interface{}
}

//
func (e *DecodeError) Error() string {
	if e.Cause != nil {
		if len(e.Details) > 0 {
			return fmt.Sprintf("[%s] %s (details: %v): %v",
				e.Code, e.Message, e.Details, e.Cause)
		}
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

//
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is matches any DecodeError with the same code.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Code == e.Code
}

//
func (e *DecodeError) WithCause(cause error) *DecodeError {
	return &DecodeError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

//
func (e *DecodeError) WithDetail(key string, value interface{}) *DecodeError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DecodeError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

//
func (e *DecodeError) WithMessage(message string) *DecodeError {
	return &DecodeError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// ErrorCode extracts the code of a DecodeError anywhere in err's chain, or
// returns the empty string.
func ErrorCode(err error) string {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
