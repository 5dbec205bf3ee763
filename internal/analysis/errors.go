// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"errors"
	"fmt"
)

// FailureCode is the stable error code carried by a failed analysis run.
// All failures are terminal for the current run; the engine never retries.
type FailureCode string

const (
	// FailureEmptyCatalogue means no reference data was loaded.
	FailureEmptyCatalogue FailureCode = "EMPTY_CATALOGUE"
	// FailureEmptyDocument means extraction yielded zero pages.
	FailureEmptyDocument FailureCode = "EMPTY_DOCUMENT"
	// FailureDuplicateUnNumber means the catalogue violated its uniqueness
	// invariant; surfaced at index-build time before any scanning starts.
	FailureDuplicateUnNumber FailureCode = "DUPLICATE_UN_NUMBER"
	// FailureInternal covers unexpected failures inside the pipeline,
	// including cancellation of an in-flight run.
	FailureInternal FailureCode = "INTERNAL_ERROR"
)

// Error is a typed analysis failure: a stable code plus a human-readable
// message. A failed run never exposes partial matches.
type Error struct {
	Code    FailureCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code FailureCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the failure code from an error returned by Analyze.
// Unknown errors report FailureInternal.
func CodeOf(err error) FailureCode {
	var analysisErr *Error
	if errors.As(err, &analysisErr) {
		return analysisErr.Code
	}
	return FailureInternal
}
