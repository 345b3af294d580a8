/*
 * Copyright 2024 StratumDB, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package stratum

import (
	"errors"
	"fmt"
)

const (
	// KindTimeout tags the envelope returned when the startup sequence
	// exceeds the configured timeout.
	KindTimeout = "TimeoutException"
	// KindMalformedResult tags the envelope returned when a query response
	// carries an unrecognized result kind.
	KindMalformedResult = "MalformedResult"

	serverKindPrefix = "Server."
)

// Error is the normalized envelope presented for server-side and startup
// failures.
type Error struct {
	// Kind is the error discriminator, either one of the fixed kinds above or
	// the server-reported exception name carrying the "Server." prefix.
	Kind string
	// Message is the human-readable reason.
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ServerError is the typed failure a transport reports for a remote call that
// the server rejected with an application exception.
type ServerError struct {
	// Name is the exception name as reported by the server.
	Name string
	// Why is the server-side reason.
	Why string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Why)
}

// normalizeError maps a server-reported failure into the envelope shape.
// Errors of any other type pass through untouched.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	var srv *ServerError
	if errors.As(err, &srv) {
		return &Error{Kind: serverKindPrefix + srv.Name, Message: srv.Why}
	}
	return err
}

// IsTimeout reports whether err is the startup timeout envelope.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTimeout
}
