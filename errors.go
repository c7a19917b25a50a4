// Copyright 2025 The chainable/promise Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package promise

// CodeCaptured is the Code carried by every Error the package produces
// itself: captured panics, chaining cycles, record-less chaining, and the
// aggregate rejection of Any.
const CodeCaptured = -1

// unknownPanicMessage is the message used when a captured panic value
// carries no usable message (it is neither an error nor a string).
const unknownPanicMessage = "Unknown exception"

// Structural errors produced by the chaining machinery.
// Error is a comparable struct, so these work with errors.Is directly.
var (
	// ErrChainingCycle rejects a promise whose resolution value, or whose
	// continuation's returned promise, shares the settlement record being
	// settled. Settling a record with itself would wait on itself forever.
	ErrChainingCycle = Error{Message: "Chaining cycle detected for promise", Code: CodeCaptured}

	// ErrNoState rejects a promise chained from, or resolved with, a zero
	// value promise, which has no settlement record and can never settle.
	ErrNoState = Error{Message: "Promise has no state", Code: CodeCaptured}

	// ErrInvalidReturn is reserved for continuations whose return shape
	// cannot settle the chained promise. The typed chaining functions make
	// both mismatch directions compile-time errors, so the package never
	// produces it at runtime; it is exported for callers that keep the
	// original contract's error surface.
	ErrInvalidReturn = Error{Message: "Invalid return type", Code: CodeCaptured}
)

// Error is the failure value a promise is rejected with. It carries a
// human-readable message and a numeric code; the zero Code means the
// rejection was an ordinary, application-level one.
//
// Error implements the error interface, and since it is a plain comparable
// struct, errors.Is matches two Error values that carry the same message
// and code.
type Error struct {
	Message string
	Code    int
}

// NewError builds an Error from a message and a code. Application code
// that has no meaningful code should pass 0.
func NewError(message string, code int) Error {
	return Error{Message: message, Code: code}
}

func (e Error) Error() string {
	return e.Message
}

// errorFromPanic converts a recovered panic value into a captured-fault
// Error. Go's two conventional panic payloads, error and string, supply
// the message; anything else maps to the unknown-panic sentinel.
func errorFromPanic(v any) Error {
	switch pv := v.(type) {
	case error:
		return Error{Message: pv.Error(), Code: CodeCaptured}
	case string:
		return Error{Message: pv, Code: CodeCaptured}
	default:
		return Error{Message: unknownPanicMessage, Code: CodeCaptured}
	}
}

// rejectOnPanic must be deferred around a user callback. It converts a
// panic in the callback body into a rejection of the promise the reject
// capability belongs to, so the panic never escapes the caller that drove
// the settlement.
func rejectOnPanic(reject func(Error)) {
	if v := recover(); v != nil {
		reject(errorFromPanic(v))
	}
}

// discardPanic must be deferred around a Catch handler. The handler's
// record is already settled and Catch returns the same promise, so there
// is no downstream promise a fault could reject.
func discardPanic() {
	_ = recover()
}
