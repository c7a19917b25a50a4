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

// Package promise provides a JavaScript-style deferred-value primitive:
// a Promise is settled exactly once, to either a value or an Error, and
// continuations registered on it run once that settlement is known.
//
// A Promise has three states, and it can be in only one of them, at any time:
// StatePending: the promise has not been settled yet.
// StateFulfilled: the promise has been settled with a value.
// StateRejected: the promise has been settled with an Error.
//
// Settlement is monotonic. Once a promise leaves StatePending, its state and its
// stored value or error never change, and any later resolve or reject call
// on the same promise is a no-op.
//
// # Construction
//
// A promise is built by handing New an executor, a function that receives
// the resolve and reject capabilities bound to the new promise:
//
//	p := promise.New(func(resolve func(int), reject func(promise.Error)) {
//		resolve(5)
//	})
//
// The executor runs synchronously, exactly once, before New returns. The
// two capabilities are independent closures over the promise's shared
// settlement record, so they may also be stored and called long after the
// constructor returned. A panic inside the executor body is captured and
// turned into a rejection carrying code -1.
//
// Already-settled promises are built with the Resolved, Rejected and
// RejectedMsg factories, and Pending builds a promise that is settled
// later through its Resolve and Reject methods.
//
// # Chaining
//
// Go methods cannot introduce new type parameters, so chaining operations
// that change the value type are package-level generic functions. The
// result type is stated at the call site, which replaces the return-type
// inference of dynamically typed promise implementations:
//
//	q := promise.Then(p, func(v int) string { return strconv.Itoa(v) })
//
// Then registers a fulfillment continuation and forwards rejections
// unchanged. ThenCatch additionally takes a rejection handler whose return
// settles the produced promise under the same rules. ThenPromise is the
// monadic form: its callback returns a promise, and the produced promise is
// flattened to the inner value type, never double-wrapped. ThenVoid chains
// into a VoidPromise, and ThenValue chains a VoidPromise back into a
// value-bearing promise.
//
// A continuation that panics rejects the promise produced by the chaining
// call; the panic never escapes to whichever caller drove the settlement.
//
// # Flattening and cycles
//
// A promise is never fulfilled with an unsettled promise. Resolving a
// promise with another promise adopts it: the outer promise settles only
// once the inner one does, collapsing one nesting level at a time until a
// non-promise value settles the chain. A resolution or continuation return
// whose settlement record is the very record being settled would wait on
// itself forever, so it is detected by record identity and rejected with
// ErrChainingCycle instead.
//
// # Zero value
//
// The zero Promise and VoidPromise have no settlement record. They are
// valid, permanently pending and non-resolvable; chaining from one yields
// a promise rejected with ErrNoState, and Catch on one is a no-op.
//
// # Concurrency
//
// There is no internal scheduler and no internal locking. Every executor,
// continuation and drain step runs to completion on the calling goroutine.
// Continuations registered on the same promise fire in registration order,
// exactly once. Settlement and registration calls on one promise must be
// serialized by the caller; promises shared across goroutines need
// external synchronization.
package promise
