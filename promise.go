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

// Promise is a deferred value of type T. It is a small handle over a
// shared settlement record; copying a Promise copies the handle, and every
// copy observes and drives the same settlement.
//
// The zero Promise has no settlement record: it is valid, permanently
// pending and non-resolvable. Chaining from it yields a promise rejected
// with ErrNoState.
type Promise[T any] struct {
	rec       *record[T]
	resolveFn func(T)
	rejectFn  func(Error)
}

// New builds a Promise and invokes the executor synchronously, exactly
// once, passing the resolve and reject capabilities bound to the new
// promise's settlement record. The executor may call at most one of them,
// either before it returns or at any later time; the capabilities are
// independent closures over the shared record.
//
// A panic in the executor body is captured and converted into a rejection
// with code -1.
func New[T any](executor func(resolve func(T), reject func(Error))) Promise[T] {
	rec := &record[T]{}
	resolve := resolverFor(rec)
	reject := func(e Error) { rec.settleRejected(e) }
	p := Promise[T]{rec: rec, resolveFn: resolve, rejectFn: reject}

	func() {
		defer rejectOnPanic(reject)
		executor(resolve, reject)
	}()
	return p
}

// resolverFor builds the resolve capability for rec. A plain value settles
// the record fulfilled directly. A promise value is adopted instead: the
// record settles only once the inner promise does, collapsing one nesting
// level at a time, with the identity check rejecting self-resolution.
func resolverFor[T any](rec *record[T]) func(T) {
	return func(v T) {
		if rec.state != StatePending {
			return
		}
		inner, ok := any(v).(anyPromise)
		if !ok {
			rec.settleFulfilled(v)
			return
		}
		id := inner.coreID()
		if id == &rec.core {
			rec.settleRejected(ErrChainingCycle)
			return
		}
		if id == nil {
			// a record-less promise never settles, so adopting it would
			// leave rec pending forever
			rec.settleRejected(ErrNoState)
			return
		}
		inner.subscribe(
			func(val any) {
				// when the inner value is assignable to T (for example
				// T = any), the chain collapses to it; otherwise the
				// now-settled inner promise is itself the value.
				if tv, ok := val.(T); ok {
					rec.settleFulfilled(tv)
					return
				}
				rec.settleFulfilled(v)
			},
			rec.settleRejected,
		)
	}
}

// Pending builds a promise with no settled outcome, to be settled later
// through its Resolve and Reject methods. It is the manual-trigger
// counterpart of New.
func Pending[T any]() Promise[T] {
	return New[T](func(func(T), func(Error)) {})
}

// Resolved builds an already-fulfilled promise carrying v. No pending
// window is observable.
func Resolved[T any](v T) Promise[T] {
	return New[T](func(resolve func(T), _ func(Error)) {
		resolve(v)
	})
}

// Rejected builds an already-rejected promise carrying err. No pending
// window is observable.
func Rejected[T any](err Error) Promise[T] {
	return New[T](func(_ func(T), reject func(Error)) {
		reject(err)
	})
}

// RejectedMsg builds an already-rejected promise from a message and code.
func RejectedMsg[T any](message string, code int) Promise[T] {
	return Rejected[T](NewError(message, code))
}

// Resolve settles the promise fulfilled with v, applying the adoption and
// cycle rules when v is itself a promise. It is a no-op on an
// already-settled or record-less promise.
func (p Promise[T]) Resolve(v T) {
	if p.resolveFn != nil {
		p.resolveFn(v)
	}
}

// Reject settles the promise rejected with err. It is a no-op on an
// already-settled or record-less promise.
func (p Promise[T]) Reject(err Error) {
	if p.rejectFn != nil {
		p.rejectFn(err)
	}
}

// RejectMsg is Reject with an Error built from a message and code.
func (p Promise[T]) RejectMsg(message string, code int) {
	p.Reject(NewError(message, code))
}

// Catch registers onRejected on the promise's rejection queue and
// immediately attempts a drain, so the handler also fires when the promise
// was already rejected before the Catch call. It returns the same promise
// for further chaining.
//
// A panic inside onRejected is captured and discarded: the record is
// already settled, so there is no downstream promise to reject.
func (p Promise[T]) Catch(onRejected func(Error)) Promise[T] {
	if p.rec == nil {
		return p
	}
	p.rec.rejected = append(p.rec.rejected, func(e Error) {
		defer discardPanic()
		onRejected(e)
	})
	p.rec.drain()
	return p
}

// State returns the promise's settlement state. A record-less promise
// reports StatePending.
func (p Promise[T]) State() State {
	if p.rec == nil {
		return StatePending
	}
	return p.rec.state
}

func (p Promise[T]) IsPending() bool   { return p.State() == StatePending }
func (p Promise[T]) IsFulfilled() bool { return p.State() == StateFulfilled }
func (p Promise[T]) IsRejected() bool  { return p.State() == StateRejected }

// Value returns the fulfillment value. It is defined only once the promise
// is fulfilled; before that it returns the zero value of T.
func (p Promise[T]) Value() T {
	if p.rec == nil {
		var zero T
		return zero
	}
	return p.rec.value
}

// Err returns the rejection Error. It is defined only once the promise is
// rejected; before that it returns the zero Error.
func (p Promise[T]) Err() Error {
	if p.rec == nil {
		return Error{}
	}
	return p.rec.err
}

// anyPromise implementation, used by the resolve capabilities and the
// chaining functions for runtime promise classification.

func (p Promise[T]) coreID() *core {
	if p.rec == nil {
		return nil
	}
	return &p.rec.core
}

func (p Promise[T]) subscribe(onFulfilled func(val any), onRejected func(Error)) {
	if p.rec == nil {
		return
	}
	p.rec.fulfilled = append(p.rec.fulfilled, func(v T) { onFulfilled(v) })
	p.rec.rejected = append(p.rec.rejected, onRejected)
	p.rec.drain()
}
