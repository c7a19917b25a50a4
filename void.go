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

// VoidPromise is the payload-free variant of Promise: fulfillment carries
// no value, only completion. The state machine, queuing, flattening and
// cycle rules are the same as Promise's.
//
// Void-to-void chaining needs no new type parameters, so it is exposed as
// methods; chaining into a value-bearing promise goes through the
// package-level ThenValue and ThenValueCatch.
//
// The zero VoidPromise has no settlement record: permanently pending and
// non-resolvable, with chaining from it rejected with ErrNoState.
type VoidPromise struct {
	rec       *voidRecord
	resolveFn func()
	rejectFn  func(Error)
}

// NewVoid builds a VoidPromise and invokes the executor synchronously,
// exactly once. A panic in the executor body is captured and converted
// into a rejection with code -1.
func NewVoid(executor func(resolve func(), reject func(Error))) VoidPromise {
	rec := &voidRecord{}
	resolve := func() { rec.settleFulfilled() }
	reject := func(e Error) { rec.settleRejected(e) }
	p := VoidPromise{rec: rec, resolveFn: resolve, rejectFn: reject}

	func() {
		defer rejectOnPanic(reject)
		executor(resolve, reject)
	}()
	return p
}

// PendingVoid builds a void promise to be settled later through its
// Resolve and Reject methods.
func PendingVoid() VoidPromise {
	return NewVoid(func(func(), func(Error)) {})
}

// ResolvedVoid builds an already-fulfilled void promise.
func ResolvedVoid() VoidPromise {
	return NewVoid(func(resolve func(), _ func(Error)) {
		resolve()
	})
}

// RejectedVoid builds an already-rejected void promise carrying err.
func RejectedVoid(err Error) VoidPromise {
	return NewVoid(func(_ func(), reject func(Error)) {
		reject(err)
	})
}

// RejectedVoidMsg builds an already-rejected void promise from a message
// and code.
func RejectedVoidMsg(message string, code int) VoidPromise {
	return RejectedVoid(NewError(message, code))
}

// Resolve settles the promise fulfilled. It is a no-op on an
// already-settled or record-less promise.
func (p VoidPromise) Resolve() {
	if p.resolveFn != nil {
		p.resolveFn()
	}
}

// Reject settles the promise rejected with err. It is a no-op on an
// already-settled or record-less promise.
func (p VoidPromise) Reject(err Error) {
	if p.rejectFn != nil {
		p.rejectFn(err)
	}
}

// RejectMsg is Reject with an Error built from a message and code.
func (p VoidPromise) RejectMsg(message string, code int) {
	p.Reject(NewError(message, code))
}

// Then returns a new VoidPromise that fulfills once onFulfilled returns.
// If p rejects, the same Error is forwarded to the new promise unchanged.
func (p VoidPromise) Then(onFulfilled func()) VoidPromise {
	if p.rec == nil {
		return RejectedVoid(ErrNoState)
	}
	src := p.rec
	return NewVoid(func(resolve func(), reject func(Error)) {
		src.dispatch(func() {
			defer rejectOnPanic(reject)
			onFulfilled()
			resolve()
		}, reject)
	})
}

// ThenCatch is Then with a rejection handler; the returned promise
// fulfills once either handler returns.
func (p VoidPromise) ThenCatch(onFulfilled func(), onRejected func(Error)) VoidPromise {
	if p.rec == nil {
		return RejectedVoid(ErrNoState)
	}
	src := p.rec
	return NewVoid(func(resolve func(), reject func(Error)) {
		src.dispatch(func() {
			defer rejectOnPanic(reject)
			onFulfilled()
			resolve()
		}, func(e Error) {
			defer rejectOnPanic(reject)
			onRejected(e)
			resolve()
		})
	})
}

// ThenPromise returns a new VoidPromise that adopts the promise returned
// by onFulfilled, collapsing a void promise of a void promise to one
// level. Returning a promise that shares p's settlement record rejects
// the new promise with ErrChainingCycle; a record-less return rejects it
// with ErrNoState.
func (p VoidPromise) ThenPromise(onFulfilled func() VoidPromise) VoidPromise {
	if p.rec == nil {
		return RejectedVoid(ErrNoState)
	}
	src := p.rec
	return NewVoid(func(resolve func(), reject func(Error)) {
		src.dispatch(func() {
			defer rejectOnPanic(reject)
			settleFromVoidPromise(&src.core, onFulfilled(), resolve, reject)
		}, reject)
	})
}

// ThenPromiseCatch is ThenPromise with a rejection handler whose returned
// promise is adopted the same way.
func (p VoidPromise) ThenPromiseCatch(onFulfilled func() VoidPromise, onRejected func(Error) VoidPromise) VoidPromise {
	if p.rec == nil {
		return RejectedVoid(ErrNoState)
	}
	src := p.rec
	return NewVoid(func(resolve func(), reject func(Error)) {
		src.dispatch(func() {
			defer rejectOnPanic(reject)
			settleFromVoidPromise(&src.core, onFulfilled(), resolve, reject)
		}, func(e Error) {
			defer rejectOnPanic(reject)
			settleFromVoidPromise(&src.core, onRejected(e), resolve, reject)
		})
	})
}

// Catch registers onRejected on the promise's rejection queue and
// immediately attempts a drain. It returns the same promise for further
// chaining. A panic inside onRejected is captured and discarded.
func (p VoidPromise) Catch(onRejected func(Error)) VoidPromise {
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
func (p VoidPromise) State() State {
	if p.rec == nil {
		return StatePending
	}
	return p.rec.state
}

func (p VoidPromise) IsPending() bool   { return p.State() == StatePending }
func (p VoidPromise) IsFulfilled() bool { return p.State() == StateFulfilled }
func (p VoidPromise) IsRejected() bool  { return p.State() == StateRejected }

// Err returns the rejection Error. It is defined only once the promise is
// rejected; before that it returns the zero Error.
func (p VoidPromise) Err() Error {
	if p.rec == nil {
		return Error{}
	}
	return p.rec.err
}

// ThenValue chains a VoidPromise into a value-bearing promise settled by
// the return value of onFulfilled. If p rejects, the same Error is
// forwarded unchanged.
func ThenValue[U any](p VoidPromise, onFulfilled func() U) Promise[U] {
	if p.rec == nil {
		return Rejected[U](ErrNoState)
	}
	src := p.rec
	return New[U](func(resolve func(U), reject func(Error)) {
		src.dispatch(func() {
			defer rejectOnPanic(reject)
			settleFromReturn(&src.core, onFulfilled(), resolve, reject)
		}, reject)
	})
}

// ThenValueCatch is ThenValue with a rejection handler whose return value
// settles the new promise under the same rules.
func ThenValueCatch[U any](p VoidPromise, onFulfilled func() U, onRejected func(Error) U) Promise[U] {
	if p.rec == nil {
		return Rejected[U](ErrNoState)
	}
	src := p.rec
	return New[U](func(resolve func(U), reject func(Error)) {
		src.dispatch(func() {
			defer rejectOnPanic(reject)
			settleFromReturn(&src.core, onFulfilled(), resolve, reject)
		}, rejectHandler(&src.core, onRejected, resolve, reject))
	})
}

func settleFromVoidPromise(srcID *core, result VoidPromise, resolve func(), reject func(Error)) {
	if result.rec == nil {
		reject(ErrNoState)
		return
	}
	if &result.rec.core == srcID {
		reject(ErrChainingCycle)
		return
	}
	result.rec.dispatch(resolve, reject)
}

// anyPromise implementation: lets a VoidPromise be adopted when it shows
// up as a resolution value or a continuation return.

func (p VoidPromise) coreID() *core {
	if p.rec == nil {
		return nil
	}
	return &p.rec.core
}

func (p VoidPromise) subscribe(onFulfilled func(val any), onRejected func(Error)) {
	if p.rec == nil {
		return
	}
	p.rec.fulfilled = append(p.rec.fulfilled, func() { onFulfilled(nil) })
	p.rec.rejected = append(p.rec.rejected, onRejected)
	p.rec.drain()
}
