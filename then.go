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

// The chaining operations live at package level because Go methods cannot
// introduce new type parameters. The produced promise's value type is the
// continuation's return type, stated at the call site; the *Promise
// variants are the monadic forms whose returned promise is flattened,
// never double-wrapped.
//
// Every continuation body is panic-captured: a fault rejects the promise
// produced by the chaining call and never escapes the caller that drove
// the settlement.

// Then returns a new Promise settled by the return value of onFulfilled
// once p fulfills. If p rejects, the same Error is forwarded to the new
// promise unchanged.
//
// If p is already settled, the appropriate path runs before Then returns;
// otherwise the continuation is queued on p's settlement record.
func Then[T, U any](p Promise[T], onFulfilled func(T) U) Promise[U] {
	if p.rec == nil {
		return Rejected[U](ErrNoState)
	}
	src := p.rec
	return New[U](func(resolve func(U), reject func(Error)) {
		src.dispatch(fulfillHandler(&src.core, onFulfilled, resolve, reject), reject)
	})
}

// ThenCatch is Then with a rejection handler: if p rejects, onRejected
// runs instead of forwarding, and its return value settles the new promise
// under the same rules as onFulfilled's.
func ThenCatch[T, U any](p Promise[T], onFulfilled func(T) U, onRejected func(Error) U) Promise[U] {
	if p.rec == nil {
		return Rejected[U](ErrNoState)
	}
	src := p.rec
	return New[U](func(resolve func(U), reject func(Error)) {
		src.dispatch(
			fulfillHandler(&src.core, onFulfilled, resolve, reject),
			rejectHandler(&src.core, onRejected, resolve, reject),
		)
	})
}

// ThenPromise returns a new Promise that adopts the promise returned by
// onFulfilled: the result is a Promise of the inner value type, never a
// promise of a promise. Returning a promise that shares p's settlement
// record rejects the new promise with ErrChainingCycle; returning a
// record-less promise rejects it with ErrNoState. If p rejects, the same
// Error is forwarded unchanged.
func ThenPromise[T, U any](p Promise[T], onFulfilled func(T) Promise[U]) Promise[U] {
	if p.rec == nil {
		return Rejected[U](ErrNoState)
	}
	src := p.rec
	return New[U](func(resolve func(U), reject func(Error)) {
		src.dispatch(func(v T) {
			defer rejectOnPanic(reject)
			settleFromPromise(&src.core, onFulfilled(v), resolve, reject)
		}, reject)
	})
}

// ThenPromiseCatch is ThenPromise with a rejection handler whose returned
// promise is adopted the same way.
func ThenPromiseCatch[T, U any](p Promise[T], onFulfilled func(T) Promise[U], onRejected func(Error) Promise[U]) Promise[U] {
	if p.rec == nil {
		return Rejected[U](ErrNoState)
	}
	src := p.rec
	return New[U](func(resolve func(U), reject func(Error)) {
		src.dispatch(func(v T) {
			defer rejectOnPanic(reject)
			settleFromPromise(&src.core, onFulfilled(v), resolve, reject)
		}, func(e Error) {
			defer rejectOnPanic(reject)
			settleFromPromise(&src.core, onRejected(e), resolve, reject)
		})
	})
}

// ThenVoid chains a continuation that produces no value: the returned
// VoidPromise fulfills once onFulfilled returns. If p rejects, the same
// Error is forwarded unchanged.
func ThenVoid[T any](p Promise[T], onFulfilled func(T)) VoidPromise {
	if p.rec == nil {
		return RejectedVoid(ErrNoState)
	}
	src := p.rec
	return NewVoid(func(resolve func(), reject func(Error)) {
		src.dispatch(func(v T) {
			defer rejectOnPanic(reject)
			onFulfilled(v)
			resolve()
		}, reject)
	})
}

// ThenVoidCatch is ThenVoid with a rejection handler; the returned
// VoidPromise fulfills once either handler returns.
func ThenVoidCatch[T any](p Promise[T], onFulfilled func(T), onRejected func(Error)) VoidPromise {
	if p.rec == nil {
		return RejectedVoid(ErrNoState)
	}
	src := p.rec
	return NewVoid(func(resolve func(), reject func(Error)) {
		src.dispatch(func(v T) {
			defer rejectOnPanic(reject)
			onFulfilled(v)
			resolve()
		}, func(e Error) {
			defer rejectOnPanic(reject)
			onRejected(e)
			resolve()
		})
	})
}

// fulfillHandler wraps a value-returning fulfillment continuation:
// panic capture, source-identity cycle check on a promise-typed return,
// then settlement of the produced promise through its resolve capability
// (which applies the adoption rules when the return is a promise).
func fulfillHandler[T, U any](srcID *core, onFulfilled func(T) U, resolve func(U), reject func(Error)) func(T) {
	return func(v T) {
		defer rejectOnPanic(reject)
		settleFromReturn(srcID, onFulfilled(v), resolve, reject)
	}
}

// rejectHandler is fulfillHandler for a value-returning rejection handler.
func rejectHandler[U any](srcID *core, onRejected func(Error) U, resolve func(U), reject func(Error)) func(Error) {
	return func(e Error) {
		defer rejectOnPanic(reject)
		settleFromReturn(srcID, onRejected(e), resolve, reject)
	}
}

func settleFromReturn[U any](srcID *core, result U, resolve func(U), reject func(Error)) {
	if inner, ok := any(result).(anyPromise); ok {
		if id := inner.coreID(); id != nil && id == srcID {
			reject(ErrChainingCycle)
			return
		}
	}
	resolve(result)
}

func settleFromPromise[U any](srcID *core, result Promise[U], resolve func(U), reject func(Error)) {
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
