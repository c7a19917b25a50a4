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

// core is the non-generic half of a settlement record. Its address is the
// record's identity: every promise kind exposes it through the anyPromise
// interface, and the cycle checks compare these pointers. The rejection
// queue lives here because rejection continuations take an Error for every
// promise kind.
type core struct {
	state    State
	err      Error
	rejected []func(Error)
}

// record is the settlement record backing one value-bearing promise
// instance. It is shared, by pointer, among the owning Promise handle, the
// resolve/reject capabilities built at construction, and every continuation
// closure derived from it by chaining.
type record[T any] struct {
	core
	value     T
	fulfilled []func(T)
}

// settleFulfilled transitions the record to StateFulfilled and drains the
// fulfillment queue. It is a no-op unless the record is still StatePending,
// which also makes re-entrant settlement from inside a draining callback
// safe.
func (r *record[T]) settleFulfilled(v T) {
	if r.state != StatePending {
		return
	}
	r.state = StateFulfilled
	r.value = v
	r.drain()
}

// settleRejected is the rejection counterpart of settleFulfilled.
func (r *record[T]) settleRejected(e Error) {
	if r.state != StatePending {
		return
	}
	r.state = StateRejected
	r.err = e
	r.drain()
}

// drain runs the queue matching the record's terminal state, in
// registration order. Both queues are detached before any callback is
// invoked, so each callback runs at most once even if a callback settles
// or registers on this same record. The loop re-checks the queues so that
// callbacks registered during the drain (a late Catch from inside a
// continuation) run in the same settlement pass instead of being dropped.
func (r *record[T]) drain() {
	for {
		switch r.state {
		case StateFulfilled:
			q := r.fulfilled
			r.fulfilled, r.rejected = nil, nil
			if len(q) == 0 {
				return
			}
			for _, cb := range q {
				cb(r.value)
			}
		case StateRejected:
			q := r.rejected
			r.fulfilled, r.rejected = nil, nil
			if len(q) == 0 {
				return
			}
			for _, cb := range q {
				cb(r.err)
			}
		default:
			return
		}
	}
}

// dispatch implements the three-way chaining rule: run the matching
// handler immediately on a settled record, or append both handlers to the
// queues of a pending one, to be run when settlement later drains them.
func (r *record[T]) dispatch(onFulfilled func(T), onRejected func(Error)) {
	switch r.state {
	case StateFulfilled:
		onFulfilled(r.value)
	case StateRejected:
		onRejected(r.err)
	default:
		r.fulfilled = append(r.fulfilled, onFulfilled)
		r.rejected = append(r.rejected, onRejected)
	}
}

// voidRecord is the settlement record backing one void promise instance.
// Same machine as record, with a payload-free fulfillment queue.
type voidRecord struct {
	core
	fulfilled []func()
}

func (r *voidRecord) settleFulfilled() {
	if r.state != StatePending {
		return
	}
	r.state = StateFulfilled
	r.drain()
}

func (r *voidRecord) settleRejected(e Error) {
	if r.state != StatePending {
		return
	}
	r.state = StateRejected
	r.err = e
	r.drain()
}

func (r *voidRecord) drain() {
	for {
		switch r.state {
		case StateFulfilled:
			q := r.fulfilled
			r.fulfilled, r.rejected = nil, nil
			if len(q) == 0 {
				return
			}
			for _, cb := range q {
				cb()
			}
		case StateRejected:
			q := r.rejected
			r.fulfilled, r.rejected = nil, nil
			if len(q) == 0 {
				return
			}
			for _, cb := range q {
				cb(r.err)
			}
		default:
			return
		}
	}
}

func (r *voidRecord) dispatch(onFulfilled func(), onRejected func(Error)) {
	switch r.state {
	case StateFulfilled:
		onFulfilled()
	case StateRejected:
		onRejected(r.err)
	default:
		r.fulfilled = append(r.fulfilled, onFulfilled)
		r.rejected = append(r.rejected, onRejected)
	}
}

// anyPromise is the closed type-classification abstraction over "is this
// value a promise, of any kind". The resolve capabilities and the chaining
// functions use it to detect promise-valued resolutions and returns at
// runtime, to compare record identities for cycle detection, and to adopt
// the eventual outcome of an inner promise.
type anyPromise interface {
	// coreID returns the identity of the backing settlement record, or nil
	// for a record-less (zero value) promise.
	coreID() *core

	// subscribe registers outcome forwarders on the backing record and
	// immediately attempts a drain, so it fires even when the record is
	// already settled. The fulfillment value is passed type-erased.
	// It is a no-op on a record-less promise, which never settles.
	subscribe(onFulfilled func(val any), onRejected func(Error))
}
