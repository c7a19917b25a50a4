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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStrError is an error implementation that's used only for testing.
// it's a string to allow comparing its values.
type testStrError string

func (t testStrError) Error() string {
	return string(t)
}

func TestNew(t *testing.T) {
	t.Run("executor runs synchronously exactly once", func(t *testing.T) {
		calls := 0
		p := New[int](func(resolve func(int), reject func(Error)) {
			calls++
		})
		require.Equal(t, 1, calls)
		assert.True(t, p.IsPending())
	})

	t.Run("resolve inside executor", func(t *testing.T) {
		p := New[int](func(resolve func(int), _ func(Error)) {
			resolve(5)
		})
		require.True(t, p.IsFulfilled())
		assert.Equal(t, 5, p.Value())
	})

	t.Run("reject inside executor", func(t *testing.T) {
		p := New[int](func(_ func(int), reject func(Error)) {
			reject(NewError("boom", 3))
		})
		require.True(t, p.IsRejected())
		assert.Equal(t, NewError("boom", 3), p.Err())
	})

	t.Run("capabilities usable after the constructor returns", func(t *testing.T) {
		var resolveLater func(int)
		p := New[int](func(resolve func(int), _ func(Error)) {
			resolveLater = resolve
		})
		require.True(t, p.IsPending())
		resolveLater(11)
		require.True(t, p.IsFulfilled())
		assert.Equal(t, 11, p.Value())
	})
}

func TestSingleSettlement(t *testing.T) {
	t.Run("resolve twice", func(t *testing.T) {
		p := Pending[int]()
		p.Resolve(1)
		p.Resolve(2)
		require.True(t, p.IsFulfilled())
		assert.Equal(t, 1, p.Value())
	})

	t.Run("resolve then reject", func(t *testing.T) {
		p := Pending[int]()
		p.Resolve(1)
		p.RejectMsg("late", 0)
		require.True(t, p.IsFulfilled())
		assert.Equal(t, 1, p.Value())
		assert.Equal(t, Error{}, p.Err())
	})

	t.Run("reject then resolve", func(t *testing.T) {
		p := Pending[int]()
		p.RejectMsg("boom", 7)
		p.Resolve(1)
		require.True(t, p.IsRejected())
		assert.Equal(t, NewError("boom", 7), p.Err())
		assert.Equal(t, 0, p.Value())
	})

	t.Run("continuations fire at most once", func(t *testing.T) {
		p := Pending[int]()
		calls := 0
		Then(p, func(v int) int {
			calls++
			return v
		})
		p.Resolve(1)
		p.Resolve(2)
		assert.Equal(t, 1, calls)
	})
}

func TestExecutorPanic(t *testing.T) {
	t.Run("error value", func(t *testing.T) {
		p := New[int](func(func(int), func(Error)) {
			panic(testStrError("kaboom"))
		})
		require.True(t, p.IsRejected())
		assert.Equal(t, "kaboom", p.Err().Message)
		assert.Equal(t, CodeCaptured, p.Err().Code)
	})

	t.Run("string value", func(t *testing.T) {
		p := New[int](func(func(int), func(Error)) {
			panic("kaboom")
		})
		require.True(t, p.IsRejected())
		assert.Equal(t, NewError("kaboom", CodeCaptured), p.Err())
	})

	t.Run("unknown value", func(t *testing.T) {
		p := New[int](func(func(int), func(Error)) {
			panic(42)
		})
		require.True(t, p.IsRejected())
		assert.Equal(t, NewError("Unknown exception", CodeCaptured), p.Err())
	})

	t.Run("panic after resolve keeps the settlement", func(t *testing.T) {
		p := New[int](func(resolve func(int), _ func(Error)) {
			resolve(1)
			panic("too late")
		})
		require.True(t, p.IsFulfilled())
		assert.Equal(t, 1, p.Value())
	})

	t.Run("wrapped error value", func(t *testing.T) {
		inner := errors.New("inner")
		p := New[int](func(func(int), func(Error)) {
			panic(inner)
		})
		require.True(t, p.IsRejected())
		assert.Equal(t, "inner", p.Err().Message)
	})
}

func TestFactories(t *testing.T) {
	t.Run("Resolved", func(t *testing.T) {
		p := Resolved("done")
		require.Equal(t, StateFulfilled, p.State())
		assert.Equal(t, "done", p.Value())
	})

	t.Run("Rejected", func(t *testing.T) {
		p := Rejected[string](NewError("boom", 0))
		require.Equal(t, StateRejected, p.State())
		assert.Equal(t, NewError("boom", 0), p.Err())
	})

	t.Run("RejectedMsg", func(t *testing.T) {
		p := RejectedMsg[string]("boom", 7)
		require.True(t, p.IsRejected())
		assert.Equal(t, "boom", p.Err().Message)
		assert.Equal(t, 7, p.Err().Code)
	})

	t.Run("Pending", func(t *testing.T) {
		p := Pending[string]()
		require.True(t, p.IsPending())
		p.Resolve("later")
		assert.Equal(t, "later", p.Value())
	})
}

func TestResolveAdoption(t *testing.T) {
	t.Run("settled inner value collapses", func(t *testing.T) {
		p := Pending[any]()
		p.Resolve(Resolved[any](5))
		require.True(t, p.IsFulfilled())
		assert.Equal(t, 5, p.Value())
	})

	t.Run("pending inner holds the outer pending", func(t *testing.T) {
		inner := Pending[any]()
		p := Pending[any]()
		p.Resolve(inner)
		require.True(t, p.IsPending())

		inner.Resolve("x")
		require.True(t, p.IsFulfilled())
		assert.Equal(t, "x", p.Value())
	})

	t.Run("inner rejection propagates", func(t *testing.T) {
		inner := Pending[any]()
		p := Pending[any]()
		p.Resolve(inner)

		inner.RejectMsg("inner boom", 9)
		require.True(t, p.IsRejected())
		assert.Equal(t, NewError("inner boom", 9), p.Err())
	})

	t.Run("typed nesting collapses one level", func(t *testing.T) {
		inner := Resolved(3)
		outer := Pending[Promise[int]]()
		outer.Resolve(inner)
		require.True(t, outer.IsFulfilled())
		assert.Equal(t, 3, outer.Value().Value())
	})

	t.Run("self resolution is a chaining cycle", func(t *testing.T) {
		p := Pending[any]()
		p.Resolve(p)
		require.True(t, p.IsRejected())
		assert.Equal(t, ErrChainingCycle, p.Err())
	})

	t.Run("record-less inner rejects", func(t *testing.T) {
		p := Pending[any]()
		p.Resolve(Promise[any]{})
		require.True(t, p.IsRejected())
		assert.Equal(t, ErrNoState, p.Err())
	})
}

func TestCatch(t *testing.T) {
	t.Run("already rejected fires immediately", func(t *testing.T) {
		var got Error
		p := RejectedMsg[int]("boom", 2)
		p.Catch(func(e Error) { got = e })
		assert.Equal(t, NewError("boom", 2), got)
	})

	t.Run("pending fires on rejection", func(t *testing.T) {
		var got Error
		p := Pending[int]()
		p.Catch(func(e Error) { got = e })
		require.Equal(t, Error{}, got)

		p.RejectMsg("boom", 0)
		assert.Equal(t, NewError("boom", 0), got)
	})

	t.Run("not fired on fulfillment", func(t *testing.T) {
		called := false
		p := Pending[int]()
		p.Catch(func(Error) { called = true })
		p.Resolve(1)
		assert.False(t, called)
	})

	t.Run("returns the same promise", func(t *testing.T) {
		p := Pending[int]()
		q := p.Catch(func(Error) {})
		assert.Same(t, p.rec, q.rec)
	})

	t.Run("registration during drain runs in the same pass", func(t *testing.T) {
		p := Pending[int]()
		var order []string
		p.Catch(func(Error) {
			order = append(order, "outer")
			p.Catch(func(Error) {
				order = append(order, "inner")
			})
		})
		p.RejectMsg("boom", 0)
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("handler panic does not escape", func(t *testing.T) {
		p := RejectedMsg[int]("boom", 0)
		assert.NotPanics(t, func() {
			p.Catch(func(Error) { panic("handler fault") })
		})
		assert.True(t, p.IsRejected())
	})
}

func TestZeroValuePromise(t *testing.T) {
	t.Run("permanently pending and non-resolvable", func(t *testing.T) {
		var p Promise[int]
		require.True(t, p.IsPending())
		p.Resolve(1)
		p.RejectMsg("boom", 0)
		assert.True(t, p.IsPending())
		assert.Equal(t, 0, p.Value())
		assert.Equal(t, Error{}, p.Err())
	})

	t.Run("chaining rejects with no state", func(t *testing.T) {
		var p Promise[int]
		q := Then(p, func(v int) int { return v })
		require.True(t, q.IsRejected())
		assert.Equal(t, ErrNoState, q.Err())
		assert.True(t, errors.Is(q.Err(), ErrNoState))
	})

	t.Run("catch is a no-op", func(t *testing.T) {
		var p Promise[int]
		called := false
		q := p.Catch(func(Error) { called = true })
		assert.False(t, called)
		assert.True(t, q.IsPending())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "fulfilled", StateFulfilled.String())
	assert.Equal(t, "rejected", StateRejected.String())
	assert.Equal(t, "<unknown>", State(42).String())
}

func TestErrorValue(t *testing.T) {
	t.Run("implements error", func(t *testing.T) {
		var err error = NewError("boom", 2)
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("sentinels match with errors.Is", func(t *testing.T) {
		p := Pending[any]()
		p.Resolve(p)
		assert.True(t, errors.Is(p.Err(), ErrChainingCycle))
		assert.False(t, errors.Is(p.Err(), ErrNoState))
	})

	t.Run("zero code by default", func(t *testing.T) {
		assert.Equal(t, 0, NewError("plain", 0).Code)
	})
}
