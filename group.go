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

import "github.com/hashicorp/go-multierror"

// The group combinators compose a list of promises into one. They run no
// goroutines: each combinator registers counting continuations on its
// inputs and is driven by whichever caller settles them, preserving the
// package's synchronous execution model. Record-less (zero value) inputs
// never settle, so they hold the combined promise pending forever, like
// any other permanently pending input.

// allRejectedMessage heads the aggregate Error Any rejects with.
const allRejectedMessage = "All promises were rejected"

// All returns a Promise that fulfills with every input's value, in input
// order, once all inputs fulfill, or rejects with the first rejection
// among them. An empty input list fulfills immediately with an empty
// slice.
func All[T any](ps ...Promise[T]) Promise[[]T] {
	return New[[]T](func(resolve func([]T), reject func(Error)) {
		if len(ps) == 0 {
			resolve([]T{})
			return
		}
		values := make([]T, len(ps))
		remaining := len(ps)
		for i, p := range ps {
			if p.rec == nil {
				continue
			}
			i := i
			p.rec.dispatch(func(v T) {
				values[i] = v
				remaining--
				if remaining == 0 {
					resolve(values)
				}
			}, reject)
		}
	})
}

// Any returns a Promise that adopts the first fulfillment among the
// inputs. If every input rejects, it rejects with an aggregate Error
// (code -1) combining the input rejections in input order. An empty input
// list rejects immediately.
func Any[T any](ps ...Promise[T]) Promise[T] {
	return New[T](func(resolve func(T), reject func(Error)) {
		if len(ps) == 0 {
			reject(NewError(allRejectedMessage, CodeCaptured))
			return
		}
		errs := make([]Error, len(ps))
		remaining := len(ps)
		for i, p := range ps {
			if p.rec == nil {
				continue
			}
			i := i
			p.rec.dispatch(resolve, func(e Error) {
				errs[i] = e
				remaining--
				if remaining == 0 {
					var agg *multierror.Error
					for _, err := range errs {
						agg = multierror.Append(agg, err)
					}
					reject(NewError(allRejectedMessage+": "+agg.Error(), CodeCaptured))
				}
			})
		}
	})
}

// Race returns a Promise that adopts the first settlement of any kind
// among the inputs. An empty input list, or one whose inputs never settle,
// leaves it pending forever.
func Race[T any](ps ...Promise[T]) Promise[T] {
	return New[T](func(resolve func(T), reject func(Error)) {
		for _, p := range ps {
			if p.rec == nil {
				continue
			}
			p.rec.dispatch(resolve, reject)
		}
	})
}
