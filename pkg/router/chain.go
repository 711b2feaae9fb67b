package router

import (
	"errors"
	"fmt"
)

// ErrChainExhausted is returned when next is called past the terminal
// handler.
var ErrChainExhausted = errors.New("router: next called past the end of the middleware chain")

// errNoResponse guards against a thunk returning neither a response
// nor an error.
var errNoResponse = errors.New("router: handler produced no response")

// chain is an index-based continuation over an ordered list of thunks:
// one per matched middleware handler, followed by one terminal thunk
// invoking the resolved route or fallback handler. The index advances
// monotonically; a thunk that never calls next leaves the rest of the
// list unexecuted.
type chain struct {
	thunks []Next
	index  int
}

func (c *chain) next() (*Response, error) {
	if c.index >= len(c.thunks) {
		return nil, ErrChainExhausted
	}
	thunk := c.thunks[c.index]
	c.index++
	return thunk()
}

// runChain flattens the matched middlewares into thunks (a middleware
// module with several handlers contributes one thunk per handler, in
// order), appends the terminal thunk, and starts execution. Panics
// anywhere in the chain surface as errors so the caller's error path
// handles them like any other failure.
func runChain(ctx *Context, middlewares []*MiddlewareRoute, terminal Next) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("router: panic in handler chain: %w", e)
			} else {
				err = fmt.Errorf("router: panic in handler chain: %v", r)
			}
		}
	}()

	c := &chain{}
	for _, mw := range middlewares {
		for _, m := range mw.handlers {
			m := m
			c.thunks = append(c.thunks, func() (*Response, error) {
				return m.Handle(ctx, c.next)
			})
		}
	}
	c.thunks = append(c.thunks, terminal)

	resp, err = c.next()
	if resp == nil && err == nil {
		err = errNoResponse
	}
	return resp, err
}
