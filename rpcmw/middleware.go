// Package rpcmw is a chain of gRPC client middlewares, grounded on the
// userver ugrpc client middleware contract (MiddlewareCallContext.Next(),
// MiddlewareBase.Handle) and rendered as a grpc.UnaryClientInterceptor so
// it plugs into google.golang.org/grpc the way the teacher's own tracing
// and caching clients plug into their transports.
package rpcmw

import (
	"context"

	"google.golang.org/grpc"

	"cotask/debug"
)

// CallInfo describes the RPC a middleware chain is wrapping.
type CallInfo struct {
	Method string
}

// Middleware intercepts a single outgoing unary RPC. Handle must call
// c.Next() to continue the chain (possibly after adjusting c's context or
// inspecting the eventual error), or return without calling it to short-
// circuit the call entirely.
type Middleware interface {
	Handle(c *MiddlewareCallContext) error
}

// MiddlewareCallContext is threaded through a chain of Middlewares for a
// single RPC, playing the role of userver's MiddlewareCallContext: it
// exposes the call's identity and carries the continuation that eventually
// reaches the real transport invoker.
type MiddlewareCallContext struct {
	ctx     context.Context
	info    CallInfo
	req     interface{}
	reply   interface{}
	cc      *grpc.ClientConn
	opts    []grpc.CallOption
	rest    []Middleware
	invoker grpc.UnaryInvoker
}

// Context returns the context currently in effect for this call. A
// middleware that needs to attach values (a span, a deadline) calls
// WithContext before calling Next.
func (c *MiddlewareCallContext) Context() context.Context {
	return c.ctx
}

// WithContext replaces the context used for the rest of the chain,
// including the eventual transport invocation.
func (c *MiddlewareCallContext) WithContext(ctx context.Context) {
	c.ctx = ctx
}

// GetCall returns the call's static info.
func (c *MiddlewareCallContext) GetCall() CallInfo {
	return c.info
}

// GetInitialRequest returns the request message as passed to Invoke.
func (c *MiddlewareCallContext) GetInitialRequest() interface{} {
	return c.req
}

// Next invokes the remainder of the chain: the next middleware if one
// remains, or the real transport invoker once the chain is exhausted.
func (c *MiddlewareCallContext) Next() error {
	if len(c.rest) == 0 {
		return c.invoker(c.ctx, c.info.Method, c.req, c.reply, c.cc, c.opts...)
	}
	mw := c.rest[0]
	c.rest = c.rest[1:]
	return mw.Handle(c)
}

// Chain is an ordered sequence of middlewares applied to every outgoing
// unary RPC on a client connection.
type Chain struct {
	middlewares []Middleware
}

// NewChain builds a chain that runs middlewares in order, first to last,
// before the real RPC, and then unwinds back to front as each Handle call
// returns.
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// UnaryClientInterceptor adapts the chain into a grpc.UnaryClientInterceptor
// suitable for grpc.WithChainUnaryInterceptor.
func (ch *Chain) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		c := &MiddlewareCallContext{
			ctx:     ctx,
			info:    CallInfo{Method: method},
			req:     req,
			reply:   reply,
			cc:      cc,
			opts:    opts,
			rest:    ch.middlewares,
			invoker: invoker,
		}
		err := c.Next()
		if err != nil {
			debug.DPrintf(debug.RPCMW, "%s failed: %v", method, err)
		}
		return err
	}
}
