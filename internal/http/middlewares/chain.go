// Package middlewares contiene los decoradores http.Handler de la API.
package middlewares

import "net/http"

// Middleware es un decorador de http.Handler
type Middleware func(http.Handler) http.Handler

// Chain aplica middlewares en orden de izquierda a derecha.
// Chain(h, A, B, C) ejecuta: A -> B -> C -> h
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ChainFunc es un helper para encadenar middlewares a un http.HandlerFunc
func ChainFunc(hf http.HandlerFunc, mws ...Middleware) http.Handler {
	return Chain(hf, mws...)
}

// Adapt permite pasar una lista de Middleware a chi (r.Use / r.With).
func Adapt(mws ...Middleware) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, len(mws))
	for i, m := range mws {
		out[i] = m
	}
	return out
}
