package opshttp

import (
	"net/http"
	"net/http/pprof"
)

// RegisterPprof wires the runtime profiling handlers onto mux.
// Only called when pprof is explicitly enabled, the admin port is not exposed publicly.
func RegisterPprof(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
