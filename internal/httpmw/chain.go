package httpmw

import (
	"net/http"
)

// Chain wraps h in mws, outermost first. Nil entries are skipped so
// callers can pass optional middleware without branching.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	// apply in reverse so mws[0] ends up outermost
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		h = mws[i](h)
	}
	return h
}
