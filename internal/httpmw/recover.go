package httpmw

import (
	"net/http"
	"runtime/debug"

	"github.com/keithlinneman/linnemanlabs-blogapi/internal/log"
	"github.com/keithlinneman/linnemanlabs-blogapi/internal/xerrors"
)

// Recover catches handler panics, logs them with a stack, serves a plain 500,
// and invokes onPanic (if set) for alerting/metrics.
func Recover(L log.Logger, onPanic func()) func(http.Handler) http.Handler {
	if L == nil {
		L = log.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler is the sanctioned way to abort a
				// response; let it propagate.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				if onPanic != nil {
					onPanic()
				}

				err, ok := rec.(error)
				if !ok {
					err = xerrors.Newf("panic: %v", rec)
				}
				L.Error(r.Context(), err, "panic in http handler",
					"url.path", r.URL.Path,
					"http.request.method", r.Method,
					"panic_stack", string(debug.Stack()),
				)

				// headers may already be sent; best effort
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
