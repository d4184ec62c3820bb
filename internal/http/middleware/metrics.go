package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type RequestObserver interface {
	ObserveRequest(method string, route string, status int, elapsed time.Duration)
}

// Metrics labels requests by route template so path values do not blow up cardinality.
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			start := time.Now()

			next.ServeHTTP(rec, r)

			observer.ObserveRequest(r.Method, routeTemplate(r), rec.status, time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}

	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}

	return tpl
}
