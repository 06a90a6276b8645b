package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const RequestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Tag every request with an id and log it once it is served
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestId := req.Header.Get(RequestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
			}
			w.Header().Set(RequestIdHeader, requestId)

			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, req)

			log.WithFields(log.Fields{
				"request_id": requestId,
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     recorder.status,
				"duration":   time.Since(started),
			}).Debug("request served")
		})
	})
}
