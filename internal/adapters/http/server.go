// Package http exposes a read-only observation surface over a flume store:
// the current committed state as JSON and a live server-sent-events stream
// of commits. It is a collaborator of the core, not part of it; dispatching
// stays in-process.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/statewise/flume"
)

type stateResponse[S any] struct {
	State S `json:"state"`
}

// NewHandler builds the observation handler for the given store.
func NewHandler[S any](store *flume.Store[S]) http.Handler {
	r := chi.NewRouter()

	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stateResponse[S]{State: store.State()}); err != nil {
			http.Error(w, fmt.Sprintf("encode state: %v", err), http.StatusInternalServerError)
		}
	})

	r.Get("/watch", func(w http.ResponseWriter, req *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		ch, err := store.Watch(req.Context())
		if err != nil {
			// The store is closed; the sequence is finished.
			http.Error(w, err.Error(), http.StatusGone)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for state := range ch {
			data, err := json.Marshal(state)
			if err != nil {
				fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
				flusher.Flush()
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	})

	return r
}
