// Package statusweb exposes a single /status JSON endpoint over the
// last progress event reported by package progressrpc, for a
// browser-based front end driving a conversion run.
package statusweb

import (
	"encoding/json"
	"net/http"

	"github.com/zenazn/goji"
	"github.com/zenazn/goji/web"

	"github.com/Deep-In-Sight/ply2lcc/progressrpc"
)

// Mount registers the /status route against goji's default mux,
// reading its response from the given progress relay server.
func Mount(server *progressrpc.Server) {
	goji.Get("/status", statusHandler(server))
}

func statusHandler(server *progressrpc.Server) web.HandlerFunc {
	return func(c web.C, w http.ResponseWriter, r *http.Request) {
		event := server.LastEvent()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Percent int    `json:"percent"`
			Message string `json:"message"`
		}{Percent: event.Percent, Message: event.Message})
	}
}

// Serve starts goji's default mux (blocking); the bind address is
// controlled by goji's own -bind flag, following its standard usage.
func Serve() {
	goji.Serve()
}
