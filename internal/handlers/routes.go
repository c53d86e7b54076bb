// internal/handlers/routes.go
package handlers

import (
	"net/http"
	"os"

	"github.com/jason-s-yu/wordbattle/internal/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts the message channel, the health probe and, when staticDir
// exists, the client bundle.
func NewRouter(logger *logrus.Logger, rooms RoomService, limits Limits, staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/ws", middleware.LogMiddleware(logger)(RoomWSHandler(logger, rooms, limits)))
	mux.Handle("/healthz", http.HandlerFunc(HealthHandler))

	if info, err := os.Stat(staticDir); staticDir != "" && err == nil && info.IsDir() {
		mux.Handle("/", middleware.LogMiddleware(logger)(SPAHandler(staticDir)))
	} else {
		logger.Warnf("static dir %q not found, client bundle not served", staticDir)
	}
	return mux
}
