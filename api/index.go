package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/app"
	"github.com/wadjakorntonsri/linkfolio/pkg/config"
	"github.com/wadjakorntonsri/linkfolio/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		logger = zap.NewNop()
	}

	// Note: On Vercel, db.sqlite and BLOB_DIR are ephemeral unless DATABASE_URL points at Turso
	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
