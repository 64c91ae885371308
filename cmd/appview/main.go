package main

import (
	"context"
	"net/http"
	"os"

	"github.com/Baskerbio/Baskermain-sub000/appview/api"
	"github.com/Baskerbio/Baskermain-sub000/appview/config"
	tlog "github.com/Baskerbio/Baskermain-sub000/log"
)

func main() {
	ctx := context.Background()
	logger := tlog.New("appview")
	ctx = tlog.IntoContext(ctx, logger)

	c, err := config.LoadConfig(ctx)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	app, err := api.Make(ctx, c)
	if err != nil {
		logger.Error("failed to start appview", "err", err)
		os.Exit(-1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close appview", "err", err)
		}
	}()

	logger.Info("starting server", "address", c.Core.ListenAddr)

	if err := http.ListenAndServe(c.Core.ListenAddr, app.Router()); err != nil {
		logger.Error("failed to start appview", "err", err)
	}
}
