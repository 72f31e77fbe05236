package main

import (
	"os"

	"github.com/sqve/shipit/internal/app"
	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/logger"
	"github.com/sqve/shipit/internal/ui"
)

func main() {
	if err := app.NewRootCommand().Execute(); err != nil {
		logger.WithError(err).Debug("command failed",
			"code", shiperrors.GetErrorCode(err),
			"context", shiperrors.GetErrorContext(err))
		ui.Default().Error("%v", err)
		os.Exit(1)
	}
}
