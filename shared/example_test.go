package shared_test

import (
	"github.com/philipp01105/swaplog/envlog"
	"github.com/philipp01105/swaplog/logger"
	"github.com/philipp01105/swaplog/shared"
)

func Example() {
	log := shared.New(envlog.ColorAuto)
	defer log.Close()

	log.MustInit()

	logger.Info("started", logger.String("mode", "auto"))

	// Safe while other goroutines are logging.
	log.SetColorChoice(envlog.ColorNever)
	logger.Info("colors off")
}
