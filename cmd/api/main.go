package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/onemed1a/backend/internal/app"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	os.Exit(app.Run("api", logger, run(logger)))
}
