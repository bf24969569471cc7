package main

import (
	"github.com/Raimguhinov/remind-go/internal/app"
	"github.com/Raimguhinov/remind-go/internal/config"
)

func main() {
	cfg := config.GetConfig()

	app.Run(cfg)
}
