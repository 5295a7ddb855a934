package main

import (
	"github.com/hirewire/jobboard/config"
	"github.com/hirewire/jobboard/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
