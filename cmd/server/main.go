package main

import (
	"context"
	"log"

	"ailetic/config"
	"ailetic/internal/server"

	_ "ailetic/cmd/server/docs"
)

// @title           Ailetic compute API
// @version         1.0
// @description     Pipelines exposed as HTTP compute routes. Each route takes an uploaded file or a data field and answers with a base64 encoded result.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:5001
// @BasePath  /api/compute

func main() {
	// Configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	ctx := context.Background()
	s := server.NewServer(cfg)
	if err := s.Run(ctx, cfg); err != nil {
		log.Fatalf("Server error: %s", err)
	}
}
