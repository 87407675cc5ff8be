package main

import (
	"blog-api/pkg/config"
	"blog-api/pkg/logger"
	postApp "blog-api/services/post/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Blog Post API
// @version         1.0
// @description     CRUD service for blog posts with image upload and status tracking
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	app, err := postApp.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize post service: %v", err)
		panic(err)
	}

	if err := app.Run(); err != nil {
		log.Error("%v", err)
		panic(err)
	}
}
