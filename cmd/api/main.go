package main

import (
	"context"
	"log"
	"net/http"

	"github.com/vishalm342/ShelfSense/cmd/api/router"
	"github.com/vishalm342/ShelfSense/internal/logger"
	"github.com/vishalm342/ShelfSense/config"
	"github.com/vishalm342/ShelfSense/db"
	_ "github.com/vishalm342/ShelfSense/docs" // generated by swag
)

// @title           ShelfSense API
// @version         1.0
// @description     Personal library tracker with AI-powered book recommendations
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")

	if err := db.Init(context.Background()); err != nil {
		log.Fatal(err)
	}

	r, err := router.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := r.Run(":8080"); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
