package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pixel-steganography/config"
	"pixel-steganography/observability"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.RequestMetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"X-Stego-PSNR", "X-Stego-Message", "X-Stego-Capacity", "X-Stego-Symbols", "X-Stego-Filename", "Content-Disposition"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes()
	stegoHandler := NewStegoHandler(logger, cfg.Server.OutputFormat, cfg.Server.MaxUploadBytes())

	observability.RegisterMetrics()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)

		stego := api.Group("/stego")
		{
			stego.POST("/insert", stegoHandler.InsertFile)
			stego.POST("/extract", stegoHandler.ExtractFile)
			stego.POST("/capacity", stegoHandler.Capacity)
		}
	}

	return router
}
