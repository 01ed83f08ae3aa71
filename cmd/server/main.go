package main

import (
	"net/http"
	"strings"

	"sheet-unfold-go/internal/config"
	"sheet-unfold-go/internal/handler"
	"sheet-unfold-go/internal/service"
	"sheet-unfold-go/internal/sketch"
	"sheet-unfold-go/internal/unfold"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Инициализируем логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.Info("Запуск Sheet Unfold API Server")

	// Получаем конфигурацию из файла и переменных окружения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	configureLogger(logger, cfg)

	// Инициализируем эскизы
	renderer, err := sketch.NewRenderer(cfg.Sketch.Width, cfg.Sketch.Height)
	if err != nil {
		logger.Fatalf("Ошибка инициализации эскизов: %v", err)
	}

	// Инициализируем сервисы
	unfoldService := service.NewUnfoldService(unfold.NewCalculator(), renderer, cfg.Unfold.DefaultThickness, logger)

	// Проверяем расчет перед запуском
	if health := unfoldService.CheckHealth(); health.Status != "healthy" {
		logger.Fatalf("Расчет развертки недоступен: %s", health.Status)
	}

	// Инициализируем обработчики
	unfoldHandler := handler.NewUnfoldHandler(unfoldService, cfg.Upload.MaxBytes, logger)

	// Настраиваем Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Регистрируем маршруты
	unfoldHandler.RegisterRoutes(router)

	// Добавляем базовый маршрут для проверки
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Sheet Unfold API Server",
			"version": service.Version,
			"status":  "running",
		})
	})

	// Запускаем сервер
	logger.Infof("Сервер запущен на %s", cfg.Addr())
	logger.Infof("API доступно по адресу: http://localhost:%d/api/v1", cfg.Server.Port)

	if err := router.Run(cfg.Addr()); err != nil {
		logger.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

// configureLogger применяет уровень и формат логов из конфигурации
func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logger.Warnf("Неизвестный уровень логирования %q, используется info", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Logging.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// corsMiddleware добавляет заголовки CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
