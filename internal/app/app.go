// Package app содержит основную структуру приложения и логику инициализации.
// Собирает модель, источник комментариев, сервис и обработчики в HTTP роутер.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/thai_sentiment/internal/buildinfo"
	"github.com/InQaaaaGit/thai_sentiment/internal/config"
	"github.com/InQaaaaGit/thai_sentiment/internal/handler"
	"github.com/InQaaaaGit/thai_sentiment/internal/metrics"
	"github.com/InQaaaaGit/thai_sentiment/internal/middleware"
	"github.com/InQaaaaGit/thai_sentiment/internal/model"
	"github.com/InQaaaaGit/thai_sentiment/internal/presentation"
	"github.com/InQaaaaGit/thai_sentiment/internal/sentiment"
	"github.com/InQaaaaGit/thai_sentiment/internal/server"
	"github.com/InQaaaaGit/thai_sentiment/internal/service"
	"github.com/InQaaaaGit/thai_sentiment/internal/youtube"
)

// App представляет основное приложение сервиса анализа тональности.
// Инкапсулирует конфигурацию, HTTP роутер, логгер, рантайм модели и обработчики запросов.
type App struct {
	config  *config.Config   // Конфигурация приложения
	router  *chi.Mux         // HTTP роутер для обработки запросов
	logger  *zap.Logger      // Логгер для записи событий приложения
	handler *handler.Handler // Обработчики HTTP запросов
	metrics *metrics.Metrics // Prometheus метрики
	runtime model.Runtime    // Загруженная модель
}

// NewApp создает и инициализирует новый экземпляр приложения.
// Модель загружается до того, как сервер начнет принимать запросы,
// если только не включена ленивая загрузка.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, info *buildinfo.Info) (*App, error) {
	runtime, err := model.Load(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	comments, err := youtube.New(ctx, youtube.Options{
		APIKey:      cfg.YouTubeAPIKey,
		AccessToken: cfg.YouTubeAccessToken,
		Endpoint:    cfg.YouTubeEndpoint,
	}, logger.Named("youtube"))
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("create comment source: %w", err)
	}

	a, err := newApp(cfg, logger, info, runtime, comments)
	if err != nil {
		_ = runtime.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg *config.Config, logger *zap.Logger, info *buildinfo.Info, runtime model.Runtime, comments service.CommentSource) (*App, error) {
	presenter, err := presentation.Load(cfg.LabelLocale, cfg.LabelsFile)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	m := metrics.New()
	classifier := sentiment.NewClassifier(runtime, logger.Named("classifier"))
	svc := service.NewSentimentService(classifier, comments, m, logger)
	h := handler.NewHandler(svc, presenter, cfg, logger, runtime.Name(), info.Version)

	a := &App{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		handler: h,
		metrics: m,
		runtime: runtime,
	}
	a.setupRoutes()
	return a, nil
}

// setupRoutes настраивает HTTP маршруты и middleware для приложения
func (a *App) setupRoutes() {
	// Middleware
	a.router.Use(middleware.RequestID)
	a.router.Use(a.handler.WithLogging)
	a.router.Use(middleware.Recoverer(a.logger))
	a.router.Use(middleware.Metrics(a.metrics))
	a.router.Use(middleware.CORS())

	// promhttp сжимает ответ сам
	a.router.Handle("/metrics", a.metrics.Handler())

	a.router.Group(func(r chi.Router) {
		r.Use(a.handler.WithGzip)

		r.Get("/", a.handler.HandleRoot)
		r.Get("/healthz", a.handler.HandleHealth)

		r.Route("/sentiment", func(r chi.Router) {
			r.Post("/predict", a.handler.HandlePredict)
			r.Post("/predict_multiple", a.handler.HandlePredictMultiple)
			r.Post("/predict_file", a.handler.HandlePredictFile)
			r.Post("/youtube", a.handler.HandleYouTube)
		})
	})
}

// Router возвращает настроенный HTTP роутер
func (a *App) Router() http.Handler {
	return a.router
}

// GetServer создает и возвращает настроенный HTTP сервер
func (a *App) GetServer() *http.Server {
	return server.NewHTTPServerFromConfig(a.router, a.config)
}

// Run запускает HTTP или HTTPS сервер и блокируется до отмены ctx.
// После остановки сервера освобождает рантайм модели.
func (a *App) Run(ctx context.Context) error {
	srv := server.NewHTTPServer(a.GetServer(), a.config, a.logger)
	runErr := srv.Run(ctx)
	if err := a.Close(); err != nil {
		a.logger.Error("Error closing model runtime", zap.Error(err))
	}
	return runErr
}

// Close освобождает рантайм модели
func (a *App) Close() error {
	return a.runtime.Close()
}
