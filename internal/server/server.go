package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/job"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/scoring"
)

const serviceName = "Resume Matcher API"

// Config holds the HTTP layer limits.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	UploadDir      string        `mapstructure:"upload-dir"`
	MaxFileSize    int64         `mapstructure:"max-file-size"`
	MaxResumes     int           `mapstructure:"max-resumes"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:5000",
		UploadDir:      "uploads",
		MaxFileSize:    4 * 1024 * 1024,
		MaxResumes:     100,
		RequestTimeout: 60 * time.Second,
	}
}

// Matcher is the part of the matching pipeline the HTTP layer needs.
type Matcher interface {
	ParseResume(path string) (*resume.Candidate, error)
	Match(ctx context.Context, jobDescription string, resumePaths []string, opts matching.Options) (*scoring.Results, error)
	AnalyzeJobText(text string) *job.Requirements
}

// Server exposes the matcher over HTTP.
type Server struct {
	app     *fiber.App
	cfg     Config
	matcher Matcher
	storage *Storage
	logger  *zap.Logger
}

// New creates the upload directory and registers all routes.
func New(cfg Config, matcher Matcher, l *zap.Logger) (*Server, error) {
	l = logger.OrNop(l)
	def := DefaultConfig()
	if cfg.UploadDir == "" {
		cfg.UploadDir = def.UploadDir
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = def.MaxFileSize
	}
	if cfg.MaxResumes <= 0 {
		cfg.MaxResumes = def.MaxResumes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}

	storage := NewStorage(cfg.UploadDir)
	if err := storage.EnsureDir(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		matcher: matcher,
		storage: storage,
		logger:  l,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               serviceName,
		ReadTimeout:           cfg.RequestTimeout,
		WriteTimeout:          cfg.RequestTimeout,
		BodyLimit:             int(cfg.MaxFileSize) + 64*1024,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/upload", s.handleUpload)
	api.Post("/parse-resume", s.handleParseResume)
	api.Post("/analyze-job", s.handleAnalyzeJob)
	api.Post("/match", s.handleMatch)
	api.Post("/delete-file", s.handleDeleteFile)
	api.Post("/export", s.handleExport)

	return s, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.cfg.Addr), zap.String("upload_dir", s.cfg.UploadDir))
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	}
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
