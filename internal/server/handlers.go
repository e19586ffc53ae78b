package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/extract"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/report"
)

const defaultTopN = 10

type fileRequest struct {
	Filename string `json:"filename"`
}

type matchRequest struct {
	JobDescription string   `json:"job_description"`
	Filenames      []string `json:"filenames"`
	TopN           *int     `json:"top_n"`
	// MinScore is a percentage in [0,100].
	MinScore float64 `json:"min_score"`
}

type jobRequest struct {
	JobDescription string `json:"job_description"`
}

type exportRequest struct {
	Results []report.Entry `json:"results"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file provided")
	}
	if file.Filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "No file selected")
	}
	if file.Size > s.cfg.MaxFileSize {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("File too large. Max size: %d bytes", s.cfg.MaxFileSize))
	}

	name, err := s.storage.Save(file)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid file type. Allowed: "+strings.Join(extract.SupportedExtensions(), ", "))
		}
		return err
	}

	s.logger.Info("file uploaded", zap.String("filename", name), zap.Int64("size", file.Size))

	return c.JSON(fiber.Map{
		"success":  true,
		"filename": name,
		"message":  "File uploaded successfully",
	})
}

func (s *Server) handleParseResume(c *fiber.Ctx) error {
	var req fileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Filename required")
	}

	path, err := s.storage.Path(req.Filename)
	if err != nil || !s.storage.Exists(req.Filename) {
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	}

	candidate, err := s.matcher.ParseResume(path)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fmt.Errorf("error parsing resume: %w", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report.NewProfile(candidate),
	})
}

func (s *Server) handleAnalyzeJob(c *fiber.Ctx) error {
	var req jobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Job description required")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    s.matcher.AnalyzeJobText(req.JobDescription),
	})
}

func (s *Server) handleMatch(c *fiber.Ctx) error {
	var req matchRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Job description required")
	}
	if len(req.Filenames) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one resume required")
	}
	if len(req.Filenames) > s.cfg.MaxResumes {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Too many resumes. Max: %d", s.cfg.MaxResumes))
	}
	if req.MinScore < 0 || req.MinScore > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "min_score must be between 0 and 100")
	}

	topN := defaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}

	paths := make([]string, 0, len(req.Filenames))
	for _, name := range req.Filenames {
		if !s.storage.Exists(name) {
			continue
		}
		path, _ := s.storage.Path(name)
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No valid resume files found")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.RequestTimeout)
	defer cancel()

	results, err := s.matcher.Match(ctx, req.JobDescription, paths, matching.Options{
		TopN:       topN,
		MinScore:   req.MinScore / 100,
		LiteralJob: true,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fiber.NewError(fiber.StatusGatewayTimeout, "Matching timed out")
		}
		return fmt.Errorf("error matching candidates: %w", err)
	}

	entries := report.FromResults(results)

	return c.JSON(fiber.Map{
		"success":       true,
		"results":       entries,
		"total_matched": len(entries),
	})
}

func (s *Server) handleDeleteFile(c *fiber.Ctx) error {
	var req fileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Filename == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Filename required")
	}
	if !s.storage.Exists(req.Filename) {
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	}

	if err := s.storage.Delete(req.Filename); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "File deleted"})
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	var req exportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if len(req.Results) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No results to export")
	}

	// Rows are numbered by position in the request.
	for i := range req.Results {
		req.Results[i].Rank = i + 1
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, req.Results); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"csv":      buf.String(),
		"filename": fmt.Sprintf("resume_matches_%s.csv", strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
	})
}

func bindJSON(c *fiber.Ctx, out any) error {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		return fiber.NewError(fiber.StatusBadRequest, "Content-Type must be application/json")
	}
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON data")
	}
	return nil
}
