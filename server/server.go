// Package server exposes the trained predictor over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/santhoshcheemala/ZKGrade/circuit"
	"github.com/santhoshcheemala/ZKGrade/grade"
	"github.com/santhoshcheemala/ZKGrade/lib"
	"github.com/santhoshcheemala/ZKGrade/model"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	predictor *model.Predictor
	keys      *circuit.Keys
	report    model.Report
	log       zerolog.Logger
}

// New wraps a predictor. keys may be nil, which disables /prove and /vk.
// report is the training-set evaluation shown by /model.
func New(p *model.Predictor, keys *circuit.Keys, report model.Report, log zerolog.Logger) *Server {
	return &Server{predictor: p, keys: keys, report: report, log: log}
}

// PredictRequest carries one feature vector. Every field is required;
// values are clamped into the input ranges before scoring.
type PredictRequest struct {
	Assignment *float64 `json:"assignment" binding:"required"`
	Exam       *float64 `json:"exam" binding:"required"`
	Attendance *float64 `json:"attendance" binding:"required"`
	Project    *float64 `json:"project" binding:"required"`
	StudyHours *float64 `json:"study_hours" binding:"required"`
}

func (r PredictRequest) features() grade.Features {
	return grade.Features{*r.Assignment, *r.Exam, *r.Attendance, *r.Project, *r.StudyHours}.Bounded()
}

type PredictResponse struct {
	Grade    grade.Grade    `json:"grade"`
	Score    float64        `json:"score"`
	Features grade.Features `json:"features"`
}

type ModelResponse struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Training     model.Report       `json:"training"`
	Proofs       bool               `json:"proofs"`
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.healthHandler)
	r.GET("/model", s.modelHandler)
	r.POST("/predict", s.predictHandler)
	r.POST("/prove", s.proveHandler)
	r.GET("/vk", s.vkHandler)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		ev := s.log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	status := http.StatusOK
	if !s.predictor.Trained() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"trained": s.predictor.Trained()})
}

func (s *Server) modelHandler(c *gin.Context) {
	m, err := s.predictor.Model()
	if err != nil {
		s.fail(c, err)
		return
	}
	coef := m.Coef()
	byName := make(map[string]float64, len(coef))
	for i, v := range coef {
		byName[grade.FeatureNames[i]] = v
	}
	c.JSON(http.StatusOK, ModelResponse{
		Name:         lib.Name,
		Version:      lib.Version,
		Coefficients: byName,
		Intercept:    m.Intercept(),
		Training:     s.report,
		Proofs:       s.keys != nil,
	})
}

func (s *Server) predictHandler(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f := req.features()
	score, err := s.predictor.Score(f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PredictResponse{Grade: model.Discretize(score), Score: score, Features: f})
}

func (s *Server) proveHandler(c *gin.Context) {
	if s.keys == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "proofs are disabled"})
		return
	}
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := s.predictor.Model()
	if err != nil {
		s.fail(c, err)
		return
	}
	att, err := s.keys.Prove(m, req.features())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

func (s *Server) vkHandler(c *gin.Context) {
	if s.keys == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "proofs are disabled"})
		return
	}
	var buf bytes.Buffer
	if err := s.keys.WriteVerifyingKey(&buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", buf.Bytes())
}

func (s *Server) fail(c *gin.Context, err error) {
	var invalid *model.InvalidInputError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrModelNotReady):
		status = http.StatusServiceUnavailable
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
