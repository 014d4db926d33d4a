package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aliskhannn/logic-rules-bot/internal/domain/entities"
)

const namespace = "logic_quiz"

// QuizMetrics counts quiz activity.
type QuizMetrics struct {
	answers   *prometheus.CounterVec
	completed *prometheus.CounterVec
	scores    *prometheus.HistogramVec
}

// NewQuizMetrics registers the quiz collectors on reg. activeSessions reports
// the number of in-memory sessions at scrape time.
func NewQuizMetrics(reg prometheus.Registerer, activeSessions func() int) *QuizMetrics {
	m := &QuizMetrics{
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Evaluated answers by mode and outcome.",
		}, []string{"mode", "correct"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_completed_total",
			Help:      "Quiz runs that reached the session length.",
		}, []string{"mode"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quiz_score_ratio",
			Help:      "Final score divided by session length.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"mode"}),
	}

	reg.MustRegister(m.answers, m.completed, m.scores)

	if activeSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Quiz sessions held in memory.",
		}, func() float64 { return float64(activeSessions()) }))
	}

	return m
}

// ObserveAnswer counts one evaluated answer.
func (m *QuizMetrics) ObserveAnswer(mode entities.Mode, correct bool) {
	m.answers.WithLabelValues(mode.String(), strconv.FormatBool(correct)).Inc()
}

// ObserveCompleted records a finished run.
func (m *QuizMetrics) ObserveCompleted(mode entities.Mode, score, total int) {
	m.completed.WithLabelValues(mode.String()).Inc()
	if total > 0 {
		m.scores.WithLabelValues(mode.String()).Observe(float64(score) / float64(total))
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Server exposes a registry over HTTP at /metrics.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("metrics server started", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("metrics server stopped")
	return nil
}
