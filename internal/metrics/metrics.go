package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CategoriesSelected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "categories_selected_total",
		Help:      "Quizzes started, by category title.",
	}, []string{"category"})

	AnswersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "answers_submitted_total",
		Help:      "Answers submitted, by result.",
	}, []string{"result"})

	QuizzesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "completed_total",
		Help:      "Quizzes that reached the result view.",
	})

	Resets = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "resets_total",
		Help:      "Explicit session resets.",
	})

	PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "persistence_failures_total",
		Help:      "Session store operations that failed after retries, by operation.",
	}, []string{"op"})

	Restores = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "session_restores_total",
		Help:      "Session initializations, by outcome (empty, restored, repaired, discarded, unavailable).",
	}, []string{"outcome"})

	SessionsHosted = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quiz",
		Name:      "sessions_hosted",
		Help:      "Session engines currently held in memory.",
	})
)

// AnswerResult labels an answer for AnswersSubmitted.
func AnswerResult(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
