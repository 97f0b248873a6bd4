package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProviderTierUsed counts which provider tier answered a completion call.
var ProviderTierUsed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vocintera_provider_tier_total",
	Help: "Completions served, labelled by the provider tier that answered.",
}, []string{"provider"})

// StaticFallbackUsed counts completions served from the static tier after
// every configured provider failed.
var StaticFallbackUsed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vocintera_static_fallback_total",
	Help: "Completions served from the static fallback, labelled by call site.",
}, []string{"site"})

// EvaluationsCompleted counts evaluation runs by outcome.
var EvaluationsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "vocintera_evaluations_total",
	Help: "Evaluation runs, labelled by outcome.",
}, []string{"outcome"})

// SessionsSwept counts interview sessions deleted by the retention sweeper.
var SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
	Name: "vocintera_sessions_swept_total",
	Help: "Interview sessions deleted by the retention sweeper.",
})
