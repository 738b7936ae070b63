package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ResumesIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_resumes_ingested_total",
			Help: "Total resumes ingested into the corpus",
		},
		[]string{"source", "status"},
	)

	MatchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_match_queries_total",
			Help: "Total match queries processed",
		},
		[]string{"kind", "status"},
	)

	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screener_match_duration_seconds",
			Help:    "Match query processing duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	MatchScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screener_match_scores",
			Help:    "Distribution of top match scores (0-100)",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	DuplicatesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_duplicates_skipped_total",
			Help: "Total resumes skipped as duplicate content",
		},
	)

	ReportsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_reports_generated_total",
			Help: "Total screening reports generated",
		},
	)

	EmbeddingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_embedding_cache_hits_total",
			Help: "Total embedding requests served from the text cache",
		},
	)

	EmbeddingCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_embedding_cache_misses_total",
			Help: "Total embedding requests that called the embedder",
		},
	)

	CorpusSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_corpus_size",
			Help: "Current number of resumes in the corpus",
		},
	)

	EmbeddingCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_embedding_cache_size",
			Help: "Current number of cached text embeddings",
		},
	)
)

func Init() {
	prometheus.MustRegister(ResumesIngested)
	prometheus.MustRegister(MatchQueries)
	prometheus.MustRegister(MatchDuration)
	prometheus.MustRegister(MatchScores)
	prometheus.MustRegister(DuplicatesSkipped)
	prometheus.MustRegister(ReportsGenerated)
	prometheus.MustRegister(EmbeddingCacheHits)
	prometheus.MustRegister(EmbeddingCacheMisses)
	prometheus.MustRegister(CorpusSize)
	prometheus.MustRegister(EmbeddingCacheSize)
}

// Handler 暴露Prometheus抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}
