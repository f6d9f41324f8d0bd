package metrics

import (
	"strconv"

	"github.com/plastinin/renderclient/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "renderclient"

// PrometheusRecorder счётчики загрузок, опросов и завершённых задач
type PrometheusRecorder struct {
	uploads        *prometheus.CounterVec
	polls          *prometheus.CounterVec
	jobsFinished   *prometheus.CounterVec
	resultsFetched prometheus.Counter
}

// NewPrometheusRecorder создаёт счётчики и регистрирует их в reg
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Total number of file uploads to the render service.",
			},
			[]string{"result"},
		),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "polls_total",
				Help:      "Total number of job status polls by outcome.",
			},
			[]string{"outcome"},
		),
		jobsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_finished_total",
				Help:      "Total number of jobs that reached a terminal status.",
			},
			[]string{"status"},
		),
		resultsFetched: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "results_fetched_total",
				Help:      "Total number of result files saved to the output store.",
			},
		),
	}

	for _, c := range []prometheus.Collector{r.uploads, r.polls, r.jobsFinished, r.resultsFetched} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *PrometheusRecorder) UploadFinished(ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	r.uploads.WithLabelValues(result).Inc()
}

func (r *PrometheusRecorder) PollFinished(outcome string) {
	r.polls.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) JobFinished(status domain.JobStatus) {
	r.jobsFinished.WithLabelValues(status.String()).Inc()
}

func (r *PrometheusRecorder) ResultsFetched(count int) {
	r.resultsFetched.Add(float64(count))
}

// HTTPMetrics счётчик запросов к локальному серверу
type HTTPMetrics struct {
	requestCount *prometheus.CounterVec
}

// NewHTTPMetrics создаёт счётчик запросов и регистрирует его в reg
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
	}

	if err := reg.Register(m.requestCount); err != nil {
		return nil, err
	}

	return m, nil
}

// Observe учитывает один обработанный запрос
func (m *HTTPMetrics) Observe(method, route string, status int) {
	m.requestCount.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
