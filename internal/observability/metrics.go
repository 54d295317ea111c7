package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pageRenderCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "web",
		Name:      "page_renders_total",
		Help:      "Number of server-rendered pages grouped by page.",
	}, []string{"page"})

	chatMessageCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "chat",
		Name:      "messages_total",
		Help:      "Number of chat messages appended grouped by role.",
	}, []string{"role"})

	chatRejectedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "chat",
		Name:      "rejected_submissions_total",
		Help:      "Number of chat submissions ignored because they were blank or a reply was pending.",
	})

	chatSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "chat",
		Name:      "active_sessions",
		Help:      "Number of chat sessions currently held in memory.",
	})

	lastReplyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "chat",
		Name:      "last_reply_timestamp_seconds",
		Help:      "Unix timestamp of the most recent assistant reply.",
	})

	liveClockClientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "realtime",
		Name:      "clock_clients",
		Help:      "Number of websocket clients subscribed to the live countdown clock.",
	})

	chatStreamClientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "realtime",
		Name:      "chat_clients",
		Help:      "Number of websocket clients subscribed to chat transcripts.",
	})

	eventPublishErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitgpt_studio",
		Subsystem: "events",
		Name:      "publish_errors_total",
		Help:      "Number of chat events that failed to publish grouped by topic.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(
		pageRenderCounter,
		chatMessageCounter,
		chatRejectedCounter,
		chatSessionsGauge,
		lastReplyGauge,
		liveClockClientsGauge,
		chatStreamClientsGauge,
		eventPublishErrorCounter,
	)
}

// RecordPageRender counts one rendered page.
func RecordPageRender(page string) {
	pageRenderCounter.WithLabelValues(page).Inc()
}

// RecordChatMessage counts an appended message and tracks the reply watermark.
func RecordChatMessage(role string, ts time.Time) {
	chatMessageCounter.WithLabelValues(role).Inc()
	if role == "assistant" && !ts.IsZero() {
		lastReplyGauge.Set(float64(ts.Unix()))
	}
}

// RecordChatRejected counts an ignored submission.
func RecordChatRejected() {
	chatRejectedCounter.Inc()
}

// SetChatSessions reports the current session count.
func SetChatSessions(n int) {
	chatSessionsGauge.Set(float64(n))
}

// ClockClientConnected adjusts the clock subscriber gauge; pass -1 on disconnect.
func ClockClientConnected(delta int) {
	liveClockClientsGauge.Add(float64(delta))
}

// ChatClientConnected adjusts the chat subscriber gauge; pass -1 on disconnect.
func ChatClientConnected(delta int) {
	chatStreamClientsGauge.Add(float64(delta))
}

// RecordPublishError counts a failed event publish.
func RecordPublishError(topic string) {
	eventPublishErrorCounter.WithLabelValues(topic).Inc()
}

// PublishErrors exposes the failure counter for topic.
func PublishErrors(topic string) prometheus.Counter {
	return eventPublishErrorCounter.WithLabelValues(topic)
}

// PageRenders exposes the render counter for page.
func PageRenders(page string) prometheus.Counter {
	return pageRenderCounter.WithLabelValues(page)
}
