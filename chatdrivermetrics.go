package hob

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/slack-go/slack"
)

// chatDriverWithMetrics implements chatDriver with all methods wrapped with call, error
// and latency metrics
type chatDriverWithMetrics struct {
	base          chatDriver
	calls         *prometheus.CounterVec
	errors        *prometheus.CounterVec
	callLatencies *prometheus.HistogramVec
}

// newChatDriverWithMetrics returns an instance of the chatDriver decorated with timing and count metrics
func newChatDriverWithMetrics(base chatDriver, name string, reg prometheus.Registerer) chatDriverWithMetrics {
	f := promauto.With(reg)
	defaultLabels := prometheus.Labels{"name": name}

	return chatDriverWithMetrics{
		base: base,
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hob",
			Subsystem:   "chat_driver",
			Name:        "calls_total",
			Help:        "Number of calls to the slack chat api by method.",
			ConstLabels: defaultLabels,
		}, []string{"method"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hob",
			Subsystem:   "chat_driver",
			Name:        "errors_total",
			Help:        "Number of failed calls to the slack chat api by method.",
			ConstLabels: defaultLabels,
		}, []string{"method"}),
		callLatencies: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "hob",
			Subsystem:   "chat_driver",
			Name:        "call_seconds",
			Help:        "Latency of calls to the slack chat api by method.",
			ConstLabels: defaultLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (d chatDriverWithMetrics) record(method string, since time.Time, err error) {
	if err != nil {
		d.errors.WithLabelValues(method).Inc()
	}

	d.calls.WithLabelValues(method).Inc()
	d.callLatencies.WithLabelValues(method).Observe(time.Since(since).Seconds())
}

// PostMessageContext implements chatDriver
func (d chatDriverWithMetrics) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error) {
	since := time.Now()
	defer func() {
		d.record("PostMessage", since, err)
	}()

	return d.base.PostMessageContext(ctx, channelID, options...)
}

// PostEphemeralContext implements chatDriver
func (d chatDriverWithMetrics) PostEphemeralContext(ctx context.Context, channelID string, userID string, options ...slack.MsgOption) (rTimestamp string, err error) {
	since := time.Now()
	defer func() {
		d.record("PostEphemeral", since, err)
	}()

	return d.base.PostEphemeralContext(ctx, channelID, userID, options...)
}

// DeleteMessageContext implements chatDriver
func (d chatDriverWithMetrics) DeleteMessageContext(ctx context.Context, channelID string, timestamp string) (rChannelID string, rTimestamp string, err error) {
	since := time.Now()
	defer func() {
		d.record("DeleteMessage", since, err)
	}()

	return d.base.DeleteMessageContext(ctx, channelID, timestamp)
}
