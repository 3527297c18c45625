package hob

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	newMsgType     = "new"
	deleteMsgType  = "delete"
	mentionMsgType = "mention"
	slashMsgType   = "slash"
)

// instrumenter holds the engine metrics. A nil registerer registers them on a private registry
type instrumenter struct {
	msgsSeen             prometheus.Counter
	msgsProcessed        *prometheus.CounterVec
	msgProcessingLatency *prometheus.HistogramVec
	msgDispatchLatency   prometheus.Histogram
	handlerInvocations   *prometheus.CounterVec
	handlerErrors        *prometheus.CounterVec
	handlerLatency       *prometheus.HistogramVec
	registerer           prometheus.Registerer
}

func newInstrumenter(appName string, reg prometheus.Registerer) (ins *instrumenter) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	ins = new(instrumenter)
	ins.registerer = reg

	f := promauto.With(reg)
	defaultLabels := prometheus.Labels{"name": appName}

	ins.msgsSeen = f.NewCounter(prometheus.CounterOpts{
		Namespace:   "hob",
		Name:        "messages_seen_total",
		Help:        "Number of inbound events seen.",
		ConstLabels: defaultLabels,
	})
	ins.msgsProcessed = f.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "hob",
		Name:        "messages_processed_total",
		Help:        "Number of messages processed by message type.",
		ConstLabels: defaultLabels,
	}, []string{"msgType"})
	ins.msgProcessingLatency = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "hob",
		Name:        "message_processing_seconds",
		Help:        "Latency of message processing by message type.",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"msgType"})
	ins.msgDispatchLatency = f.NewHistogram(prometheus.HistogramOpts{
		Namespace:   "hob",
		Name:        "message_dispatch_seconds",
		Help:        "Time waiting to hand a message to its processing partition.",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	ins.handlerInvocations = f.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "hob",
		Name:        "handler_invocations_total",
		Help:        "Number of handler invocations by plugin and kind.",
		ConstLabels: defaultLabels,
	}, []string{"plugin", "kind"})
	ins.handlerErrors = f.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "hob",
		Name:        "handler_errors_total",
		Help:        "Number of handler errors and panics by plugin and kind.",
		ConstLabels: defaultLabels,
	}, []string{"plugin", "kind"})
	ins.handlerLatency = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "hob",
		Name:        "handler_processing_seconds",
		Help:        "Latency of handler invocations by plugin.",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"plugin"})

	return ins
}

func (ins *instrumenter) recordHandlerInvocation(plugin string, kind string, d time.Duration) {
	ins.handlerInvocations.WithLabelValues(plugin, kind).Inc()
	ins.handlerLatency.WithLabelValues(plugin).Observe(d.Seconds())
}

func (ins *instrumenter) recordHandlerError(plugin string, kind string) {
	ins.handlerErrors.WithLabelValues(plugin, kind).Inc()
}

func (ins *instrumenter) recordProcessed(msgType string, d time.Duration) {
	ins.msgsProcessed.WithLabelValues(msgType).Inc()
	ins.msgProcessingLatency.WithLabelValues(msgType).Observe(d.Seconds())
}

type timed func()

func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Since(before)
}
