// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus collectors describing an import run.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "customer_import"

// Record outcomes.
const (
	OutcomeInserted = "inserted"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

type collectors struct {
	records       *prometheus.CounterVec
	groupCreates  *prometheus.CounterVec
	batches       prometheus.Counter
	batchSize     prometheus.Histogram
	batchDuration prometheus.Histogram
	registry      *prometheus.Registry
}

var collectorsSingleton = sync.OnceValue(func() *collectors {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &collectors{
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total number of processed customer records by outcome.",
		}, []string{"outcome"}),
		groupCreates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_group_creates_total",
			Help:      "Total number of customer group create calls by result.",
		}, []string{"result"}),
		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of processed batches.",
		}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size_records",
			Help:      "Number of records per processed batch.",
			Buckets:   []float64{1, 10, 25, 50, 100, 250, 500, 1000},
		}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent processing one batch.",
			Buckets: []float64{
				0.01, 0.05,
				0.1, 0.5,
				1, 2, 5, 10, 30, 60,
			},
		}),
		registry: registry,
	}
})

func getCollectors() *collectors {
	return collectorsSingleton()
}

// RecordProcessed counts one record reaching its terminal outcome.
func RecordProcessed(outcome string) {
	getCollectors().records.WithLabelValues(outcome).Inc()
}

// CustomerGroupCreated counts one customer group create call.
func CustomerGroupCreated(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}

	getCollectors().groupCreates.WithLabelValues(result).Inc()
}

// BatchProcessed observes one completed batch.
func BatchProcessed(size int, elapsed time.Duration) {
	c := getCollectors()

	c.batches.Inc()
	c.batchSize.Observe(float64(size))
	c.batchDuration.Observe(elapsed.Seconds())
}

// Gatherer returns the registry holding the import collectors.
func Gatherer() prometheus.Gatherer {
	return getCollectors().registry
}

// WriteToTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Gatherer()); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}

	return nil
}
