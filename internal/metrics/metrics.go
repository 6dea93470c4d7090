// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsTotal counts decoded capture records by variant
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_records_total",
			Help: "Total number of capture records decoded",
		},
		[]string{"variant"},
	)

	// DecodeErrorsTotal counts records rejected by the decoder
	DecodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_decode_errors_total",
			Help: "Total number of records rejected by the decoder",
		},
		[]string{"reason"},
	)

	// RecordBytesTotal counts raw record bytes consumed from the source
	RecordBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strix_record_bytes_total",
			Help: "Total raw record bytes read from the source",
		},
	)

	// SubFramesTotal counts sub-frame table entries across aggregate records
	SubFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strix_subframes_total",
			Help: "Total number of sub-frame entries decoded from aggregate records",
		},
	)

	// FieldAnomaliesTotal counts out-of-range field values seen in
	// non-strict mode, where the record is kept and only flagged
	FieldAnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_field_anomalies_total",
			Help: "Total number of metadata fields outside their documented range",
		},
		[]string{"field"},
	)

	// RSSIDbm measures the signal strength distribution of decoded records
	RSSIDbm = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "strix_rssi_dbm",
			Help:    "Received signal strength of decoded records in dBm",
			Buckets: prometheus.LinearBuckets(-100, 10, 11), // -100 to 0 dBm
		},
	)

	// ReporterErrorsTotal counts reporter write failures by reporter name
	ReporterErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_reporter_errors_total",
			Help: "Total number of reporter errors",
		},
		[]string{"reporter"},
	)

	// SourceErrorsTotal counts transient read failures on the record source
	SourceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strix_source_errors_total",
			Help: "Total number of source read errors",
		},
		[]string{"source"},
	)
)
