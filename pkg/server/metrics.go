// Copyright 2016 DeepFabric, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelCommandSucceed  = "succeed"
	labelCommandFailed   = "failed"
	labelCommandRejected = "rejected"

	labelCommandUnknown = "unknown"
)

var (
	commandCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cellkv",
			Subsystem: "redis",
			Name:      "command_total",
			Help:      "Total number of redis commands processed.",
		}, []string{"type", "status"})

	commandDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cellkv",
			Subsystem: "redis",
			Name:      "command_duration_seconds",
			Help:      "Bucketed histogram of redis command processing duration.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2.0, 20),
		})

	clientsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cellkv",
			Subsystem: "redis",
			Name:      "clients",
			Help:      "Number of connected redis clients.",
		})

	clientsRejectedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cellkv",
			Subsystem: "redis",
			Name:      "clients_rejected_total",
			Help:      "Total number of redis connections rejected by max clients.",
		})
)

func init() {
	prometheus.MustRegister(commandCounterVec)
	prometheus.MustRegister(commandDurationHistogram)
	prometheus.MustRegister(clientsGauge)
	prometheus.MustRegister(clientsRejectedCounter)
}

func observeCommand(start time.Time) {
	commandDurationHistogram.Observe(time.Now().Sub(start).Seconds())
}
