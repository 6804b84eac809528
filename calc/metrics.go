/*
   polycalc - exact polynomial arithmetic
   Copyright (C) 2025  The polycalc Authors

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published by
   the Free Software Foundation, version 3.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

package calc

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var metrics = struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}{
	operations: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polycalc",
			Name:      "operations_total",
			Help:      "Count of calculator statements executed since startup",
		},
		[]string{"op", "result"},
	),
	operationDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "polycalc",
			Name:      "operation_duration_seconds",
			Help:      "Time spent executing calculator statements",
		},
		[]string{"op"},
	),
}

var metricsRegister sync.Once

func registerMetrics() {
	metricsRegister.Do(func() {
		prometheus.MustRegister(metrics.operations)
		prometheus.MustRegister(metrics.operationDuration)
	})
}

// opLabel keeps the label cardinality bounded when statements are
// misspelled.
func opLabel(op string) string {
	if op == "assign" || IsKeyword(op) {
		return op
	}
	return "unknown"
}

func recordOperation(op string, err error, duration time.Duration) {
	op = opLabel(op)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.operations.WithLabelValues(op, result).Inc()
	metrics.operationDuration.WithLabelValues(op).Observe(duration.Seconds())
}
