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

package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var serverMetrics = struct {
	httpRequestDuration *prometheus.HistogramVec
}{
	httpRequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "polycalc",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent generating HTTP responses",
		},
		[]string{
			"method",
			"status_code",
		},
	),
}

var metricsRegister sync.Once

func registerMetrics() {
	metricsRegister.Do(func() {
		prometheus.MustRegister(serverMetrics.httpRequestDuration)
	})
}

func recordHTTPRequestDuration(method string, statusCode int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "status_code": strconv.Itoa(statusCode)}
	serverMetrics.httpRequestDuration.With(labels).Observe(duration.Seconds())
}
