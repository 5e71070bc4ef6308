// Copyright 2026 GreenMatch Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type engineMetrics struct {
	operationsTotal *prometheus.CounterVec
	matchedAmount   prometheus.Counter
}

func registerEngineMetrics(registry prometheus.Registerer) *engineMetrics {
	factory := promauto.With(registry)
	return &engineMetrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matcher_operations_total",
				Help: "engine operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		matchedAmount: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matcher_matched_amount_total",
				Help: "cumulative matched amount across all matches",
			},
		),
	}
}

func (m *engineMetrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *engineMetrics) observeMatched(amount uint64) {
	if m == nil {
		return
	}
	m.matchedAmount.Add(float64(amount))
}
