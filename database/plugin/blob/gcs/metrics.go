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

package gcs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// blobMetrics counts blob store operations. All methods are safe to call on
// a nil receiver so that metrics stay optional
type blobMetrics struct {
	gets    prometheus.Counter
	sets    prometheus.Counter
	deletes prometheus.Counter
}

func registerBlobMetrics(registry prometheus.Registerer) *blobMetrics {
	factory := promauto.With(registry)
	return &blobMetrics{
		gets: factory.NewCounter(prometheus.CounterOpts{
			Name: "blob_gcs_get_total",
			Help: "total blob get operations against GCS",
		}),
		sets: factory.NewCounter(prometheus.CounterOpts{
			Name: "blob_gcs_set_total",
			Help: "total blob set operations against GCS",
		}),
		deletes: factory.NewCounter(prometheus.CounterOpts{
			Name: "blob_gcs_delete_total",
			Help: "total blob delete operations against GCS",
		}),
	}
}

func (m *blobMetrics) observeGet() {
	if m == nil {
		return
	}
	m.gets.Inc()
}

func (m *blobMetrics) observeSet() {
	if m == nil {
		return
	}
	m.sets.Inc()
}

func (m *blobMetrics) observeDelete() {
	if m == nil {
		return
	}
	m.deletes.Inc()
}
