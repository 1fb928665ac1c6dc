// Copyright 2025 The tempdocs authors
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

// Package metrics defines the prometheus instrumentation for document
// processing. Counters are registered on the default registry and exposed
// by the serve command at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TemplatesProcessed counts documents that produced a metadata record.
	TemplatesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tempdocs",
		Name:      "templates_processed_total",
		Help:      "Number of template documents successfully processed.",
	})

	// TemplatesFailed counts documents rejected by parsing or validation.
	TemplatesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tempdocs",
		Name:      "templates_failed_total",
		Help:      "Number of template documents that failed processing.",
	})

	// SchemaFetchFailures counts remote schema fetches that degraded to the
	// empty-schema fallback.
	SchemaFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tempdocs",
		Name:      "schema_fetch_failures_total",
		Help:      "Number of schema fetches that fell back to an empty schema.",
	})

	// PagesPublished counts pages created or updated on the documentation host.
	PagesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tempdocs",
		Name:      "pages_published_total",
		Help:      "Number of pages created or updated during publishing.",
	})
)

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
