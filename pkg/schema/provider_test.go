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

package schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempdocs/tempdocs/pkg/errors"
)

const pipelineSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"description": {"type": "string"}
	}
}`

func TestProvider_Get_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v1/pipeline.json", r.URL.Path)
		w.Write([]byte(pipelineSchema))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})

	doc := p.Get(context.Background(), "pipeline")
	require.NotNil(t, doc)
	assert.Equal(t, []string{"description", "name"}, doc.Properties())

	// Second call is served from the cache.
	p.Get(context.Background(), "pipeline")
	assert.Equal(t, int32(1), hits.Load())
}

func TestProvider_Get_SchemaFileByKind(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"type": "object"}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	ctx := context.Background()

	p.Get(ctx, "pipeline")
	p.Get(ctx, "stage")
	p.Get(ctx, "stepgroup")
	p.Get(ctx, "trigger")
	p.Get(ctx, "somethingelse")

	assert.Equal(t, []string{
		"/v1/pipeline.json",
		"/v1/template.json",
		"/v1/template.json",
		"/v1/trigger.json",
		"/v1/pipeline.json",
	}, paths)
}

func TestProvider_Get_FailureYieldsEmptySchema(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})

	doc := p.Get(context.Background(), "pipeline")
	require.NotNil(t, doc)
	assert.True(t, doc.IsEmpty())

	// The empty fallback is cached too: one fetch attempt per pair.
	p.Get(context.Background(), "pipeline")
	assert.Equal(t, int32(1), hits.Load())
}

func TestProvider_FetchErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})

	_, err := p.fetch(context.Background(), "stage", "v2")
	require.Error(t, err)

	var fetchErr *errors.SchemaFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "stage", fetchErr.Kind)
	assert.Equal(t, "v2", fetchErr.Version)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.URL, "/v2/template.json")
}

func TestProvider_Get_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	doc := p.Get(context.Background(), "stage")
	require.NotNil(t, doc)
	assert.True(t, doc.IsEmpty())
}

func TestProvider_GetVersion(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"type": "object"}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	p.GetVersion(context.Background(), "pipeline", "v0")

	assert.Equal(t, "/v0/pipeline.json", path)
}

func TestProvider_SharedCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pipelineSchema))
	}))
	defer srv.Close()

	cache := NewCache()
	p1 := NewProvider(Config{BaseURL: srv.URL, Cache: cache})
	p2 := NewProvider(Config{BaseURL: srv.URL, Cache: cache})

	p1.Get(context.Background(), "pipeline")
	assert.Equal(t, 1, cache.Len())

	doc1, _ := cache.Get("pipeline", "v1")
	doc2 := p2.Get(context.Background(), "pipeline")
	assert.Same(t, doc1, doc2)
}
