// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package blob

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) *FSSink {
	t.Helper()
	sink, err := NewFSSink(t.TempDir())
	require.NoError(t, err)
	return sink
}

func TestFSSinkRoundtrip(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	key := ReportKey("t1", "s1", "r1", "executive-summary.md")
	err := sink.Put(ctx, key, []byte("# Report"), "text/markdown", map[string]string{"site": "s1"})
	require.NoError(t, err)

	data, err := sink.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "# Report", string(data))
}

func TestFSSinkGetMissing(t *testing.T) {
	sink := newTestSink(t)
	_, err := sink.Get(context.Background(), "tenants/t1/nope")
	assert.Error(t, err)
}

func TestFSSinkList(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	keys := []string{
		"tenants/t1/sites/s1/reports/r1/a.md",
		"tenants/t1/sites/s1/reports/r1/b.md",
		"tenants/t1/sites/s2/reports/r9/c.md",
	}
	for _, k := range keys {
		require.NoError(t, sink.Put(ctx, k, []byte("x"), "text/markdown", nil))
	}

	got, err := sink.List(ctx, "tenants/t1/sites/s1/")
	require.NoError(t, err)
	sort.Strings(got)
	assert.Equal(t, keys[:2], got)

	all, err := sink.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFSSinkPresignedGet(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Put(ctx, "reports/x.md", []byte("x"), "text/markdown", nil))

	url, err := sink.PresignedGet(ctx, "reports/x.md", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"), "url = %q", url)

	_, err = sink.PresignedGet(ctx, "reports/missing.md", time.Hour)
	assert.Error(t, err, "presigning a missing object must fail")
}

func TestFSSinkRejectsTraversal(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	bad := []string{
		"../outside",
		"a/../../outside",
		"/etc/passwd",
		".",
	}
	for _, key := range bad {
		assert.Error(t, sink.Put(ctx, key, []byte("x"), "", nil), "key %q accepted", key)
		_, err := sink.Get(ctx, key)
		assert.Error(t, err, "Get(%q) accepted", key)
	}
}

func TestFSSinkCancelledContext(t *testing.T) {
	sink := newTestSink(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, sink.Put(ctx, "k", []byte("x"), "", nil))
	_, err := sink.Get(ctx, "k")
	assert.Error(t, err)
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t,
		"tenants/acme/sites/42/reports/r7/action-plan.md",
		ReportKey("acme", "42", "r7", "action-plan.md"))
	assert.Equal(t,
		"tenants/acme/sites/42/crawls/c1/pages/0123456789ab.html",
		PageHTMLKey("acme", "42", "c1", "0123456789ab"))
}
