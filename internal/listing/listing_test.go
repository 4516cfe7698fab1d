// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingPage renders an Apache-style directory index linking to hrefs.
func listingPage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>Index of /tsemm</title></head><body><h1>Index of /tsemm</h1><pre>")
	b.WriteString(`<a href="../">Parent Directory</a>` + "\n")
	for _, h := range hrefs {
		fmt.Fprintf(&b, "<a href=%q>%s</a>  17-Jan-2024 10:12  4.1K\n", h, h)
	}
	b.WriteString("</pre></body></html>")
	return b.String()
}

func newListingServer(t *testing.T, page string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pub/tsemm/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, page)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestList(t *testing.T) {
	ts := newListingServer(t, listingPage("a.sds", "emmX.sds", "emmY.sds", "readme.txt"))

	c := New(ts.Client(), Options{Extension: ".sds", Prefix: "emm", MaxFiles: 5})
	names, err := c.List(context.Background(), ts.URL+"/pub/tsemm/")
	require.NoError(t, err)
	assert.Equal(t, []string{"emmX.sds", "emmY.sds"}, names)
}

func TestListAppliesCapInPageOrder(t *testing.T) {
	hrefs := []string{"emm9.sds", "emm1.sds", "other.sds", "emm3.sds", "emm2.sds", "emm7.sds", "emm4.sds", "emm5.sds"}
	ts := newListingServer(t, listingPage(hrefs...))

	c := New(ts.Client(), Options{Extension: ".sds", Prefix: "emm", MaxFiles: 5})
	names, err := c.List(context.Background(), ts.URL+"/pub/tsemm/")
	require.NoError(t, err)
	assert.Equal(t, []string{"emm9.sds", "emm1.sds", "emm3.sds", "emm2.sds", "emm7.sds"}, names)

	uncapped := New(ts.Client(), Options{Extension: ".sds", Prefix: "emm"})
	names, err = uncapped.List(context.Background(), ts.URL+"/pub/tsemm/")
	require.NoError(t, err)
	assert.Len(t, names, 7)
}

func TestListHTTPError(t *testing.T) {
	ts := newListingServer(t, listingPage("emm1.sds"))

	c := New(ts.Client(), Options{Extension: ".sds", Prefix: "emm"})
	names, err := c.List(context.Background(), ts.URL+"/wrong/")
	require.Error(t, err)
	assert.Nil(t, names)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestListTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(http.DefaultClient, Options{Extension: ".sds"})
	_, err := c.List(context.Background(), url+"/pub/tsemm/")
	assert.ErrorContains(t, err, "fetching listing")
}

func TestParseLinks(t *testing.T) {
	page := `<html><body>
<a href="/pub/tsemm/emm1.sds">emm1.sds</a>
<a href="https://ftp.example.org/pub/tsemm/emm2.sds">emm2.sds</a>
<a href="emm3.sds.bak">backup</a>
<a>no target</a>
<a href="emm1.sds">again</a>
<link href="emm4.sds">
</body></html>`

	names, err := ParseLinks(strings.NewReader(page), ".sds")
	require.NoError(t, err)
	assert.Equal(t, []string{"emm1.sds", "emm2.sds", "emm1.sds"}, names)
}

func TestParseLinksEmptyPage(t *testing.T) {
	names, err := ParseLinks(strings.NewReader(""), ".sds")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		prefix string
		max    int
		want   []string
	}{
		{"prefix filter", []string{"a.sds", "emmX.sds", "emmY.sds"}, "emm", 5, []string{"emmX.sds", "emmY.sds"}},
		{"prefix is case sensitive", []string{"EMM1.sds", "emm2.sds"}, "emm", 0, []string{"emm2.sds"}},
		{"empty prefix keeps all", []string{"a.sds", "b.sds"}, "", 0, []string{"a.sds", "b.sds"}},
		{"cap truncates", []string{"emm1", "emm2", "emm3"}, "emm", 2, []string{"emm1", "emm2"}},
		{"negative cap disables", []string{"emm1", "emm2", "emm3"}, "emm", -1, []string{"emm1", "emm2", "emm3"}},
		{"nothing matches", []string{"a", "b"}, "emm", 5, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.in, tt.prefix, tt.max))
		})
	}
}
