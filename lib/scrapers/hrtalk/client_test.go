package hrtalk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hrtalk-scraper/internal/components/telemetry"
	"hrtalk-scraper/lib/restyutil"

	"github.com/stretchr/testify/require"
)

// topicServer serves the documents in pages by request path and 404s anything else.
func topicServer(t *testing.T, pages map[string]string) (*httptest.Server, func() []string) {
	t.Helper()

	var mutex sync.Mutex
	var requested []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		requested = append(requested, r.URL.Path)
		mutex.Unlock()

		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	return server, func() []string {
		mutex.Lock()
		defer mutex.Unlock()
		return append([]string(nil), requested...)
	}
}

func TestClientFetch(t *testing.T) {
	server, requested := topicServer(t, map[string]string{
		"/talk/slug-t100.html": "<html>ok</html>",
	})
	rec := &telemetry.Recorder{}
	client := NewClient(rec, ClientOptions{})

	body, err := client.Fetch(context.Background(), server.URL+"/talk/slug-t100.html")
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", string(body))
	require.Equal(t, []string{"/talk/slug-t100.html"}, requested())

	require.NotEmpty(t, rec.Reports(telemetry.REPORT_DEBUG))
	require.Empty(t, rec.Reports(telemetry.REPORT_BROKEN))
}

func TestClientFetchStatus(t *testing.T) {
	server, _ := topicServer(t, nil)
	rec := &telemetry.Recorder{}
	client := NewClient(rec, ClientOptions{})

	url := server.URL + "/talk/missing-t1.html"
	_, err := client.Fetch(context.Background(), url)

	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	require.Equal(t, http.StatusNotFound, transport.StatusCode)
	require.Equal(t, url, transport.Url)

	broken := rec.Reports(telemetry.REPORT_BROKEN)
	require.Len(t, broken, 1)
	require.Equal(t, "hrtalk_client: "+report_client_fetch, broken[0].Id)
}

func TestClientFetchUnreachable(t *testing.T) {
	server, _ := topicServer(t, nil)
	url := server.URL + "/talk/slug-t1.html"
	server.Close()

	client := NewClient(&telemetry.Recorder{}, ClientOptions{Timeout: time.Second})
	_, err := client.Fetch(context.Background(), url)

	var transport *TransportError
	require.True(t, errors.As(err, &transport))
	require.Zero(t, transport.StatusCode)
	require.Error(t, transport.Err)
}

func TestClientHttpDump(t *testing.T) {
	server, _ := topicServer(t, map[string]string{
		"/talk/slug-t100.html": "<html>dumped</html>",
	})

	dir := filepath.Join(t.TempDir(), "dump")
	output, err := restyutil.NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := NewClient(&telemetry.Recorder{}, ClientOptions{HttpDump: output})
	_, err = client.Fetch(context.Background(), server.URL+"/talk/slug-t100.html")
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "<html>dumped</html>")
}

func TestWalkOverHttp(t *testing.T) {
	server, requested := topicServer(t, map[string]string{
		"/talk/slug-t100.html": renderPage(1, 2, []testPost{
			{id: 1, author: "a"},
			{id: 2, author: "b"},
		}),
		"/talk/slug-t100-10.html": renderPage(2, 2, []testPost{
			{id: 3, author: "a", content: "ostatni <b>post</b>"},
		}),
	})

	walker := NewWalker(NewClient(&telemetry.Recorder{}, ClientOptions{}), &telemetry.Recorder{})
	posts, err := walker.WalkAll(context.Background(), server.URL+"/talk/slug-t100-10.html")
	require.NoError(t, err)

	require.Equal(t, []string{"p1", "p2", "p3"}, postIds(posts))
	require.Equal(t, "ostatni post", posts[2].Content)
	require.Equal(t, server.URL+"/talk/slug-t100.html", posts[2].TopicUrl)
	require.Equal(t, []string{"/talk/slug-t100.html", "/talk/slug-t100-10.html"}, requested())
}
