package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeSheetsAPI struct {
	mu      sync.Mutex
	header  []interface{}
	appends [][]interface{}
	calls   []string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		Values [][]interface{} `json:"values"`
	}
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/values/Inventory!1:1"):
		values := [][]interface{}{}
		if f.header != nil {
			values = append(values, f.header)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Inventory!1:1", "values": values})
	case r.Method == http.MethodPut && strings.HasSuffix(path, "/values/Inventory!A1"):
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.header = body.Values[0]
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/values/Inventory!A:F:append"):
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appends = append(f.appends, body.Values...)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
	}
}

func newTestRepository(t *testing.T, api http.Handler) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	r, err := newRepository(context.Background(), "sheet-1", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return r
}

func TestEnsureHeaderWritesOnce(t *testing.T) {
	api := &fakeSheetsAPI{}
	r := newTestRepository(t, api)
	ctx := context.Background()

	require.NoError(t, r.EnsureHeader(ctx, "Inventory", []interface{}{"Date", "Name"}))
	require.NoError(t, r.EnsureHeader(ctx, "Inventory", []interface{}{"Other"}))

	assert.Equal(t, []interface{}{"Date", "Name"}, api.header)
	puts := 0
	for _, c := range api.calls {
		if strings.HasPrefix(c, http.MethodPut) {
			puts++
		}
	}
	assert.Equal(t, 1, puts)
}

func TestAppendRows(t *testing.T) {
	api := &fakeSheetsAPI{}
	r := newTestRepository(t, api)
	ctx := context.Background()

	require.NoError(t, r.AppendRows(ctx, "Inventory!A:F", nil))
	assert.Empty(t, api.calls)

	rows := [][]interface{}{{"2026-04-10", "u1", "1", "Rice", 3, "2"}}
	require.NoError(t, r.AppendRows(ctx, "Inventory!A:F", rows))
	require.Len(t, api.appends, 1)
	assert.Equal(t, "Rice", api.appends[0][3])

	assert.Error(t, r.AppendRows(ctx, "", rows))
	assert.Error(t, r.AppendRows(ctx, "Missing!A:F", rows))
}
