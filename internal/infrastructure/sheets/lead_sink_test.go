package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
)

type recordedCall struct {
	method string
	path   string
	query  string
	values [][]interface{}
}

type fakeSheetsAPI struct {
	mu    sync.Mutex
	calls []recordedCall
	fail  bool
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Values [][]interface{} `json:"values"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.RawQuery,
		values: body.Values,
	})
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
		return
	}
	_, _ = w.Write([]byte(`{}`))
}

func newTestSink(t *testing.T) (*LeadSink, *fakeSheetsAPI) {
	api := &fakeSheetsAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	sink, err := NewLeadSinkWithOptions(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return sink, api
}

// jsonRow qiymatlarni server ko'radigan ko'rinishga keltiradi (raqamlar float64)
func jsonRow(t *testing.T, row []interface{}) []interface{} {
	data, err := json.Marshal(row)
	require.NoError(t, err)
	var out []interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestLeadSink_PublishAppendsRawRow(t *testing.T) {
	sink, api := newTestSink(t)

	lead := entity.Lead{
		ID:        "lead-1",
		Kind:      entity.LeadKindOrder,
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		UserID:    777,
		Username:  "aigerim",
		City:      "Алматы",
		Phone:     "+77011234567",
		ItemID:    "luna_mini",
		Details:   "чёрная",
	}
	require.NoError(t, sink.Publish(context.Background(), lead))

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.True(t, strings.HasPrefix(call.path, "/v4/spreadsheets/sheet-1/values/"), call.path)
	assert.True(t, strings.HasSuffix(call.path, "A:J:append"), call.path)
	assert.Contains(t, call.query, "valueInputOption=RAW")
	assert.Equal(t, [][]interface{}{jsonRow(t, lead.Values())}, call.values)
}

func TestLeadSink_SetupHeaders(t *testing.T) {
	sink, api := newTestSink(t)

	require.NoError(t, sink.SetupHeaders(context.Background()))

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, http.MethodPut, call.method)
	assert.True(t, strings.HasSuffix(call.path, "/values/A1:J1"), call.path)
	assert.Contains(t, call.query, "valueInputOption=RAW")

	headers := entity.LeadHeaders()
	require.Len(t, call.values, 1)
	require.Len(t, call.values[0], len(headers))
	for i, h := range headers {
		assert.Equal(t, h, call.values[0][i])
	}
}

func TestLeadSink_PublishError(t *testing.T) {
	sink, api := newTestSink(t)
	api.fail = true

	err := sink.Publish(context.Background(), entity.Lead{ID: "lead-2", Kind: entity.LeadKindManager})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead-2")
}
