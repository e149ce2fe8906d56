package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/peakguard/peakguard/pkg/common"
	"github.com/peakguard/peakguard/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteModel(t *testing.T) {
	var gotFeatures map[string]float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/schema":
			assert.Equal(t, common.UserAgent(), r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"features":["square_feet","hour_sin"]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/predict":
			assert.Equal(t, common.UserAgent(), r.Header.Get("User-Agent"))
			var req remotePredictReq
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotFeatures = req.Features
			_, _ = w.Write([]byte(`{"prediction":6.2}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	m := NewRemoteModel(server.URL+"/", 5*time.Second)
	require.NoError(t, m.Init(ctx))
	assert.Equal(t, []string{"square_feet", "hour_sin"}, m.Schema())

	out, err := m.Predict(ctx, types.FeatureVector{
		Names:  []string{"square_feet", "hour_sin"},
		Values: []float64{5000, 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 6.2, out)
	assert.Equal(t, map[string]float64{"square_feet": 5000, "hour_sin": 0.5}, gotFeatures)
}

func TestRemoteModelErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing URL", func(t *testing.T) {
		m := NewRemoteModel("", time.Second)
		assert.ErrorContains(t, m.Init(ctx), "model url is required")
	})

	t.Run("Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		m := NewRemoteModel(server.URL, time.Second)
		err := m.Init(ctx)
		assert.ErrorContains(t, err, "unexpected status 503")

		_, err = New(m).Predict(ctx, types.FeatureVector{})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("Missing Prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		m := NewRemoteModel(server.URL, time.Second)
		_, err := m.Predict(ctx, types.FeatureVector{})
		assert.ErrorContains(t, err, "missing prediction")
	})
}
