package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/peakguard/peakguard/pkg/common"
	"github.com/peakguard/peakguard/pkg/types"
)

// RemoteModel calls an HTTP inference service. The service declares its schema
// at GET /schema and scores feature maps at POST /predict.
type RemoteModel struct {
	baseURL string
	client  *http.Client
	schema  []string
}

// NewRemoteModel creates a RemoteModel. Init must be called before use.
func NewRemoteModel(baseURL string, timeout time.Duration) *RemoteModel {
	return &RemoteModel{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  common.HTTPClient(timeout),
	}
}

type remoteSchemaRes struct {
	Features []string `json:"features"`
}

type remotePredictReq struct {
	Features map[string]float64 `json:"features"`
}

type remotePredictRes struct {
	Prediction *float64 `json:"prediction"`
}

// Init fetches the feature schema from the inference service.
func (r *RemoteModel) Init(ctx context.Context) error {
	if r.baseURL == "" {
		return errors.New("model url is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/schema", nil)
	if err != nil {
		return fmt.Errorf("failed to create schema request: %w", err)
	}
	var res remoteSchemaRes
	if err := r.do(req, &res); err != nil {
		return fmt.Errorf("failed to fetch model schema: %w", err)
	}
	if len(res.Features) == 0 {
		return errors.New("model service returned an empty schema")
	}
	r.schema = res.Features
	return nil
}

// Schema implements Model.
func (r *RemoteModel) Schema() []string {
	return append([]string(nil), r.schema...)
}

// Predict implements Model.
func (r *RemoteModel) Predict(ctx context.Context, features types.FeatureVector) (float64, error) {
	body, err := json.Marshal(remotePredictReq{Features: features.Map()})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal features: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var res remotePredictRes
	if err := r.do(req, &res); err != nil {
		return 0, fmt.Errorf("failed to predict: %w", err)
	}
	if res.Prediction == nil {
		return 0, errors.New("model service response missing prediction")
	}
	return *res.Prediction, nil
}

func (r *RemoteModel) do(req *http.Request, v any) error {
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
