package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Predictor based on flags. Failing to load the model is
// fatal since no evaluation can run without it.
func Configured() *Predictor {
	provider := lflag.String("model-provider", "linear", "Load model provider to use (available: linear, remote)")
	file := lflag.String("model-file", "data/model.yaml", "Path to the linear model artifact (YAML)")
	url := lflag.String("model-url", "", "Base URL of the remote inference service")
	timeout := lflag.Duration("model-timeout", 10*time.Second, "Timeout for remote inference requests")

	p := &Predictor{}

	lflag.Do(func() {
		switch *provider {
		case "linear":
			m, err := LoadLinearModel(*file)
			if err != nil {
				panic(fmt.Sprintf("%v: %v", ErrUnavailable, err))
			}
			p.model = m
		case "remote":
			m := NewRemoteModel(*url, *timeout)
			if err := m.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("%v: %v", ErrUnavailable, err))
			}
			p.model = m
		default:
			panic(fmt.Sprintf("unknown model provider: %s", *provider))
		}
	})

	return p
}
