package probe

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/okian/launchdash/pkg/logger"
)

// generateRequests builds config.Requests updates spread over every output,
// with random sites and payload ranges drawn from the catalog.
func generateRequests(ctx context.Context, config *Config, cat *Catalog, stats *Stats) []Request {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	logger.Get().Named("probe").Info(ctx, "generating update requests",
		logger.Int("requests", config.Requests),
		logger.Any("seed", seed))

	outputs := make([]string, 0, len(cat.Inputs))
	for out := range cat.Inputs {
		outputs = append(outputs, out)
	}
	sort.Strings(outputs)

	requests := make([]Request, 0, config.Requests)
	for i := 0; i < config.Requests && len(outputs) > 0; i++ {
		output := outputs[i%len(outputs)]
		req := Request{
			Output: output,
			Inputs: make(map[string]json.RawMessage),
			site:   allSites,
			low:    float64(cat.Slider.Min),
			high:   float64(cat.Slider.Max),
		}
		if len(cat.Sites) > 0 {
			req.site = cat.Sites[rng.IntN(len(cat.Sites))].Value
		}
		if span := cat.Slider.Max - cat.Slider.Min; span > 0 {
			a := cat.Slider.Min + rng.IntN(span+1)
			b := cat.Slider.Min + rng.IntN(span+1)
			if a > b {
				a, b = b, a
			}
			req.low, req.high = float64(a), float64(b)
		}
		for _, id := range cat.Inputs[output] {
			switch id {
			case siteInputID:
				req.Inputs[id], _ = json.Marshal(req.site)
			case sliderInputID:
				req.Inputs[id], _ = json.Marshal([2]float64{req.low, req.high})
			}
		}
		requests = append(requests, req)
	}

	stats.RequestsPlanned = len(requests)
	return requests
}
