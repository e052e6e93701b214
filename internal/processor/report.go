package processor

import "time"

// ProviderResult summarizes one provider's part of an import run.
type ProviderResult struct {
	Provider string
	// Err is set when the provider was abandoned: fetch failure, unknown
	// adapter or malformed payload. Record-level failures do not set it.
	Err       error
	Received  int
	Invalid   int
	Persisted int
	Failed    int
}

// Report is the outcome of one import run, with providers in configuration order.
type Report struct {
	Providers []ProviderResult
	Duration  time.Duration
}

func (r *Report) Persisted() int {
	n := 0
	for _, p := range r.Providers {
		n += p.Persisted
	}
	return n
}

func (r *Report) FailedProviders() int {
	n := 0
	for _, p := range r.Providers {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Provider returns the result for a provider name, or nil if it was not part of the run.
func (r *Report) Provider(name string) *ProviderResult {
	for i := range r.Providers {
		if r.Providers[i].Provider == name {
			return &r.Providers[i]
		}
	}
	return nil
}
