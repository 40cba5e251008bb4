package api

// NamesRequest asks for a batch of generated names. Count defaults to
// DefaultCount. A nil Seed picks a fresh one, which is echoed back.
type NamesRequest struct {
	Count *int   `json:"count,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`
	// Raw skips capitalization.
	Raw bool `json:"raw,omitempty"`
}

type NamesResponse struct {
	ID      string      `json:"id"`
	Object  string      `json:"object"`
	Created int64       `json:"created"`
	Seed    int64       `json:"seed"`
	Names   []string    `json:"names"`
	Usage   *NamesUsage `json:"usage,omitempty"`
}

type NamesUsage struct {
	Requested  int   `json:"requested"`
	Returned   int   `json:"returned"`
	DurationMS int64 `json:"duration_ms"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Engine  string `json:"engine"`
	Version string `json:"version"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}
