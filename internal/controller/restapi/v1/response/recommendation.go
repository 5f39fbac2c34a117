package response

type Recommendation struct {
	Plan     string `json:"plan"`
	Degraded bool   `json:"degraded"`
	Notice   string `json:"notice,omitempty"`
}
