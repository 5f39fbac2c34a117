package gemini

import "time"

type Option func(*Gemini)

func BaseURL(url string) Option {
	return func(g *Gemini) {
		g.baseURL = url
	}
}

// Timeout bounds a single HTTP round trip to the API.
func Timeout(timeout time.Duration) Option {
	return func(g *Gemini) {
		g.timeout = timeout
	}
}
