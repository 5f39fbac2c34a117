package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type staticResolver map[string]string

func (r staticResolver) Resolve(token string) (string, error) {
	if owner, ok := r[token]; ok {
		return owner, nil
	}
	return "", errors.New("invalid token")
}

func newIdentityApp() *fiber.App {
	app := fiber.New()
	app.Use(Identity(staticResolver{"good": "member-1"}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(OwnerID(c))
	})
	return app
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "bearer", header: "Bearer good", want: "member-1"},
		{name: "bearer lower case", header: "bearer good", want: "member-1"},
		{name: "cookie", cookie: "good", want: "member-1"},
		{name: "invalid token", header: "Bearer bad", want: ""},
		{name: "no token", want: ""},
		{name: "other scheme", header: "Basic good", want: ""},
	}

	app := newIdentityApp()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "JWT", Value: tt.cookie})
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, identity must never reject", resp.StatusCode)
			}
			if string(body) != tt.want {
				t.Fatalf("owner = %q, want %q", body, tt.want)
			}
		})
	}
}

func TestMetricsPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.Status(http.StatusTeapot).SendString(c.Params("id"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
