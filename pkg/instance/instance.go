package instance

import "os"

// GetID returns the server instance identifier. Heroku-style platforms
// expose it as DYNO; everywhere else we fall back to a local marker.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if id := os.Getenv("INSTANCE_ID"); id != "" {
		return id
	}
	return "local"
}
