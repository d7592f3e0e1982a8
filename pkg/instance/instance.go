package instance

import "os"

// ID names this process in logs and lock values. DYNO wins over HOSTNAME.
func ID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
