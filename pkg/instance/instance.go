package instance

import "os"

var idKeys = []string{"BLOOMKART_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the process instance identifier used in logs, or "local".
func GetID() string {
	for _, key := range idKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
