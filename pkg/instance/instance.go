package instance

import "os"

// GetID identifies this sync-worker replica in logs and lock ownership.
// Deployments set WORKER_ID per replica; a bare default keeps local runs
// readable.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return "worker-0"
}
