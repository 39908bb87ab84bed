package cache

import "fmt"

// RateLimitKey namespaces a rate-limit counter by client identity.
func RateLimitKey(clientID string) string {
	return fmt.Sprintf("ratelimit:%s", clientID)
}
