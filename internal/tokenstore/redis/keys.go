package redis

import "fmt"

// tokenKey returns the Redis key holding the credential for a handle
func tokenKey(prefix, handle string) string {
	return fmt.Sprintf("%s:token:%s", prefix, handle)
}
