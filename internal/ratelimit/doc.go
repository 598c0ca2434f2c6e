// Package ratelimit provides the leaky bucket that gates outbound requests
// to the translation service. Tokens are refilled in whole intervals only,
// and callers that find the bucket short block until enough tokens exist.
package ratelimit
