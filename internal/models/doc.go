// Package models lists the OpenAI chat models that the openai translation
// provider can use with the configured API key.
package models
