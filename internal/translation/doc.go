// Package translation resolves source and target languages for a word and
// sends it to a remote translation service. It defines the Port that every
// provider (Tencent Cloud TMT, OpenAI, Gemini) implements, the Retrier that
// absorbs rate-limit rejections, and the Translator that ties both together.
package translation
