// Imagetoken estimates how many input tokens images cost on OpenAI and
// Gemini vision models, and what a request with those images would cost,
// without calling any model.
//
// Usage:
//
//	# Tokens for one image, a directory and a URL
//	imagetoken tokens --model gpt-4o photo.png ./images https://example.com/cat.png
//
//	# Cost of a request with a system prompt and expected output
//	imagetoken cost --model gemini-2.5-pro --system-prompt-tokens 1200 --output-tokens 500 ./images
//
//	# List supported models and prices
//	imagetoken models
//
//	# Serve the HTTP API
//	imagetoken serve --config imagetoken.yaml
//
//	# Inspect the URL dimension cache
//	imagetoken cache count
package main

func main() {
	Execute()
}
