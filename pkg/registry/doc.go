// Package registry holds the per-model numbers used by the image token
// estimators and the cost calculator.
//
// A model name first routes to a provider by naming convention (gpt-,
// chatgpt-, o<digit> for OpenAI; gemini for Google) and is then looked up in
// the current Table. Each entry is one of three variants:
//
//   - PatchConfig: calibration factor, patch budget and flat pricing
//   - TileConfig: base tokens, tokens per tile and flat pricing
//   - GeminiConfig: input-size pricing tiers
//
// # Tables
//
// Tables are YAML data. The default table is compiled into the binary from
// models.yaml; LoadFile reads a replacement with the same layout:
//
//	version: "2025-08"
//	openai:
//	  patch:
//	    gpt-4.1-mini: {factor: 1.62, max_tokens: 1536, ...}
//	  tile:
//	    gpt-4o: {base_tokens: 85, tokens_per_tile: 170, ...}
//	gemini:
//	  gemini-2.5-pro:
//	    pricing_tiers:
//	      - {up_to_tokens: 200000, ...}
//	      - {up_to_tokens: inf, ...}
//
// # Reloading
//
// Registry.Swap replaces the served table atomically. Watcher reloads a table
// file when it changes on disk and Refresher reloads it on a cron schedule; a
// table that fails to load or validate never replaces the current one.
package registry
