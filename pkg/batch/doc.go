// Package batch runs token and cost estimates over many images at once.
//
// A run takes a model and a list of inputs. Each input is one of:
//
//   - an image file (its extension must be allowed),
//   - a directory, whose image files are estimated in lexical order
//     (subdirectories only when the runner is recursive),
//   - an http(s) URL, read through the dimension cache,
//   - a base64 data URL.
//
// The model is resolved before any image is read, so an unknown model never
// costs a download. An image that cannot be read is recorded on its Item and
// the run continues unless the runner fails fast.
//
// # Usage
//
//	runner := batch.NewRunner(estimator, reader,
//		batch.WithConfig(cfg.Batch),
//		batch.WithLogger(logger),
//	)
//
//	report, err := runner.Run(ctx, batch.Request{
//		Model:  "gpt-4o",
//		Inputs: []string{"./images", "https://example.com/cat.png"},
//		SaveTo: "tokens.json",
//	})
//
// Cost runs add a system prompt and an expected output size and price the
// total with the cost calculator:
//
//	cost, err := runner.Cost(ctx, batch.CostRequest{
//		Request:            batch.Request{Model: "gemini-2.5-pro", Inputs: inputs},
//		SystemPromptTokens: 1200,
//		OutputTokens:       500,
//	})
package batch
