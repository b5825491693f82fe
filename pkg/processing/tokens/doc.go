// Package tokens estimates how many input tokens an image costs when sent to
// a vision model, without calling the model.
//
// Three formulas cover the supported models:
//
//   - Patch (gpt-4.1-mini, gpt-4.1-nano, o4-mini, gpt-5-mini, gpt-5-nano):
//     the image is cut into 32x32 patches; above the model's patch budget it
//     is shrunk to fit, and the count is multiplied by a calibration factor.
//   - Tile (gpt-4o, gpt-4o-mini, gpt-4.1, gpt-5, o1, o3): the image is
//     fitted into 2048x2048, its shorter side reduced to 768, and every
//     512x512 tile costs a fixed number of tokens on top of a base charge.
//   - Gemini: version 2.0 models tile the image with a size derived from its
//     shorter side; earlier versions charge a flat 258 tokens.
//
// OpenAI estimates include a fixed request prefix (9 tokens by default).
// Gemini estimates never do.
//
// # Usage
//
//	reg, err := registry.NewDefault()
//	if err != nil {
//		return err
//	}
//	estimator := tokens.NewEstimator(reg)
//
//	n, err := estimator.EstimateTokens("gpt-4.1-mini", 1024, 1024)
//	if err != nil {
//		return err
//	}
//	fmt.Println(n) // 1667
//
// The numbers each formula uses come from the registry, so updating prices or
// calibration factors never requires changing this package.
package tokens
