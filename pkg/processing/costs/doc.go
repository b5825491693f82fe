// Package costs turns token counts into an approximate dollar cost using the
// rates in the model registry.
//
// # Pricing Model
//
// Rates are USD per million tokens:
//
//   - OpenAI models have one flat input rate and one flat output rate.
//   - Gemini models have ordered tiers keyed by input size. The first tier
//     whose threshold is at least the input token count applies; the last
//     tier is always unbounded. A tier's input rate may differ by input
//     modality (text, image, video, audio), and a modality the tier does not
//     list is priced at zero.
//
// Input and output are priced independently and summed; nothing is rounded.
//
// # Usage
//
//	calculator := costs.NewCalculator(reg)
//
//	cost, err := calculator.ComputeCost(250000, 1000, "gemini-2.5-pro", "text")
//	if err != nil {
//		return err
//	}
//
//	fmt.Printf("Estimated cost: $%.4f (tier %s)\n", cost.TotalCost, cost.PricingTier)
package costs
