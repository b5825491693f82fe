package registry

import "strings"

// ProviderFor routes a model name to its vendor by naming convention:
// gpt-, chatgpt- and o<digit> prefixes belong to OpenAI and gemini to Google.
// Names matching no convention fail with ErrUnsupportedModel.
func ProviderFor(name string) (Provider, error) {
	switch {
	case isOpenAIModel(name):
		return ProviderOpenAI, nil
	case strings.HasPrefix(name, "gemini"):
		return ProviderGoogle, nil
	default:
		return "", unsupportedModel(name)
	}
}

func isOpenAIModel(name string) bool {
	if strings.HasPrefix(name, "gpt-") || strings.HasPrefix(name, "chatgpt-") {
		return true
	}
	// Reasoning models: o1, o3, o4-mini, ...
	return len(name) >= 2 && name[0] == 'o' && name[1] >= '0' && name[1] <= '9'
}
