package tokenizer

// DefaultThreshold is the token budget shared by routing and the overflow check.
const DefaultThreshold = 200_000

// ShouldExtractFull reports whether tokenCount fits under threshold.
// A count equal to the threshold routes to selective extraction.
func ShouldExtractFull(tokenCount int, threshold int) bool {
	return tokenCount < threshold
}

// Route names the extraction strategy for tokenCount under the default threshold.
func Route(tokenCount int) string {
	if ShouldExtractFull(tokenCount, DefaultThreshold) {
		return "full extraction"
	}
	return "selective extraction"
}
