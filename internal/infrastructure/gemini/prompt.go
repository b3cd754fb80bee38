package gemini

import "fmt"

// BuildPrompt wraps the user's idea in the instruction template the product
// uses for Instagram-style captions. The model is told to return only the
// caption text.
func BuildPrompt(idea string) string {
	return fmt.Sprintf(`Create an engaging, creative Instagram post caption based on this idea: %q.

Requirements:
- Make it fun, relatable, and authentic
- Include relevant emojis where appropriate (but don't overdo it)
- Add 5-8 relevant hashtags at the end
- Keep it between 100-200 words
- Make it engaging and likely to get likes and comments
- Use line breaks for better readability
- Make it Instagram-worthy and visually appealing in text format

Just return the caption, nothing else.`, idea)
}
