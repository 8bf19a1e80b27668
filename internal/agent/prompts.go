package agent

import "fmt"

// Sampling settings per call site. Classification runs cold for
// repeatable JSON; synthesis runs warmer for natural phrasing.
const (
	intentMaxTokens   = 500
	intentTemperature = 0.3

	responseMaxTokens   = 1000
	responseTemperature = 0.7
)

const noContextMarker = "No previous context"

const intentPromptFormat = `Analyze the user's message and determine their intent.

User Message: "%s"

Previous Context:
%s

Intent Categories:
1. faq - Questions about tea, products, company, ordering, pricing, or general information
2. dhl_tracking - Tracking shipment or package delivery status
3. greeting - Hello, hi, greetings, how are you
4. general_chat - Small talk, casual conversation, or unclear intent
5. unknown - Cannot determine intent clearly

Important:
- If the message contains tracking numbers or words like "track", "shipment", "delivery", "package" → dhl_tracking
- If the message asks about tea, products, prices, company, or "Chakan Tree" → faq
- If the message is just "hi", "hello", "hey" → greeting

Also extract:
- tracking_number: Look for DHL tracking numbers (typically 8-39 alphanumeric characters)
  Examples: "JD014600002082242811", "1234567890", "TEST123"
  Extract only the alphanumeric tracking code
- faq_query: If it's an FAQ intent, extract the core question

Respond ONLY with valid JSON (no markdown, no explanation):
{
    "intent": "one of: faq, dhl_tracking, greeting, general_chat, unknown",
    "confidence": 0.85,
    "tracking_number": "extracted_number or null",
    "faq_query": "extracted_question or null"
}

Examples:

User: "What teas do you sell?"
{
    "intent": "faq",
    "confidence": 0.95,
    "tracking_number": null,
    "faq_query": "What teas do you sell?"
}

User: "Track my shipment TEST123"
{
    "intent": "dhl_tracking",
    "confidence": 0.98,
    "tracking_number": "TEST123",
    "faq_query": null
}

User: "Hi there!"
{
    "intent": "greeting",
    "confidence": 1.0,
    "tracking_number": null,
    "faq_query": null
}

Now analyze this message:
`

const responsePromptFormat = `Generate a helpful response based on the following information.

User Message: "%s"
Detected Intent: %s

Tool Results:
%s

Previous Conversation Context:
%s

Guidelines for response:
1. Use ONLY information from tool results - never make up information
2. Be concise and friendly (2-3 paragraphs maximum)
3. Format tracking information clearly with emojis:
   - 📦 for package/shipment
   - ✅ for delivered
   - 🚚 for in transit
   - ⏰ for estimated delivery
4. For FAQ answers:
   - Provide the answer naturally without citing "FAQ #X"
   - If multiple FAQs match, synthesize into one coherent answer
   - Don't just copy-paste FAQ text, make it conversational
5. For greetings:
   - Be warm and welcoming
   - Briefly mention what you can help with
   - Ask how you can assist
6. For errors or no results:
   - Be helpful and suggest alternatives
   - Offer to help in a different way
7. End FAQ responses with "Is there anything else you'd like to know about our teas?"
8. End tracking responses with "Let me know if you need anything else!"

Special cases:
- If tracking number not found: Suggest checking the number and provide customer service contact
- If no FAQ results: Offer to help with general information or connect to customer service
- If general chat: Be friendly but gently guide back to tea/tracking topics

Generate a natural, helpful response:
`

func intentPrompt(message, context string) string {
	if context == "" {
		context = noContextMarker
	}
	return fmt.Sprintf(intentPromptFormat, message, context)
}

func responsePrompt(message string, intent Intent, toolResults, context string) string {
	if context == "" {
		context = noContextMarker
	}
	return fmt.Sprintf(responsePromptFormat, message, intent, toolResults, context)
}
