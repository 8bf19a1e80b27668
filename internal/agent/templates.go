package agent

// Canned responses used when the turn bypasses or cannot reach the
// completion provider.

const greetingTemplate = `Hello! 👋 Welcome to Chakancha Global!

I'm here to help you with:
• Information about our premium Kenyan teas
• Tracking your DHL shipments
• Questions about ordering and our products

How can I assist you today?`

const errorTemplate = `I apologize, but I'm having trouble processing your request right now.

Please try:
• Rephrasing your question
• Checking if your tracking number is correct
• Contacting our support team at support@chakancha.com

I'm here to help! 🙏`

const noResultsTemplate = `I don't have specific information about that in my knowledge base right now.

However, I can help you with:
• Our tea products and varieties
• Pricing and ordering information
• Shipping and delivery details
• Our Chakan Tree referral program

Or you can contact us directly at info@chakancha.com for personalized assistance.

What would you like to know?`

const trackingNotFoundTemplate = `I couldn't find tracking information for that number. 📦

Please check:
• The tracking number is correct (should be 10-39 characters)
• You're using the complete tracking number from your shipping email
• The shipment may not be in the system yet (can take 24 hours)

If you continue having issues, please contact our support team at support@chakancha.com

Can I help you with anything else?`

// fallbackReply is returned by the top-level guard when the pipeline
// itself fails in an unanticipated way.
const fallbackReply = "I apologize, but I'm experiencing technical difficulties right now. " +
	"Please try again in a moment, or contact our support team at " +
	"support@chakancha.com for immediate assistance."

// templateFor maps a failure category to its canned response.
func templateFor(category ErrorCategory) string {
	switch category {
	case CategoryTrackingValidation, CategoryTrackingProvider:
		return trackingNotFoundTemplate
	case CategoryRetrieval:
		return noResultsTemplate
	default:
		return errorTemplate
	}
}
