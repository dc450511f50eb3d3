package dialogue

// Тексты ответов ассистента
const (
	replyGreeting         = "Hello! Welcome to our dealership. How can I assist you today?"
	replyFarewell         = "Thank you for contacting our dealership. Have a great day!"
	replyCancelled        = "No problem! If you change your mind or need any information about our vehicles, feel free to ask."
	replyNothingToConfirm = "I'm not sure what you're confirming. Could you please clarify?"
	replyGeneral          = "I'm here to help you book a test drive or answer questions about our vehicles. What would you like to know?"
	replyAskVehicleType   = "I'd be happy to help you book a test drive! What type of vehicle are you interested in? We have %s."
	replyNoVehicles       = "I apologize, but we don't have any %s available at the moment. Would you like to explore other vehicle types? We have %s."
	replyAskDateTime      = "Great choice! When would you like to test drive the %s? Please provide a date and time."
	replyAskPhone         = "Almost done! What phone number can we reach you at?"
	replyConfirmed        = "Perfect! Your test drive for the %s is confirmed for %s at %s. Booking ID: %s. We look forward to seeing you!"
	replyBookingFailed    = "I apologize, but there was an issue with the booking: %s"
	replyPersistFailed    = "I'm sorry, we could not record your booking just now. Please say \"try again\" in a moment."
	replyInformation      = "I can provide information about our vehicles. We have %s. What would you like to know?"
)

// Farewell прощальная реплика
func Farewell() string {
	return replyFarewell
}
