package bot

import (
	"fmt"
	"time"

	"github.com/sukanya1426/Voice-Agent/internal/config"
)

// Variant bundles everything that differs between the two deployed
// bots: persona, prompts and the domain keyword set. Selecting one is a
// pure function of configuration.
type Variant struct {
	Name            string
	Greeting        string
	Farewell        string
	SilenceFarewell string
	FatalApology    string
	DomainKeywords  []string
	SystemPrompt    func() string
}

var productKeywords = []string{
	"looking for", "search", "find", "product", "computer", "gaming",
	"desktop", "laptop", "ryzen", "intel", "price", "specification",
}

var restaurantKeywords = []string{"reservation", "table", "book"}

// ProductVariant is the Sigmoix AI product inquiry deployment.
func ProductVariant() Variant {
	return Variant{
		Name:            config.VariantProduct,
		Greeting:        "Hello! Welcome to Sigmoix AI. I'm here to help you find the perfect technology products. What are you looking for today?",
		Farewell:        "Thank you for calling Sigmoix AI! Have a wonderful day!",
		SilenceFarewell: "Thank you for calling Sigmoix AI. Goodbye!",
		FatalApology:    "I apologize for the technical difficulty. Please call back. Thank you for choosing Sigmoix AI.",
		DomainKeywords:  productKeywords,
		SystemPrompt: func() string {
			return fmt.Sprintf(`You are a product inquiry assistant for Sigmoix AI. You help customers find and learn about technology products from our extensive catalog. You are on a phone call and the user's input comes from speech transcription, so account for potential errors. Respond naturally, concisely, and conversationally since your response will be spoken aloud.

Your goal is to help customers with:
1. Product searches and recommendations
2. Specifications and features
3. Pricing information
4. Product comparisons
5. General product inquiries

Be helpful, knowledgeable, and professional. Always try to understand what the customer is looking for and provide relevant product suggestions.

Current date/time: %s`, time.Now().UTC().Format(time.RFC3339))
		},
	}
}

// RestaurantVariant is The Salusbury receptionist deployment.
func RestaurantVariant() Variant {
	return Variant{
		Name:            config.VariantRestaurant,
		Greeting:        "Thank you for calling The Salusbury! How can I help you today?",
		Farewell:        "Thank you for calling The Salusbury! Have a wonderful day!",
		SilenceFarewell: "Thank you for calling The Salusbury. Goodbye!",
		FatalApology:    "I apologize for the technical difficulty. Please call back. Goodbye.",
		DomainKeywords:  restaurantKeywords,
		SystemPrompt: func() string {
			return fmt.Sprintf(`You are a receptionist for a London based PUB/RESTAURANT called The Salusbury. You are on a phone call and the user's input comes from speech transcription, so account for potential errors. Respond naturally, concisely, and conversationally since your response will be spoken aloud.

Your goal is to help customers with:
1. General restaurant information
2. Table reservations (ask for date, time, and party size)
3. Menu inquiries
4. Operating hours

When taking reservations, collect all required information before confirming. Be friendly and professional.

Current date/time: %s`, time.Now().UTC().Format(time.RFC3339))
		},
	}
}

// VariantByName returns the variant for a configured name.
func VariantByName(name string) (Variant, error) {
	switch name {
	case config.VariantProduct:
		return ProductVariant(), nil
	case config.VariantRestaurant:
		return RestaurantVariant(), nil
	default:
		return Variant{}, fmt.Errorf("unknown bot variant %q", name)
	}
}
