package bot

import "testing"

func TestClassifyTermination(t *testing.T) {
	router := NewRouter(productKeywords)

	utterances := []string{
		"goodbye",
		"GOODBYE",
		"ok Thank You so much",
		"bye then",
		// Termination wins even when domain keywords are present.
		"thank you, that laptop search was helpful",
	}
	for _, u := range utterances {
		if got := router.Classify(u); got != IntentTerminate {
			t.Errorf("Classify(%q) = %v, want terminate", u, got)
		}
	}
}

func TestClassifyProductVariant(t *testing.T) {
	router := NewRouter(productKeywords)

	tests := []struct {
		utterance string
		want      Intent
	}{
		{"I'm looking for a gaming PC", IntentDomainTask},
		{"what's the PRICE of this one", IntentDomainTask},
		{"do you have anything with a Ryzen chip", IntentDomainTask},
		{"tell me the specification", IntentDomainTask},
		{"how is the weather today", IntentGeneralChat},
		{"", IntentGeneralChat},
	}
	for _, tt := range tests {
		if got := router.Classify(tt.utterance); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.utterance, got, tt.want)
		}
	}
}

func TestClassifyRestaurantVariant(t *testing.T) {
	router := NewRouter(restaurantKeywords)

	tests := []struct {
		utterance string
		want      Intent
	}{
		{"I'd like to make a RESERVATION", IntentDomainTask},
		{"can I book a table for two", IntentDomainTask},
		{"what's on the menu tonight", IntentGeneralChat},
		// Product keywords mean nothing to the restaurant bot.
		{"I'm looking for a laptop", IntentGeneralChat},
	}
	for _, tt := range tests {
		if got := router.Classify(tt.utterance); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.utterance, got, tt.want)
		}
	}
}
