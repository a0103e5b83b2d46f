package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
	"github.com/sukanya1426/Voice-Agent/internal/voice"
)

// Field extraction patterns. Dates are kept as free text (a relative
// word like "tomorrow" is a valid value); time and party size likewise.
var (
	dateRe = regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2}|tomorrow|today|next \w+day)`)
	timeRe = regexp.MustCompile(`(?i)(\d{1,2}:?\d{0,2}\s*(?:am|pm)|\d{1,2}\s*(?:am|pm))`)
	sizeRe = regexp.MustCompile(`(?i)(\d+)\s*(?:people|person|guests?|seats?)`)

	leadingDigitsRe = regexp.MustCompile(`^\d+`)
)

const availabilityApology = "I'm having trouble checking availability right now. Please call back or try our online reservation system."

// AvailabilityResult is the outcome of one availability check.
type AvailabilityResult struct {
	Available bool
	Message   string
}

// AvailabilityChecker decides whether a table can be booked. The
// message is spoken to the caller verbatim.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, date, timeOfDay, partySize string) (AvailabilityResult, error)
}

// ReservationFlow collects a date, time and party size, then checks
// availability. Fields missing from the initial utterance get exactly
// one spoken follow-up and one gather each; whatever that answer is, it
// is accepted as-is.
type ReservationFlow struct {
	checker AvailabilityChecker
}

// NewReservationFlow creates the reservation handler.
func NewReservationFlow(checker AvailabilityChecker) *ReservationFlow {
	return &ReservationFlow{checker: checker}
}

// extract pulls whatever reservation fields appear in the utterance.
func extract(utterance string) domain.Reservation {
	var r domain.Reservation
	if m := dateRe.FindString(utterance); m != "" {
		r.Date = m
	}
	if m := timeRe.FindString(utterance); m != "" {
		r.Time = m
	}
	if m := sizeRe.FindStringSubmatch(utterance); m != nil {
		r.PartySize = m[1]
	}
	return r
}

// Handle runs the reservation flow for one request.
func (h *ReservationFlow) Handle(ctx context.Context, call voice.Call, utterance string) error {
	req := extract(utterance)
	slog.Info("Reservation flow started",
		"date", req.Date, "time", req.Time, "party_size", req.PartySize)

	if req.Date == "" {
		answer, err := h.followUp(ctx, call, "What date would you like to make a reservation for?")
		if err != nil {
			return err
		}
		req.Date = answer
	}
	if req.Time == "" {
		answer, err := h.followUp(ctx, call, "What time would you prefer?")
		if err != nil {
			return err
		}
		req.Time = answer
	}
	if req.PartySize == "" {
		answer, err := h.followUp(ctx, call, "How many people will be dining?")
		if err != nil {
			return err
		}
		// A leading number is preferred, but an unparseable answer is
		// accepted as-is rather than re-prompted.
		if digits := leadingDigitsRe.FindString(answer); digits != "" {
			req.PartySize = digits
		} else {
			req.PartySize = answer
		}
	}

	confirm := fmt.Sprintf("Let me check availability for %s people on %s at %s.", req.PartySize, req.Date, req.Time)
	if err := call.Say(ctx, confirm); err != nil {
		return err
	}

	result, err := h.checker.CheckAvailability(ctx, req.Date, req.Time, req.PartySize)
	if err != nil {
		slog.Error("Availability check failed", "error", err)
		return call.Say(ctx, availabilityApology)
	}
	return call.Say(ctx, result.Message)
}

// followUp speaks one prompt and gathers one answer. A non-speech
// outcome yields an empty answer; the flow carries on with it.
func (h *ReservationFlow) followUp(ctx context.Context, call voice.Call, prompt string) (string, error) {
	if err := call.Say(ctx, prompt); err != nil {
		return "", err
	}
	result, err := call.Gather(ctx, voice.GatherOptions{Timeout: 10 * time.Second})
	if err != nil {
		return "", err
	}
	if result.Kind != voice.GatherRecognized {
		return "", nil
	}
	return strings.TrimSpace(result.Speech), nil
}
