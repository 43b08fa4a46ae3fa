package adaptor

import (
	"strconv"

	"kino-tickets/internal/booking"
	"kino-tickets/internal/dto/response"
	"kino-tickets/pkg/appearance"
	"kino-tickets/pkg/i18n"
)

// renderSelection turns an engine into the client view in the request locale.
func renderSelection(e *booking.Engine, locale i18n.Locale, theme appearance.Theme) *response.SelectionResponse {
	totals := e.Totals()

	resp := &response.SelectionResponse{
		ID:                e.ID(),
		State:             e.State(),
		Showing:           e.Showing(),
		Grid:              e.Grid(),
		SelectedSeats:     totals.Seats,
		TotalPrice:        totals.TotalPrice,
		TotalPriceDisplay: locale.Money(totals.TotalPrice.InexactFloat64()),
		Theme:             theme,
		Navigation:        booking.NavigateNone,
	}

	if e.State() == booking.StateSucceeded {
		resp.Navigation = booking.NavigateSuccess
	}

	if pending := e.Pending(); pending != nil {
		resp.Prompt = renderPrompt(*pending, e.Pricing(), locale)
	}

	if kind := e.LastError(); kind != "" {
		resp.LastError = renderError(&booking.BookingError{Kind: kind}, locale)
	}

	return resp
}

func renderPrompt(pending booking.PendingSelection, pricing booking.Pricing, locale i18n.Locale) *response.Prompt {
	options := make([]response.TicketTypeOption, 0, len(booking.TicketTypes))
	for _, t := range booking.TicketTypes {
		options = append(options, response.TicketTypeOption{
			Type:  t,
			Label: locale.T("ticket." + string(t)),
			Price: pricing.PriceOf(t),
		})
	}

	return &response.Prompt{
		Row:         pending.Row,
		Col:         pending.Col,
		Number:      pending.Number,
		Message:     locale.T("seat.selectTicketType", strconv.Itoa(pending.Number)),
		TicketTypes: options,
	}
}

// renderError localizes a booking failure. A backend detail on invalid
// booking data replaces the generic message.
func renderError(err *booking.BookingError, locale i18n.Locale) *response.ErrorInfo {
	info := &response.ErrorInfo{
		Kind:       err.Kind,
		Message:    locale.T(err.Kind.MessageKey()),
		Detail:     err.Detail,
		Navigation: err.Kind.Navigation(),
	}
	if err.Kind == booking.KindInvalidBookingData && err.Detail != "" {
		info.Message = err.Detail
	}
	return info
}

func renderOutcome(outcome *booking.Outcome, locale i18n.Locale) *response.BookingOutcomeResponse {
	return &response.BookingOutcomeResponse{
		BookingID:         outcome.BookingID,
		SessionID:         outcome.SessionID,
		Seats:             outcome.Seats,
		TotalPrice:        outcome.TotalPrice,
		TotalPriceDisplay: locale.Money(outcome.TotalPrice.InexactFloat64()),
		Navigation:        booking.NavigateSuccess,
	}
}
