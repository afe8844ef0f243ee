package dto

import (
	bookingModel "seva/internal/domains/booking/model"
	paymentModel "seva/internal/domains/payment/model"
	paymentRepo "seva/internal/domains/payment/repository"
	"seva/shared/money"
)

type BookingSummary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func (r *BookingSummary) FromCounts(counts map[bookingModel.Status]int) {
	r.ByStatus = make(map[string]int, len(counts))

	for status, count := range counts {
		r.ByStatus[string(status)] = count
		r.Total += count
	}
}

type PaymentTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type PaymentSummary struct {
	Collected float64                 `json:"collected"`
	Refunded  float64                 `json:"refunded"`
	ByStatus  map[string]PaymentTotal `json:"by_status"`
}

// FromSums counts refunded payments as collected too, since they were once captured.
func (r *PaymentSummary) FromSums(sums map[paymentModel.Status]paymentRepo.Summary) {
	r.ByStatus = make(map[string]PaymentTotal, len(sums))

	for status, sum := range sums {
		r.ByStatus[string(status)] = PaymentTotal{Count: sum.Count, Amount: money.Round2(sum.Amount)}
	}

	r.Refunded = money.Round2(sums[paymentModel.StatusRefunded].Amount)
	r.Collected = money.Round2(sums[paymentModel.StatusSuccess].Amount + r.Refunded)
}

type SevakSummary struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Blacklisted int `json:"blacklisted"`
}

type Summary struct {
	Bookings  BookingSummary `json:"bookings"`
	Payments  PaymentSummary `json:"payments"`
	Sevaks    SevakSummary   `json:"sevaks"`
	Residents int            `json:"residents"`
}
