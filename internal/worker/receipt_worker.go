package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders a plain-text purchase
// receipt and mails it to the buyer via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"stockpilot/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	ToEmail     string `json:"to_email"`
	Username    string `json:"username"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalAmount string `json:"total_amount"`
	SaleDate    string `json:"sale_date"`
}

// ReceiptWorker sends purchase receipts by email.
type ReceiptWorker struct {
	mailer *infra.Mailer
}

func NewReceiptWorker(mailer *infra.Mailer) *ReceiptWorker {
	return &ReceiptWorker{mailer: mailer}
}

// Process sends the receipt email for one completed sale.
func (w *ReceiptWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("receipt_worker: empty to_email, skipping")
		return
	}

	subject := fmt.Sprintf("Your purchase receipt: %s", payload.Product)
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for your purchase.\n\n"+
			"Product: %s\nQuantity: %d\nUnit Price: $%s\nTotal: $%s\nDate: %s\n",
		payload.Username, payload.Product, payload.Quantity,
		payload.UnitPrice, payload.TotalAmount, payload.SaleDate,
	)

	if err := w.mailer.Send(payload.ToEmail, subject, body); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("receipt_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("receipt_worker: receipt sent")
}
