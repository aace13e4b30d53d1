package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibo: renders the PDF receipt for an
// approved payment and, when the customer has an email on file, enqueues the
// send. Runs outside the verification transaction — a failed receipt never
// rolls back an approval.

import (
	"context"
	"encoding/json"
	"fmt"

	"telcuotas/internal/infra"
	"telcuotas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	PagoID string `json:"pago_id"`
}

type ReciboWorker struct {
	pagoRepo     repository.PagoRepository
	contratoRepo repository.ContratoRepository
	dispatcher   *Dispatcher
	storagePath  string
}

func NewReciboWorker(
	pagoRepo repository.PagoRepository,
	contratoRepo repository.ContratoRepository,
	dispatcher *Dispatcher,
	storagePath string,
) *ReciboWorker {
	return &ReciboWorker{
		pagoRepo:     pagoRepo,
		contratoRepo: contratoRepo,
		dispatcher:   dispatcher,
		storagePath:  storagePath,
	}
}

func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}
	pagoID, err := uuid.Parse(payload.PagoID)
	if err != nil {
		log.Error().Str("pago_id", payload.PagoID).Msg("recibo_worker: invalid pago_id")
		return
	}

	pago, err := w.pagoRepo.FindByID(ctx, pagoID)
	if err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: pago not found")
		return
	}
	if !pago.Aprobado() {
		// Guard against stale jobs (e.g. re-enqueued from DLQ after a data fix).
		log.Warn().Str("pago_id", payload.PagoID).Msg("recibo_worker: pago no aprobado, skipping")
		return
	}

	contrato, err := w.contratoRepo.FindByID(ctx, pago.ContratoID)
	if err != nil {
		log.Error().Err(err).Str("contrato_id", pago.ContratoID).Msg("recibo_worker: contrato not found")
		return
	}

	pdfPath, err := infra.GenerarReciboPDF(contrato, pago, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: pdf generation failed")
		return
	}
	log.Info().Str("pago_id", payload.PagoID).Str("pdf", pdfPath).Msg("recibo_worker: recibo generado")

	if contrato.Cliente == nil || contrato.Cliente.Email == nil || *contrato.Cliente.Email == "" {
		return
	}
	emailJob := EmailJobPayload{
		To:         *contrato.Cliente.Email,
		Subject:    fmt.Sprintf("Recibo de pago — contrato %s", contrato.ID),
		Body:       fmt.Sprintf("Hola %s,\n\nAdjuntamos el recibo de su pago de $%s del contrato %s.\n\nTelCuotas", contrato.Cliente.Nombre, pago.Monto.StringFixed(2), contrato.ID),
		AttachPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: failed to enqueue email")
	}
}
