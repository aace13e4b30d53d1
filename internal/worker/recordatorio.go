package worker

// recordatorio.go
// Daily reminder scan: finds active contracts with overdue cuotas and
// enqueues a reminder email per contract. The scan is read-only — balances
// stay pure functions of "now" — it only automates what the collections team
// used to trigger from the tracking page.

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// MorosoDestino is one contract to nag: enough to address and word the email.
// SeguimientoService implements MorososLister over the tracking snapshots.
type MorosoDestino struct {
	ContratoID    string
	Cliente       string
	Email         string
	MesesVencidos int
	Saldo         string
}

type MorososLister interface {
	ListarMorosos(ctx context.Context) ([]MorosoDestino, error)
}

// Recordatorio owns the cron schedule for the overdue reminder job.
type Recordatorio struct {
	cron       *cron.Cron
	lister     MorososLister
	dispatcher *Dispatcher
}

// StartRecordatorio schedules the reminder scan with the given cron spec
// (standard 5-field format). An empty spec disables the job.
func StartRecordatorio(spec string, lister MorososLister, dispatcher *Dispatcher) (*Recordatorio, error) {
	r := &Recordatorio{cron: cron.New(), lister: lister, dispatcher: dispatcher}
	if spec == "" {
		log.Info().Msg("recordatorio: disabled (empty cron spec)")
		return r, nil
	}
	if _, err := r.cron.AddFunc(spec, r.ejecutar); err != nil {
		return nil, fmt.Errorf("recordatorio: invalid cron spec %q: %w", spec, err)
	}
	r.cron.Start()
	log.Info().Str("spec", spec).Msg("recordatorio: scheduled")
	return r, nil
}

// Stop halts the scheduler; running jobs finish.
func (r *Recordatorio) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

func (r *Recordatorio) ejecutar() {
	ctx := context.Background()
	morosos, err := r.lister.ListarMorosos(ctx)
	if err != nil {
		log.Error().Err(err).Msg("recordatorio: scan failed")
		return
	}

	enviados := 0
	for _, m := range morosos {
		if m.Email == "" {
			continue
		}
		job := EmailJobPayload{
			To:      m.Email,
			Subject: fmt.Sprintf("Recordatorio de pago — contrato %s", m.ContratoID),
			Body: fmt.Sprintf(
				"Hola %s,\n\nSu contrato %s registra %d mes(es) vencido(s) y un saldo pendiente de $%s.\nPor favor regularice su situación a la brevedad.\n\nTelCuotas",
				m.Cliente, m.ContratoID, m.MesesVencidos, m.Saldo),
		}
		if err := r.dispatcher.EnqueueEmail(ctx, job); err != nil {
			log.Error().Err(err).Str("contrato_id", m.ContratoID).Msg("recordatorio: enqueue failed")
			continue
		}
		enviados++
	}
	log.Info().Int("contratos_morosos", len(morosos)).Int("emails_encolados", enviados).Msg("recordatorio: scan completo")
}
