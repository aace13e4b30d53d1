package worker

// email_worker.go
// Sends queued emails through the SMTP mailer, guarded by a circuit breaker
// so an SMTP outage fast-fails instead of tying up the pool. Exhausted
// retries land in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"telcuotas/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const emailMaxAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	AttachPath string `json:"attach_path,omitempty"`
}

type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
	rdb     *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker, rdb: rdb}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}

	var lastErr error
	for attempt := 1; attempt <= emailMaxAttempts; attempt++ {
		lastErr = w.breaker.Execute(func() error {
			return w.mailer.Send(payload.To, payload.Subject, payload.Body, payload.AttachPath)
		})
		if lastErr == nil {
			log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: enviado")
			return
		}
		if lastErr == infra.ErrCircuitOpen {
			// No point hammering a tripped breaker from inside the loop.
			break
		}
		// Exponential backoff: 1s, 2s, 4s
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
		}
	}

	log.Error().Err(lastErr).Str("to", payload.To).Msg("email_worker: agotados los reintentos")
	SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, lastErr.Error(), emailMaxAttempts)
}
