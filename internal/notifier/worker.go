package notifier

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"dubexpo/internal/dto"
	"dubexpo/internal/mailer"
	"dubexpo/internal/rabbit"
)

// Reader drains registration notifications off the broker and turns them
// into applicant emails. Mail failures are logged and the message is still
// acked; a registration must never bounce because SMTP hiccuped.
type Reader struct {
	RMQ    *rabbit.Client
	mail   mailer.Config
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, mail mailer.Config) *Reader {
	return &Reader{
		RMQ:  rmq,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationNotification
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Str("registration_id", msg.RegistrationID).
				Str("status", msg.Status).
				Msg("received registration notification")

			if err := mailer.SendRegistrationEmail(
				&zlog.Logger,
				r.mail,
				msg.Status,
				msg.Email,
				msg.FirstName,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("registration_id", msg.RegistrationID).
					Msg("failed to send notification email")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
