package main

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-users/pkg/helpers"
	"github.com/oksasatya/go-social-users/pkg/mailer"
)

// publisher is the part of *amqp.Channel used to park failed jobs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type worker struct {
	log        *logrus.Logger
	sender     mailer.Sender
	pub        publisher
	retryQueue string
	policy     mailer.RetryPolicy
	timeout    time.Duration
}

// handle acks on success and drops messages that can never succeed. A
// transient send failure is parked on the retry queue with a growing delay
// and an incremented attempt count until the policy gives up on it.
func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		w.log.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	log := w.log.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	permanent, err := mailer.Dispatch(c, w.sender, job)
	if err == nil {
		_ = msg.Ack(false)
		log.Info("email sent")
		return
	}

	attempt := mailer.Attempts(msg.Headers) + 1
	log = log.WithError(err).WithField("attempt", attempt)
	log.WithFields(helpers.SafeFields(logrus.Fields(job.Data))).Debug("failed job data")
	switch {
	case permanent:
		log.Warn("send failed permanently, dropping")
		_ = msg.Nack(false, false)
	case w.policy.Exhausted(attempt):
		log.Error("send failed, retries exhausted, dropping")
		_ = msg.Nack(false, false)
	default:
		delay := w.policy.Backoff(attempt)
		if pErr := w.park(ctx, msg, attempt, delay); pErr != nil {
			log.WithField("park_error", pErr.Error()).Warn("send failed, retry queue unavailable, requeueing after delay")
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
			_ = msg.Nack(false, true)
			return
		}
		log.WithField("retry_in", delay.String()).Warn("send failed, scheduled retry")
		_ = msg.Ack(false)
	}
}

// park republishes msg to the retry queue. The broker dead-letters it back to
// the work queue once delay has passed.
func (w *worker) park(ctx context.Context, msg amqp.Delivery, attempt int, delay time.Duration) error {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[mailer.AttemptsHeader] = int32(attempt)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return w.pub.PublishWithContext(c, "", w.retryQueue, false, false, amqp.Publishing{
		Headers:      headers,
		ContentType:  msg.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
		Body:         msg.Body,
	})
}
