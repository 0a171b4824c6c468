package messagestream

import (
	"fmt"
	"time"

	"ticketing-service/config"

	"github.com/ThreeDotsLabs/watermill"
	amqp "github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.elastic.co/apm"
)

type MessageStream struct {
	config amqp.Config
	logger watermill.LoggerAdapter
}

func NewAmqp(cfg *config.MessageStreamConfig) *MessageStream {
	uri := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
	return &MessageStream{
		config: amqp.NewDurableQueueConfig(uri),
		logger: watermill.NewStdLogger(false, false),
	}
}

func (m *MessageStream) NewSubscriber() (message.Subscriber, error) {
	return amqp.NewSubscriber(m.config, m.logger)
}

func (m *MessageStream) NewPublisher() (message.Publisher, error) {
	return amqp.NewPublisher(m.config, m.logger)
}

// NewRouter wires one subscriber handler with recovery, bounded retry, a
// poison queue for messages that exhaust their retries, and an apm
// transaction per delivery.
func NewRouter(
	publisher message.Publisher,
	poisonTopic string,
	handlerName string,
	topic string,
	subscriber message.Subscriber,
	handlerFunc message.NoPublishHandlerFunc,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewStdLogger(false, false))
	if err != nil {
		return nil, err
	}

	poison, err := middleware.PoisonQueue(publisher, poisonTopic)
	if err != nil {
		return nil, err
	}

	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: time.Second,
		Multiplier:      2,
	}

	router.AddMiddleware(
		middleware.Recoverer,
		poison,
		retry.Middleware,
		apmTransaction(handlerName),
	)

	router.AddNoPublisherHandler(handlerName, topic, subscriber, handlerFunc)

	return router, nil
}

func apmTransaction(name string) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			tx := apm.DefaultTracer.StartTransaction(name, "messaging")
			defer tx.End()

			msg.SetContext(apm.ContextWithTransaction(msg.Context(), tx))

			out, err := h(msg)
			if err != nil {
				tx.Result = "failure"
				apm.CaptureError(msg.Context(), err).Send()
				return out, err
			}
			tx.Result = "success"
			return out, nil
		}
	}
}
