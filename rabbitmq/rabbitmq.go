package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses encode buffers across publishes instead of allocating a
// fresh one per event.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const contentTypeJSON = "application/json"

type Client interface {
	PublishEntryEvent(ctx context.Context, event string, entry *models.Entry) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn           *amqp.Connection
	publishChannel *amqp.Channel

	logger *lecho.Logger

	entryExchange string
	exchangeReady bool
}

type ClientOption = func(client *DefaultClient)

func WithEntryExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.entryExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial sets up a connection to rabbitmq with a channel ready to publish
// ledger entry events.
func Dial(uri string, options ...ClientOption) (Client, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	client := &DefaultClient{
		conn:           conn,
		publishChannel: publishChannel,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		entryExchange: "ledgerhub_entry",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.conn.Close() }

type entryEventPayload struct {
	Event string       `json:"event"`
	Entry models.Entry `json:"entry"`
}

// PublishEntryEvent publishes one entry event to the topic exchange with
// the event name as routing key.
func (client *DefaultClient) PublishEntryEvent(ctx context.Context, event string, entry *models.Entry) error {
	if !client.exchangeReady {
		err := client.publishChannel.ExchangeDeclare(
			client.entryExchange,
			// topic exchanges let consumers bind per event type
			"topic",
			// durable exchanges survive server restarts
			true,
			// this exchange stays declared when the last consumer unbinds
			false,
			// internal exchanges are not used here
			false,
			// nowait is off, we wait for the server's confirmation
			false,
			nil,
		)
		if err != nil {
			return err
		}
		client.exchangeReady = true
	}

	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := json.NewEncoder(payload).Encode(entryEventPayload{Event: event, Entry: *entry})
	if err != nil {
		return err
	}

	routingKey := fmt.Sprintf("entry.%s", event)
	err = client.publishChannel.PublishWithContext(ctx,
		client.entryExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}
	client.logger.Debugf("Published entry event %s entry_id:%v", routingKey, entry.ID)
	return nil
}
