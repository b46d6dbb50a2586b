//go:build integration

package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/eringen/portfolio/models"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) newNotifier(suffix string) (*RabbitMQ, Config) {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "portfolio-" + suffix,
		RoutingKey: ActionMessageCreated,
		QueueName:  "portfolio-messages-" + suffix,
	}
	n, err := NewRabbitMQ(cfg, log.New("test"))
	s.Require().NoError(err)
	return n, cfg
}

func (s *RabbitMQIntegrationSuite) TestConnectAndClose() {
	n, _ := s.newNotifier("connect")
	s.NoError(n.Close())
}

func (s *RabbitMQIntegrationSuite) TestMessageReceivedPublishesEvent() {
	n, cfg := s.newNotifier("publish")
	defer n.Close()

	msg := models.Message{
		ID:        "7b1f9d0e-1c1b-4d8f-9c55-2b8f0a6f9e11",
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "Hello there",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(n.MessageReceived(s.ctx, msg))

	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()
	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	deliveries, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case d := <-deliveries:
		s.Equal("application/json", d.ContentType)
		s.Equal(amqp.Persistent, d.DeliveryMode)

		var event Event
		s.Require().NoError(json.Unmarshal(d.Body, &event))
		s.Equal(ActionMessageCreated, event.Action)
		s.Equal(msg.ID, event.Message.ID)
		s.Equal(msg.Email, event.Message.Email)
		s.False(event.Message.Read)
	case <-time.After(10 * time.Second):
		s.Fail("timeout waiting for event")
	}
}
