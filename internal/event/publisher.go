package event

import "context"

type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
}

// NopPublisher is used when RabbitMQ is disabled in configuration; publishing
// succeeds without side effects.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

func (p *NopPublisher) PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error {
	return nil
}

func (p *NopPublisher) PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error {
	return nil
}
