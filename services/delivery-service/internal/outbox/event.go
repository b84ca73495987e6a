package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// AggregateMerchant marks events keyed by merchant; the publisher adds a merchant_id header.
const AggregateMerchant = "merchant"
