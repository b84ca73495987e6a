package outbox

import (
	"context"
	"testing"

	"github.com/md-rashed-zaman/storefront/libs/kafkax"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestMessage_CarriesMetadataAndTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	msg := Message(context.Background(), Record{
		ID:            7,
		EventID:       "evt-1",
		AggregateType: AggregateMerchant,
		AggregateID:   "m-1",
		EventType:     "merchant.delivery_settings.updated.v1",
		Payload:       []byte(`{"merchant_id":"m-1"}`),
		Traceparent:   traceparent,
	})

	if msg.Topic != "merchant.delivery_settings.updated.v1" || string(msg.Key) != "m-1" {
		t.Fatalf("unexpected topic/key %q %q", msg.Topic, msg.Key)
	}
	meta := kafkax.ExtractEventMeta(msg)
	if meta.EventID != "evt-1" || meta.MerchantID != "m-1" {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if got := kafkax.HeaderValue(msg.Headers, "traceparent"); got != traceparent {
		t.Fatalf("unexpected traceparent %q", got)
	}
}

func TestMessage_NonMerchantAggregate(t *testing.T) {
	msg := Message(context.Background(), Record{EventID: "e", AggregateType: "zone", AggregateID: "z", EventType: "t"})
	if kafkax.HeaderValue(msg.Headers, kafkax.HeaderMerchantID) != "" {
		t.Fatalf("merchant header only applies to merchant aggregates")
	}
}
