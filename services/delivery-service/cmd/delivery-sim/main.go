package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/md-rashed-zaman/storefront/libs/config"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availabilityclient"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/delivery"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/settings"
)

// availability is satisfied by both the local service and the gRPC client.
type availability interface {
	Quote(ctx context.Context, req model.QuoteRequest) (model.QuoteResponse, error)
	Slots(ctx context.Context, req model.QuoteRequest) (model.SlotsResponse, error)
	Status(ctx context.Context, merchantID string) (model.StatusView, error)
}

func main() {
	var (
		op           = flag.String("op", "quote", "quote, slots or status")
		settingsFile = flag.String("settings", config.String("SETTINGS_FILE", ""), "YAML merchant settings evaluated locally")
		addr         = flag.String("addr", config.String("DELIVERY_GRPC_ADDR", ""), "delivery-service gRPC address; overrides -settings")
		merchant     = flag.String("merchant", config.String("MERCHANT_ID", ""), "merchant id")
		city         = flag.String("city", "", "delivery city")
		neighborhood = flag.String("neighborhood", "", "delivery neighborhood")
		distance     = flag.String("distance", "", "delivery distance in km")
		date         = flag.String("date", "", "slot day, YYYY-MM-DD")
		now          = flag.String("now", "", "evaluation instant (RFC3339) for local runs")
		timeout      = flag.Duration("timeout", 5*time.Second, "request timeout")
	)
	flag.Parse()

	req, err := buildRequest(*merchant, *city, *neighborhood, *distance, *date)
	if err != nil {
		fatal(err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var svc availability
	switch {
	case strings.TrimSpace(*addr) != "":
		client, err := availabilityclient.NewClient(ctx, *addr)
		if err != nil {
			fatal(fmt.Sprintf("dial %s: %v", *addr, err))
		}
		defer client.Close()
		svc = client
	case strings.TrimSpace(*settingsFile) != "":
		provider, err := settings.LoadFile(*settingsFile)
		if err != nil {
			fatal(err.Error())
		}
		clock, err := parseNow(*now)
		if err != nil {
			fatal(err.Error())
		}
		svc = delivery.NewService(provider, delivery.WithClock(clock))
	default:
		fatal("one of -addr or -settings is required")
	}

	out, err := run(ctx, svc, *op, req)
	if err != nil {
		fatal(err.Error())
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal(err.Error())
	}
}

func run(ctx context.Context, svc availability, op string, req model.QuoteRequest) (any, error) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "quote":
		return svc.Quote(ctx, req)
	case "slots":
		return svc.Slots(ctx, req)
	case "status":
		return svc.Status(ctx, req.MerchantID)
	default:
		return nil, fmt.Errorf("unsupported op: %s", op)
	}
}

func buildRequest(merchant, city, neighborhood, distance, date string) (model.QuoteRequest, error) {
	if strings.TrimSpace(merchant) == "" {
		return model.QuoteRequest{}, fmt.Errorf("MERCHANT_ID is required")
	}
	req := model.QuoteRequest{
		MerchantID:   strings.TrimSpace(merchant),
		City:         city,
		Neighborhood: neighborhood,
		Date:         strings.TrimSpace(date),
	}
	if raw := strings.TrimSpace(distance); raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.QuoteRequest{}, fmt.Errorf("invalid -distance %q", raw)
		}
		req.DistanceKm = &km
	}
	return req, nil
}

func parseNow(raw string) (func() time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid -now %q: want RFC3339", raw)
	}
	return func() time.Time { return t }, nil
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
