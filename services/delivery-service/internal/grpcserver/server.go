// Package grpcserver exposes the availability engine to internal callers over gRPC.
//
// Messages travel as google.protobuf.Struct values carrying the same JSON documents the
// HTTP API serves, so the service descriptor is declared by hand.
package grpcserver

import (
	"context"
	"errors"

	"github.com/md-rashed-zaman/storefront/libs/grpcx"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/delivery"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName  = "storefront.delivery.v1.Availability"
	QuoteMethod  = "/" + ServiceName + "/Quote"
	SlotsMethod  = "/" + ServiceName + "/Slots"
	StatusMethod = "/" + ServiceName + "/Status"
)

// Availability is implemented by *delivery.Service.
type Availability interface {
	Quote(ctx context.Context, req model.QuoteRequest) (model.QuoteResponse, error)
	Slots(ctx context.Context, req model.QuoteRequest) (model.SlotsResponse, error)
	Status(ctx context.Context, merchantID string) (model.StatusView, error)
}

// StatusRequest is the Status message body.
type StatusRequest struct {
	MerchantID string `json:"merchant_id"`
}

type availabilityServer interface {
	quote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	slots(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	getStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type server struct {
	svc Availability
}

func Register(grpcServer *grpc.Server, svc Availability) {
	grpcServer.RegisterService(&serviceDesc, &server{svc: svc})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*availabilityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Quote", Handler: quoteHandler},
		{MethodName: "Slots", Handler: slotsHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Metadata: "storefront/delivery/v1/availability",
}

func (s *server) quote(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req model.QuoteRequest
	if err := grpcx.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.svc.Quote(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

func (s *server) slots(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req model.QuoteRequest
	if err := grpcx.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.svc.Slots(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

func (s *server) getStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req StatusRequest
	if err := grpcx.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.svc.Status(ctx, req.MerchantID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(resp)
}

func encode(v any) (*structpb.Struct, error) {
	out, err := grpcx.ToStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	if errors.Is(err, delivery.ErrInvalidRequest) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Unavailable, "failed to evaluate delivery")
}

type unaryFunc func(*server, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(fullMethod string, call unaryFunc) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(*server), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(*server), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	quoteHandler  = unary(QuoteMethod, (*server).quote)
	slotsHandler  = unary(SlotsMethod, (*server).slots)
	statusHandler = unary(StatusMethod, (*server).getStatus)
)
