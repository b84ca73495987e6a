package main

import (
	"context"
	"log/slog"
	"net"

	"github.com/md-rashed-zaman/storefront/libs/grpcx"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/grpcserver"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func startGrpcServer(ctx context.Context, g *errgroup.Group, logger *slog.Logger, port string, svc grpcserver.Availability) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcx.UnaryServerRequestIDInterceptor(),
			grpcx.UnaryServerLoggingInterceptor(logger),
		),
	)
	grpcserver.Register(srv, svc)

	g.Go(func() error {
		logger.Info("grpc server starting", "addr", lis.Addr().String())
		return srv.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		srv.GracefulStop()
		return nil
	})
	return nil
}
