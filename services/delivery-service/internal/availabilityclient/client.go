// Package availabilityclient calls the delivery-service Availability gRPC API.
package availabilityclient

import (
	"context"
	"time"

	"github.com/md-rashed-zaman/storefront/libs/grpcx"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/grpcserver"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type Client struct {
	conn *grpc.ClientConn
}

func NewClient(ctx context.Context, addr string) (*Client, error) {
	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Quote(ctx context.Context, req model.QuoteRequest) (model.QuoteResponse, error) {
	var resp model.QuoteResponse
	err := c.invoke(ctx, grpcserver.QuoteMethod, req, &resp)
	return resp, err
}

func (c *Client) Slots(ctx context.Context, req model.QuoteRequest) (model.SlotsResponse, error) {
	var resp model.SlotsResponse
	err := c.invoke(ctx, grpcserver.SlotsMethod, req, &resp)
	return resp, err
}

func (c *Client) Status(ctx context.Context, merchantID string) (model.StatusView, error) {
	var resp model.StatusView
	err := c.invoke(ctx, grpcserver.StatusMethod, grpcserver.StatusRequest{MerchantID: merchantID}, &resp)
	return resp, err
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	req, err := grpcx.ToStruct(in)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, reply); err != nil {
		return err
	}
	return grpcx.FromStruct(reply, out)
}
