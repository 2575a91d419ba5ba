package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

const HeaderConnectionID = "X-Connection-Id"

// ErrGone is returned when the gateway no longer knows the connection.
var ErrGone = errors.New("connection is gone")

type GatewayClient interface {
	PostToConnection(ctx context.Context, connID string, data any) error
	DeleteConnection(ctx context.Context, connID string) error
}

type AWSGatewayClient struct {
	client *apigatewaymanagementapi.Client
}

func NewAWSGatewayClient(ctx context.Context, endpoint, region string) (*AWSGatewayClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &AWSGatewayClient{client: client}, nil
}

func (g *AWSGatewayClient) PostToConnection(ctx context.Context, connID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = g.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connID),
		Data:         payload,
	})
	return mapGone(err)
}

func (g *AWSGatewayClient) DeleteConnection(ctx context.Context, connID string) error {
	_, err := g.client.DeleteConnection(ctx, &apigatewaymanagementapi.DeleteConnectionInput{
		ConnectionId: aws.String(connID),
	})
	return mapGone(err)
}

func mapGone(err error) error {
	var gone *types.GoneException
	if errors.As(err, &gone) {
		return ErrGone
	}
	return err
}

// NoopGatewayClient is used when no gateway endpoint is configured.
type NoopGatewayClient struct{}

func (NoopGatewayClient) PostToConnection(context.Context, string, any) error { return nil }

func (NoopGatewayClient) DeleteConnection(context.Context, string) error { return nil }
