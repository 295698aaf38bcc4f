package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nadzzz/voxlist/internal/message"
	"github.com/nadzzz/voxlist/internal/transport"
)

func startServer(t *testing.T, handler transport.Handler) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- New(0).Serve(ctx, lis, handler) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDispatch_RoundTrip(t *testing.T) {
	t.Parallel()

	conn := startServer(t, func(_ context.Context, msg *message.Message) (*message.TurnResult, error) {
		return &message.TurnResult{
			MessageID:    msg.ID,
			Transcript:   msg.Text,
			Outcome:      message.NotRecognized,
			ResponseText: "Command not recognized.",
		}, nil
	})

	res, err := Dispatch(context.Background(), conn, &message.Message{ID: "m1", Source: "robot", Text: "sing"})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.MessageID)
	assert.Equal(t, "sing", res.Transcript)
	assert.Equal(t, message.NotRecognized, res.Outcome)
}

func TestDispatch_HandlerErrorIsInternal(t *testing.T) {
	t.Parallel()

	conn := startServer(t, func(context.Context, *message.Message) (*message.TurnResult, error) {
		return nil, errors.New("no transcriber configured")
	})

	_, err := Dispatch(context.Background(), conn, &message.Message{Audio: []byte{1}})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "no transcriber")
}

func TestHealth(t *testing.T) {
	t.Parallel()

	conn := startServer(t, func(context.Context, *message.Message) (*message.TurnResult, error) {
		return &message.TurnResult{}, nil
	})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
