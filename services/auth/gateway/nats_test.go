package gateway

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/piresc/fraudguard/internal/pkg/constants"
	"github.com/piresc/fraudguard/internal/pkg/models"
	natspkg "github.com/piresc/fraudguard/internal/pkg/nats"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNatsServer *server.Server

func TestMain(m *testing.M) {
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	testNatsServer = natsserver.RunServer(&opts)
	code := m.Run()
	testNatsServer.Shutdown()
	os.Exit(code)
}

func subscribe(t *testing.T, nc *natspkg.Client, subject string) <-chan *nats.Msg {
	t.Helper()
	msgCh := make(chan *nats.Msg, 1)
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		msgCh <- msg
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	require.NoError(t, nc.GetConn().Flush())
	return msgCh
}

func receive(t *testing.T, msgCh <-chan *nats.Msg, v interface{}) {
	t.Helper()
	select {
	case msg := <-msgCh:
		require.NoError(t, json.Unmarshal(msg.Data, v))
	case <-time.After(2 * time.Second):
		t.Fatal("Did not receive published message")
	}
}

func TestPublishDemoEcho_Success(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsServer.ClientURL(), "auth-gateway-test")
	require.NoError(t, err, "Failed to connect to NATS server")
	defer nc.Close()

	msgCh := subscribe(t, nc, constants.SubjectOTPDemoEcho)

	sentAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	echo := otp.Echo{
		MaskedPhone:      "555****567",
		Code:             "482913",
		ExpiresInSeconds: 300,
		SentAt:           sentAt,
	}

	authGW := NewAuthGW(nc)
	require.NoError(t, authGW.PublishDemoEcho(context.Background(), echo))

	var received otp.Echo
	receive(t, msgCh, &received)
	assert.Equal(t, echo.MaskedPhone, received.MaskedPhone)
	assert.Equal(t, echo.Code, received.Code)
	assert.Equal(t, echo.ExpiresInSeconds, received.ExpiresInSeconds)
	assert.True(t, sentAt.Equal(received.SentAt))
}

func TestPublishOTPEvent_Success(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsServer.ClientURL(), "auth-gateway-test")
	require.NoError(t, err, "Failed to connect to NATS server")
	defer nc.Close()

	tests := []struct {
		name    string
		subject string
		event   *models.OTPEvent
	}{
		{
			name:    "Issued",
			subject: constants.SubjectOTPIssued,
			event:   &models.OTPEvent{SessionID: "s-1", MaskedPhone: "555****567", OccurredAt: time.Now().UTC()},
		},
		{
			name:    "Failed",
			subject: constants.SubjectOTPFailed,
			event:   &models.OTPEvent{SessionID: "s-1", Kind: string(otp.KindCodeMismatch), OccurredAt: time.Now().UTC()},
		},
	}

	authGW := NewAuthGW(nc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgCh := subscribe(t, nc, tt.subject)

			require.NoError(t, authGW.PublishOTPEvent(context.Background(), tt.subject, tt.event))

			var received models.OTPEvent
			receive(t, msgCh, &received)
			assert.Equal(t, tt.event.SessionID, received.SessionID)
			assert.Equal(t, tt.event.MaskedPhone, received.MaskedPhone)
			assert.Equal(t, tt.event.Kind, received.Kind)
		})
	}
}

func TestPublish_WithoutClient(t *testing.T) {
	authGW := NewAuthGW(nil)

	assert.NoError(t, authGW.PublishDemoEcho(context.Background(), otp.Echo{Code: "123456"}))
	assert.NoError(t, authGW.PublishOTPEvent(context.Background(), constants.SubjectOTPIssued, &models.OTPEvent{}))
}

func TestPublish_ClosedConnection(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsServer.ClientURL(), "auth-gateway-test")
	require.NoError(t, err)
	nc.GetConn().Close()

	authGW := NewAuthGW(nc)
	err = authGW.PublishOTPEvent(context.Background(), constants.SubjectOTPVerified, &models.OTPEvent{SessionID: "s-1"})
	assert.Error(t, err)
}
