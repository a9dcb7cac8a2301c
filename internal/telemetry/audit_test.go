package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wellness-chat/internal/mocks"
)

func TestAuditEmitterPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.chat", "wellness-chat", "test", zap.NewNop().Sugar())

	var captured AuditEnvelope
	publisher.On("Publish", mock.Anything, "audit.chat", mock.AnythingOfType("telemetry.AuditEnvelope")).
		Run(func(args mock.Arguments) { captured = args.Get(2).(AuditEnvelope) }).
		Return(nil)

	userID := 7
	emitter.Emit(context.Background(), "info", "room opened", "req-1", &userID)

	publisher.AssertExpectations(t)
	require.Equal(t, 1, captured.SchemaVersion)
	require.Equal(t, "audit_log", captured.EventType)
	require.Equal(t, "wellness-chat", captured.Service)
	require.Equal(t, "req-1", captured.RequestID)
	require.NotNil(t, captured.UserID)
	require.Equal(t, "7", *captured.UserID)
	require.Equal(t, "info", captured.Payload.Level)
	require.Equal(t, "room opened", captured.Payload.Text)
}

func TestAuditEmitterOmitsUserIDWhenAnonymous(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.chat", "wellness-chat", "test", zap.NewNop().Sugar())

	var captured AuditEnvelope
	publisher.On("Publish", mock.Anything, "audit.chat", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(AuditEnvelope) }).
		Return(nil)

	emitter.Emit(context.Background(), "warn", "rejected", "req-2", nil)

	publisher.AssertExpectations(t)
	require.Nil(t, captured.UserID)
}

func TestAuditEmitterNilSafe(t *testing.T) {
	var emitter *AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "info", "noop", "req-3", nil)
	})
}
