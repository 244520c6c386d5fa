package tracing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/shared/id"
)

// Header names used to propagate IDs to the remote service.
const (
	HeaderOperationID = "X-Operation-ID"
	HeaderRequestID   = "X-Request-ID"
)

type contextKey string

const operationKey contextKey = "operation_id"

// Span is one timed lifecycle operation.
type Span struct {
	ID        id.OperationID
	Name      string
	StartTime time.Time

	logger *logging.Logger
}

// Start opens a span for a lifecycle operation and stores its ID in the
// context. Nested calls (login running reconcile) keep the outer ID.
func Start(ctx context.Context, logger *logging.Logger, name string) (*Span, context.Context) {
	opID := OperationID(ctx)
	if opID == "" {
		opID = id.NewOperationID()
		ctx = context.WithValue(ctx, operationKey, opID)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Span{
		ID:        opID,
		Name:      name,
		StartTime: time.Now(),
		logger:    logger,
	}, ctx
}

// End logs the span outcome at debug level, or warn when err is non-nil.
func (s *Span) End(err error) {
	fields := []zap.Field{
		zap.String("operation", s.Name),
		zap.String("operation_id", s.ID.String()),
		zap.Duration("duration", time.Since(s.StartTime)),
	}
	if err != nil {
		s.logger.Warn("operation failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("operation finished", fields...)
}

// OperationID returns the operation ID carried by ctx, if any.
func OperationID(ctx context.Context) id.OperationID {
	if v, ok := ctx.Value(operationKey).(id.OperationID); ok {
		return v
	}
	return ""
}

// WithOperationID attaches an existing operation ID, e.g. one received in
// a request header.
func WithOperationID(ctx context.Context, opID id.OperationID) context.Context {
	return context.WithValue(ctx, operationKey, opID)
}

// Field returns the operation ID as a log field.
func Field(ctx context.Context) zap.Field {
	return zap.String("operation_id", OperationID(ctx).String())
}

// Inject writes the propagation headers for one outgoing request and
// returns the request ID it generated.
func Inject(ctx context.Context, headers map[string]string) id.RequestID {
	reqID := id.NewRequestID()
	headers[HeaderRequestID] = reqID.String()
	if opID := OperationID(ctx); opID != "" {
		headers[HeaderOperationID] = opID.String()
	}
	return reqID
}
