// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in, sign-out and registration events.
	Auth string
	// Admin controls logging for create/update/delete of managed resources.
	Admin string
}

// Logger records audit events to audit.Store and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Resource != "" {
		fields = append(fields, zap.String("resource", event.Resource), zap.String("resource_id", event.ResourceID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the destination configured for its
// category. A nil Logger is a no-op so handlers can be tested without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event", event.EventType),
			)
		}
	}
}

func oid(hex string) *primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func authEvent(r *http.Request, eventType string, userID *primitive.ObjectID, email string) audit.Event {
	ev := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		UserID:    userID,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if email != "" {
		ev.Details = map[string]string{"email": email}
	}
	return ev
}

// --- Authentication Events ---

// LoginSuccess logs a successful password sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginSuccess, &userID, email))
}

// GoogleSignIn logs a successful Google sign-in; created marks a new account.
func (l *Logger) GoogleSignIn(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string, created bool) {
	ev := authEvent(r, audit.EventGoogleSignIn, &userID, email)
	if created {
		ev.Details["created"] = "true"
	}
	l.Log(ctx, ev)
}

// Registered logs a self-service registration.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventRegistered, &userID, email))
}

// LoginFailed logs a failed sign-in. eventType is one of the
// audit.EventLoginFailed* constants; userID is nil when no user matched.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, email, reason string) {
	ev := authEvent(r, eventType, userID, email)
	ev.Success = false
	ev.FailureReason = reason
	l.Log(ctx, ev)
}

// Logout logs a sign-out. Invalid ids are recorded without a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	l.Log(ctx, authEvent(r, audit.EventLogout, oid(userID), ""))
}

// --- Admin Events ---

// AdminAction logs a change to a managed resource made by the signed-in user
// of r. The event type is "<resource>_<action>", for example "job_created".
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, resource, action, resourceID string, details map[string]string) {
	if l == nil {
		return
	}
	ev := audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  resource + "_" + action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         ratelimit.ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    details,
	}
	if u, ok := auth.CurrentUser(r); ok {
		ev.ActorID = oid(u.ID)
	}
	if resource == "user" {
		ev.UserID = oid(resourceID)
	}
	l.Log(ctx, ev)
}
