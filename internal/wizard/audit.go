package wizard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trip-guide/internal/models"
)

type AuditStore interface {
	RecordAudit(ctx context.Context, e *models.AuditEntry) error
}

// AuditLog records wizard writes as admin.<entity>.<action>.
type AuditLog struct {
	store  AuditStore
	logger *zap.Logger
}

// NewAuditLog returns an audit log writing to store. A nil store only logs.
func NewAuditLog(store AuditStore, logger *zap.Logger) *AuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLog{store: store, logger: logger.Named("audit")}
}

// Record never fails the action it describes; storage errors are logged.
func (a *AuditLog) Record(ctx context.Context, actor, entity, action string, target any) {
	name := "admin." + entity + "." + action
	t := fmt.Sprint(target)
	a.logger.Info(name, zap.String("actor", actor), zap.String("target", t))
	if a.store == nil {
		return
	}
	if err := a.store.RecordAudit(ctx, &models.AuditEntry{Action: name, Actor: actor, Target: t}); err != nil {
		a.logger.Warn("failed to store audit entry", zap.String("action", name), zap.Error(err))
	}
}
