package rolls

import (
	"context"

	"ewager/bot/common"
	"ewager/infrastructure/observability"
	"ewager/service"

	log "github.com/sirupsen/logrus"
)

// Numeric rolls 1-100 for the invoker
func (f *Feature) Numeric(ctx context.Context, r common.Responder, inv common.Invocation) {
	value := f.rolls.RollNumeric(ctx, inv.UserID)
	name := common.GetDisplayNameInt64(f.session, inv.Guild, inv.UserID)
	if _, err := r.Embed(BuildNumericEmbed(name, value)); err != nil {
		log.WithError(err).Error("Failed to send numeric roll")
	}
}

// Catalog rolls a random catalog entity for the invoker
func (f *Feature) Catalog(ctx context.Context, r common.Responder, inv common.Invocation) {
	record, err := f.rolls.RollCatalog(ctx, inv.UserID)
	if err != nil {
		if service.KindOf(err) == service.KindCollaborator {
			observability.GetMetrics().RecordCatalogFailure()
		}
		common.HandleError(r, err, "roll pokemon")
		return
	}

	name := common.GetDisplayNameInt64(f.session, inv.Guild, inv.UserID)
	if _, err := r.Embed(BuildCatalogEmbed(record, name)); err != nil {
		log.WithError(err).WithField("catalog_id", record.CatalogID).Error("Failed to send catalog roll")
	}
}

// Recent shows a user's latest catalog rolls
func (f *Feature) Recent(ctx context.Context, r common.Responder, inv common.Invocation, userID int64, limit int) {
	if limit > common.MaxListLimit {
		limit = common.MaxListLimit
	}
	history, err := f.rolls.History(ctx, userID, limit)
	if err != nil {
		common.HandleError(r, err, "recent rolls")
		return
	}

	name := common.GetDisplayNameInt64(f.session, inv.Guild, userID)
	if _, err := r.Embed(BuildRecentEmbed(history, name)); err != nil {
		log.WithError(err).Error("Failed to send recent rolls")
	}
}
