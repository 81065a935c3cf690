package repository

import (
	"database/sql"
	"fmt"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
)

// EffectsRepository handles status effects, the item event log and the
// per-member item inventory.
type EffectsRepository struct {
	db database.DBTX
}

// NewEffectsRepository creates a new effects repository
func NewEffectsRepository(db database.DBTX) *EffectsRepository {
	return &EffectsRepository{db: db}
}

// UpsertStatusEffect writes or reactivates a per-user effect. One row
// per effect key; re-application overwrites the payload.
func (r *EffectsRepository) UpsertStatusEffect(userID, campaignID int64, effectKey, value string, expiresAt interface{}) error {
	query := `
		INSERT INTO campaign_user_status_effects (user_id, campaign_id, effect_key, effect_value, expires_at, active)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT (user_id, campaign_id, effect_key) DO UPDATE SET
			effect_value = excluded.effect_value,
			expires_at = excluded.expires_at,
			active = 1
	`
	if _, err := r.db.Exec(query, userID, campaignID, effectKey, value, expiresAt); err != nil {
		return fmt.Errorf("failed to upsert status effect: %w", err)
	}
	return nil
}

// GetActiveEffects returns every active effect for a member keyed by effect
func (r *EffectsRepository) GetActiveEffects(userID, campaignID int64) (map[string]models.StatusEffect, error) {
	query := `
		SELECT effect_key, effect_value, applied_at, expires_at
		FROM campaign_user_status_effects
		WHERE user_id = ? AND campaign_id = ? AND active = 1
	`
	rows, err := r.db.Query(query, userID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status effects: %w", err)
	}
	defer rows.Close()

	effects := make(map[string]models.StatusEffect)
	for rows.Next() {
		e := models.StatusEffect{UserID: userID, CampaignID: campaignID, Active: true}
		var value sql.NullString
		var expires sql.NullTime
		if err := rows.Scan(&e.EffectKey, &value, &e.AppliedAt, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan status effect: %w", err)
		}
		e.Value = value.String
		if expires.Valid {
			e.ExpiresAt = &expires.Time
		}
		effects[e.EffectKey] = e
	}
	return effects, rows.Err()
}

// DeactivateEffect switches an effect off without deleting its row
func (r *EffectsRepository) DeactivateEffect(userID, campaignID int64, effectKey string) error {
	query := "UPDATE campaign_user_status_effects SET active = 0 WHERE user_id = ? AND campaign_id = ? AND effect_key = ?"
	if _, err := r.db.Exec(query, userID, campaignID, effectKey); err != nil {
		return fmt.Errorf("failed to deactivate effect: %w", err)
	}
	return nil
}

// ClearEffects deactivates every effect in a campaign for a new cycle
func (r *EffectsRepository) ClearEffects(campaignID int64) error {
	query := "UPDATE campaign_user_status_effects SET active = 0 WHERE campaign_id = ?"
	if _, err := r.db.Exec(query, campaignID); err != nil {
		return fmt.Errorf("failed to clear effects: %w", err)
	}
	return nil
}

// InsertItemEvent appends one row to the item usage log
func (r *EffectsRepository) InsertItemEvent(e *models.ItemEvent) (int64, error) {
	query := `
		INSERT INTO campaign_item_events (user_id, campaign_id, item_key, target_user_id, event_type, effective_on, delayed, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	var target interface{}
	if e.TargetUserID != nil {
		target = *e.TargetUserID
	}
	id, err := r.db.ExecReturningID(query, e.UserID, e.CampaignID, e.ItemKey, target,
		e.EventType, nullString(e.EffectiveOn), boolToInt(e.Delayed), nullString(e.Details))
	if err != nil {
		return 0, fmt.Errorf("failed to insert item event: %w", err)
	}
	return id, nil
}

// ListEventsAgainst returns the item events that target a member and
// become effective on the given date.
func (r *EffectsRepository) ListEventsAgainst(targetUserID, campaignID int64, date string) ([]models.ItemEvent, error) {
	query := `
		SELECT id, user_id, item_key, event_type, effective_on, delayed, details, created_at
		FROM campaign_item_events
		WHERE campaign_id = ? AND target_user_id = ? AND effective_on = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, campaignID, targetUserID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list item events: %w", err)
	}
	defer rows.Close()

	var events []models.ItemEvent
	for rows.Next() {
		e := models.ItemEvent{CampaignID: campaignID, TargetUserID: &targetUserID}
		var effectiveOn, details sql.NullString
		var delayed int
		if err := rows.Scan(&e.ID, &e.UserID, &e.ItemKey, &e.EventType, &effectiveOn, &delayed, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item event: %w", err)
		}
		e.EffectiveOn = effectiveOn.String
		e.Delayed = delayed != 0
		e.Details = details.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// ExpireItemEvent detaches an event from its effective date so the
// gate stops seeing it. Used for one-shot effects like the clown.
func (r *EffectsRepository) ExpireItemEvent(eventID int64) error {
	if _, err := r.db.Exec("UPDATE campaign_item_events SET effective_on = NULL WHERE id = ?", eventID); err != nil {
		return fmt.Errorf("failed to expire item event: %w", err)
	}
	return nil
}

// HasUsedItemOn reports whether a member logged a use of the item on the date
func (r *EffectsRepository) HasUsedItemOn(userID, campaignID int64, itemKey, date string) (bool, error) {
	var one int
	query := `
		SELECT 1 FROM campaign_item_events
		WHERE user_id = ? AND campaign_id = ? AND item_key = ? AND event_type = 'use' AND effective_on = ?
	`
	err := r.db.QueryRow(query, userID, campaignID, itemKey, date).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check item use: %w", err)
	}
	return true, nil
}

// CountUseEvents counts a member's lifetime item uses in a campaign
func (r *EffectsRepository) CountUseEvents(userID, campaignID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM campaign_item_events WHERE user_id = ? AND campaign_id = ? AND event_type = 'use'"
	if err := r.db.QueryRow(query, userID, campaignID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count item uses: %w", err)
	}
	return count, nil
}

// CountDistinctItemsUsed counts how many different items a member has used
func (r *EffectsRepository) CountDistinctItemsUsed(userID, campaignID int64) (int, error) {
	var count int
	query := "SELECT COUNT(DISTINCT item_key) FROM campaign_item_events WHERE user_id = ? AND campaign_id = ? AND event_type = 'use'"
	if err := r.db.QueryRow(query, userID, campaignID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct items: %w", err)
	}
	return count, nil
}

// AddItem credits quantity of an item to a member's inventory
func (r *EffectsRepository) AddItem(userID, campaignID int64, itemKey string, quantity int) error {
	query := `
		INSERT INTO campaign_user_items (user_id, campaign_id, item_key, quantity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, campaign_id, item_key) DO UPDATE SET
			quantity = campaign_user_items.quantity + excluded.quantity
	`
	if _, err := r.db.Exec(query, userID, campaignID, itemKey, quantity); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return nil
}

// ConsumeItem decrements an inventory entry. Returns false when the
// member holds none; nothing is written in that case.
func (r *EffectsRepository) ConsumeItem(userID, campaignID int64, itemKey string) (bool, error) {
	query := `
		UPDATE campaign_user_items
		SET quantity = quantity - 1
		WHERE user_id = ? AND campaign_id = ? AND item_key = ? AND quantity > 0
	`
	result, err := r.db.Exec(query, userID, campaignID, itemKey)
	if err != nil {
		return false, fmt.Errorf("failed to consume item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListItems returns a member's inventory as key to quantity
func (r *EffectsRepository) ListItems(userID, campaignID int64) (map[string]int, error) {
	query := "SELECT item_key, quantity FROM campaign_user_items WHERE user_id = ? AND campaign_id = ? AND quantity > 0"
	rows, err := r.db.Query(query, userID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	inventory := make(map[string]int)
	for rows.Next() {
		var key string
		var quantity int
		if err := rows.Scan(&key, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		inventory[key] = quantity
	}
	return inventory, rows.Err()
}
