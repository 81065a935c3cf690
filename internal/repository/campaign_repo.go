package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wordrealm/internal/database"
	"wordrealm/internal/models"
)

// CampaignRepository handles database operations for campaigns, their
// memberships and the per-day secret words.
type CampaignRepository struct {
	db database.DBTX
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db database.DBTX) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// CreateCampaign inserts a campaign and returns it
func (r *CampaignRepository) CreateCampaign(name string, ownerID int64, inviteCode, startDate string, cycleLength int, isAdminCampaign bool) (*models.Campaign, error) {
	query := `
		INSERT INTO campaigns (name, owner_id, invite_code, start_date, cycle_length, is_admin_campaign)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, ownerID, inviteCode, startDate, cycleLength, boolToInt(isAdminCampaign))
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return r.GetCampaignByID(id)
}

const campaignColumns = "id, name, owner_id, invite_code, start_date, cycle_length, king, is_admin_campaign, created_at"

// GetCampaignByID retrieves a campaign by ID
func (r *CampaignRepository) GetCampaignByID(id int64) (*models.Campaign, error) {
	return r.getCampaign("SELECT "+campaignColumns+" FROM campaigns WHERE id = ?", id)
}

// GetCampaignByInviteCode retrieves a campaign by its invite code
func (r *CampaignRepository) GetCampaignByInviteCode(code string) (*models.Campaign, error) {
	return r.getCampaign("SELECT "+campaignColumns+" FROM campaigns WHERE invite_code = ?", code)
}

// GetCampaignForUpdate retrieves a campaign while holding a row lock
// where the dialect supports one. Guess submission and the cycle reset
// both take this lock first, so they serialize per campaign.
func (r *CampaignRepository) GetCampaignForUpdate(id int64) (*models.Campaign, error) {
	query := "SELECT " + campaignColumns + " FROM campaigns WHERE id = ?" + r.db.GetDialect().ForUpdate()
	return r.getCampaign(query, id)
}

func (r *CampaignRepository) getCampaign(query string, arg interface{}) (*models.Campaign, error) {
	c := &models.Campaign{}
	var king sql.NullString
	var isAdmin int

	err := r.db.QueryRow(query, arg).Scan(
		&c.ID,
		&c.Name,
		&c.OwnerID,
		&c.InviteCode,
		&c.StartDate,
		&c.CycleLength,
		&king,
		&isAdmin,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	c.King = king.String
	c.IsAdminCampaign = isAdmin != 0
	return c, nil
}

// ListCampaignsForUser returns the campaigns a user belongs to
func (r *CampaignRepository) ListCampaignsForUser(userID int64) ([]models.Campaign, error) {
	query := `
		SELECT c.id, c.name, c.owner_id, c.invite_code, c.start_date, c.cycle_length, c.king, c.is_admin_campaign, c.created_at
		FROM campaigns c
		JOIN campaign_members m ON m.campaign_id = c.id
		WHERE m.user_id = ?
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var king sql.NullString
		var isAdmin int
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.InviteCode, &c.StartDate, &c.CycleLength, &king, &isAdmin, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		c.King = king.String
		c.IsAdminCampaign = isAdmin != 0
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// ListExpiredCampaigns returns campaigns whose final day is before the
// given date, i.e. start_date + cycle_length <= today.
func (r *CampaignRepository) ListExpiredCampaigns(today string) ([]models.Campaign, error) {
	rows, err := r.db.Query("SELECT " + campaignColumns + " FROM campaigns")
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var expired []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var king sql.NullString
		var isAdmin int
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.InviteCode, &c.StartDate, &c.CycleLength, &king, &isAdmin, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		c.King = king.String
		c.IsAdminCampaign = isAdmin != 0
		expired = append(expired, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Date comparison happens in Go: start_date is TEXT and the cutoff
	// needs calendar arithmetic, which the three dialects spell
	// differently.
	filtered := expired[:0]
	for _, c := range expired {
		if campaignEnded(c.StartDate, c.CycleLength, today) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// ResetCampaign rewrites the campaign epoch and crowns the cycle winner
func (r *CampaignRepository) ResetCampaign(id int64, newStartDate, king string) error {
	query := "UPDATE campaigns SET start_date = ?, king = ? WHERE id = ?"
	if _, err := r.db.Exec(query, newStartDate, nullString(king), id); err != nil {
		return fmt.Errorf("failed to reset campaign: %w", err)
	}
	return nil
}

// DeleteCampaign removes a campaign; dependent rows cascade
func (r *CampaignRepository) DeleteCampaign(id int64) error {
	if _, err := r.db.Exec("DELETE FROM campaigns WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// AddMember inserts a campaign membership
func (r *CampaignRepository) AddMember(campaignID, userID int64, displayName, color string) error {
	query := `
		INSERT INTO campaign_members (user_id, campaign_id, display_name, color)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, userID, campaignID, displayName, nullString(color)); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

const memberColumns = "user_id, campaign_id, display_name, color, score, double_down_activated, double_down_used_week, double_down_date"

// GetMember retrieves a single membership row
func (r *CampaignRepository) GetMember(campaignID, userID int64) (*models.CampaignMember, error) {
	query := "SELECT " + memberColumns + " FROM campaign_members WHERE campaign_id = ? AND user_id = ?"
	return r.getMember(query, campaignID, userID)
}

// GetMemberForUpdate retrieves a membership row under a row lock where
// the dialect supports one.
func (r *CampaignRepository) GetMemberForUpdate(campaignID, userID int64) (*models.CampaignMember, error) {
	query := "SELECT " + memberColumns + " FROM campaign_members WHERE campaign_id = ? AND user_id = ?" + r.db.GetDialect().ForUpdate()
	return r.getMember(query, campaignID, userID)
}

func (r *CampaignRepository) getMember(query string, args ...interface{}) (*models.CampaignMember, error) {
	m := &models.CampaignMember{}
	var color, ddDate sql.NullString
	var activated, usedWeek int

	err := r.db.QueryRow(query, args...).Scan(
		&m.UserID,
		&m.CampaignID,
		&m.DisplayName,
		&color,
		&m.Score,
		&activated,
		&usedWeek,
		&ddDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	m.Color = color.String
	m.DoubleDownActivated = activated != 0
	m.DoubleDownUsedWeek = usedWeek != 0
	m.DoubleDownDate = ddDate.String
	return m, nil
}

// ListMembers returns every member of a campaign ordered by score
func (r *CampaignRepository) ListMembers(campaignID int64) ([]models.CampaignMember, error) {
	query := "SELECT " + memberColumns + " FROM campaign_members WHERE campaign_id = ? ORDER BY score DESC, display_name ASC"
	rows, err := r.db.Query(query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.CampaignMember
	for rows.Next() {
		var m models.CampaignMember
		var color, ddDate sql.NullString
		var activated, usedWeek int
		if err := rows.Scan(&m.UserID, &m.CampaignID, &m.DisplayName, &color, &m.Score, &activated, &usedWeek, &ddDate); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Color = color.String
		m.DoubleDownActivated = activated != 0
		m.DoubleDownUsedWeek = usedWeek != 0
		m.DoubleDownDate = ddDate.String
		members = append(members, m)
	}
	return members, rows.Err()
}

// UpdateMemberProfile changes a member's display name and color
func (r *CampaignRepository) UpdateMemberProfile(campaignID, userID int64, displayName, color string) error {
	query := "UPDATE campaign_members SET display_name = ?, color = ? WHERE campaign_id = ? AND user_id = ?"
	if _, err := r.db.Exec(query, displayName, nullString(color), campaignID, userID); err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *CampaignRepository) RemoveMember(campaignID, userID int64) error {
	if _, err := r.db.Exec("DELETE FROM campaign_members WHERE campaign_id = ? AND user_id = ?", campaignID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// AddScore adds troops to a member's campaign score
func (r *CampaignRepository) AddScore(campaignID, userID int64, troops int) error {
	query := "UPDATE campaign_members SET score = score + ? WHERE campaign_id = ? AND user_id = ?"
	if _, err := r.db.Exec(query, troops, campaignID, userID); err != nil {
		return fmt.Errorf("failed to add score: %w", err)
	}
	return nil
}

// ResetMemberCycleState zeroes scores and double-down flags for a new cycle
func (r *CampaignRepository) ResetMemberCycleState(campaignID int64) error {
	query := `
		UPDATE campaign_members
		SET score = 0, double_down_activated = 0, double_down_used_week = 0, double_down_date = NULL
		WHERE campaign_id = ?
	`
	if _, err := r.db.Exec(query, campaignID); err != nil {
		return fmt.Errorf("failed to reset member state: %w", err)
	}
	return nil
}

// ActivateDoubleDown marks double down active for the given date
func (r *CampaignRepository) ActivateDoubleDown(campaignID, userID int64, date string) error {
	query := `
		UPDATE campaign_members
		SET double_down_activated = 1, double_down_date = ?
		WHERE campaign_id = ? AND user_id = ?
	`
	if _, err := r.db.Exec(query, date, campaignID, userID); err != nil {
		return fmt.Errorf("failed to activate double down: %w", err)
	}
	return nil
}

// SettleDoubleDown clears the activation and burns the once-per-cycle use
func (r *CampaignRepository) SettleDoubleDown(campaignID, userID int64) error {
	query := `
		UPDATE campaign_members
		SET double_down_activated = 0, double_down_used_week = 1
		WHERE campaign_id = ? AND user_id = ?
	`
	if _, err := r.db.Exec(query, campaignID, userID); err != nil {
		return fmt.Errorf("failed to settle double down: %w", err)
	}
	return nil
}

// SetWord assigns the secret word for one campaign day
func (r *CampaignRepository) SetWord(campaignID int64, day int, word string) error {
	query := `
		INSERT INTO campaign_words (campaign_id, day, word)
		VALUES (?, ?, ?)
		ON CONFLICT (campaign_id, day) DO UPDATE SET word = excluded.word
	`
	if _, err := r.db.Exec(query, campaignID, day, word); err != nil {
		return fmt.Errorf("failed to set word: %w", err)
	}
	return nil
}

// GetWord returns the secret word for a campaign day, or "" when unassigned
func (r *CampaignRepository) GetWord(campaignID int64, day int) (string, error) {
	var word string
	err := r.db.QueryRow("SELECT word FROM campaign_words WHERE campaign_id = ? AND day = ?", campaignID, day).Scan(&word)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get word: %w", err)
	}
	return word, nil
}

// ListWords returns the full day-to-word assignment for a campaign
func (r *CampaignRepository) ListWords(campaignID int64) (map[int]string, error) {
	rows, err := r.db.Query("SELECT day, word FROM campaign_words WHERE campaign_id = ?", campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	defer rows.Close()

	words := make(map[int]string)
	for rows.Next() {
		var day int
		var word string
		if err := rows.Scan(&day, &word); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words[day] = word
	}
	return words, rows.Err()
}

// DeleteWords clears a campaign's word assignments ahead of a reseed
func (r *CampaignRepository) DeleteWords(campaignID int64) error {
	if _, err := r.db.Exec("DELETE FROM campaign_words WHERE campaign_id = ?", campaignID); err != nil {
		return fmt.Errorf("failed to delete words: %w", err)
	}
	return nil
}

// campaignEnded reports whether the cycle's last day is strictly before today
func campaignEnded(startDate string, cycleLength int, today string) bool {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return false
	}
	now, err := time.Parse("2006-01-02", today)
	if err != nil {
		return false
	}
	lastDay := start.AddDate(0, 0, cycleLength-1)
	return now.After(lastDay)
}
