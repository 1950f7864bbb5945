package models

import "time"

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Contestant is an entity the audience votes on during the live session
type Contestant struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	TeamName    string           `gorm:"size:255" json:"team_name"`
	Description string           `gorm:"type:text" json:"description"`
	ImageURL    string           `gorm:"size:500" json:"image_url,omitempty"`
	IsActive    bool             `gorm:"not null;index" json:"is_active"`
	Votes       []ContestantVote `gorm:"foreignKey:ContestantID" json:"votes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Contestant) TableName() string {
	return "contestants"
}

// NetScore returns upvotes minus downvotes over the loaded votes
func (c *Contestant) NetScore() int {
	score := 0
	for _, v := range c.Votes {
		switch v.Type {
		case VoteUp:
			score++
		case VoteDown:
			score--
		}
	}
	return score
}

// ContestantVote is one user's vote on a contestant; a user holds at most one per contestant
type ContestantVote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ContestantID uint      `gorm:"not null;uniqueIndex:idx_contestant_voter" json:"contestant_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_contestant_voter" json:"user_id"`
	Type         VoteType  `gorm:"size:8;not null" json:"type"`
	VotedAt      time.Time `gorm:"not null" json:"voted_at"`
}

func (ContestantVote) TableName() string {
	return "contestant_votes"
}

type PitchStatus string

const (
	PitchStatusUpcoming PitchStatus = "Upcoming"
	PitchStatusLive     PitchStatus = "Live"
	PitchStatusDone     PitchStatus = "Done"
)

// Pitch is a scheduled team presentation rated by judges
type Pitch struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"size:255;not null" json:"title"`
	TeamName  string        `gorm:"size:255;not null" json:"team_name"`
	Category  string        `gorm:"size:100" json:"category"`
	SlotOrder int           `gorm:"not null;default:0;index" json:"slot_order"`
	Status    PitchStatus   `gorm:"size:20;not null;default:Upcoming" json:"status"`
	Ratings   []PitchRating `gorm:"foreignKey:PitchID" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (Pitch) TableName() string {
	return "pitches"
}

// PitchRating is a judge's score for a pitch
type PitchRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PitchID   uint      `gorm:"not null;uniqueIndex:idx_pitch_judge" json:"pitch_id"`
	JudgeID   uint      `gorm:"not null;uniqueIndex:idx_pitch_judge" json:"judge_id"`
	Score     int       `gorm:"not null" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PitchRating) TableName() string {
	return "pitch_ratings"
}
