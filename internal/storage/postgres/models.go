package postgres

import (
	"time"

	"github.com/mcoot/farklestats/internal/model"
)

// Table rows mapped by gorm. They mirror the relational layout used by the
// sqlite backend, with native timestamp and boolean columns.

type userRow struct {
	UserID    string    `gorm:"primaryKey;type:text"`
	LoginType string    `gorm:"size:32;not null;default:anonymous"`
	CreatedAt time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type playerRow struct {
	PlayerID    string    `gorm:"primaryKey;size:64"`
	UserID      string    `gorm:"type:text;not null;index"`
	DisplayName string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	User        userRow   `gorm:"foreignKey:UserID;references:UserID"`
}

func (playerRow) TableName() string { return "player_profiles" }

type gameRow struct {
	GameID   string      `gorm:"primaryKey;size:64"`
	UserID   string      `gorm:"type:text;not null;index"`
	PlayedAt time.Time   `gorm:"not null"`
	User     userRow     `gorm:"foreignKey:UserID;references:UserID"`
	Results  []resultRow `gorm:"foreignKey:GameID;references:GameID;constraint:OnDelete:CASCADE"`
}

func (gameRow) TableName() string { return "games" }

type resultRow struct {
	ResultID   string     `gorm:"primaryKey;size:64"`
	GameID     string     `gorm:"size:64;not null;index;uniqueIndex:idx_game_results_game_player"`
	PlayerID   *string    `gorm:"size:64;index;uniqueIndex:idx_game_results_game_player"`
	Position   int        `gorm:"not null"`
	Score      int        `gorm:"not null;check:score >= 0"`
	TurnsTaken int        `gorm:"not null;check:turns_taken >= 0"`
	Farkles    int        `gorm:"not null;check:farkles >= 0"`
	Won        bool       `gorm:"not null;default:false"`
	Player     *playerRow `gorm:"foreignKey:PlayerID;references:PlayerID;constraint:OnDelete:SET NULL"`
}

func (resultRow) TableName() string { return "game_results" }

func userFromRow(r userRow) *model.User {
	return &model.User{
		ID:        model.UserID(r.UserID),
		LoginType: model.LoginType(r.LoginType),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func playerFromRow(r playerRow) *model.PlayerProfile {
	return &model.PlayerProfile{
		ID:          model.PlayerID(r.PlayerID),
		UserID:      model.UserID(r.UserID),
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func resultFromRow(r resultRow) model.GameResult {
	result := model.GameResult{
		ID:         model.ResultID(r.ResultID),
		GameID:     model.GameID(r.GameID),
		Score:      r.Score,
		TurnsTaken: r.TurnsTaken,
		Farkles:    r.Farkles,
		Won:        r.Won,
	}
	if r.PlayerID != nil {
		pid := model.PlayerID(*r.PlayerID)
		result.PlayerID = &pid
	}
	return result
}

// totalsRow receives the aggregate queries
type totalsRow struct {
	PlayerID     string
	DisplayName  string
	GamesPlayed  int
	Wins         int
	TotalPoints  int
	TotalFarkles int
	HighScore    int
}

func (r totalsRow) toModel() model.PlayerTotals {
	return model.PlayerTotals{
		PlayerID:     model.PlayerID(r.PlayerID),
		DisplayName:  r.DisplayName,
		GamesPlayed:  r.GamesPlayed,
		Wins:         r.Wins,
		TotalPoints:  r.TotalPoints,
		TotalFarkles: r.TotalFarkles,
		HighScore:    r.HighScore,
	}
}
