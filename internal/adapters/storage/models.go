package storage

import "time"

// SessionModel is the GORM model for the station session. The table
// always holds at most one row (the station's session); see
// sessionRowID.
type SessionModel struct {
	ID           int    `gorm:"primaryKey"`
	Token        string `gorm:"not null;default:''"`
	Username     string `gorm:"not null;default:''"`
	Role         string `gorm:"not null;default:''"`
	Branch       string `gorm:"default:''"`
	EmployeeID   *int   `gorm:"default:null"`
	EmployeeName string `gorm:"default:''"`
	// ShiftJSON is the active shift snapshot as the API sent it. An
	// opaque advisory cache: the server's copy always wins.
	ShiftJSON  string `gorm:"default:''"`
	AutoClosed bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string { return "station_session" }

// sessionRowID is the fixed primary key of the single session row.
const sessionRowID = 1
