package domain

import "fmt"

type WeeklyScheduleEntry struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctorId"`
	DayOfWeek int    `json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

func (e WeeklyScheduleEntry) RecordID() string { return e.ID }

// WeeklyScheduleID is the stable id of a doctor's entry for one weekday.
func WeeklyScheduleID(doctorID string, day int) string {
	return fmt.Sprintf("ds_%s_%d", doctorID, day)
}

type OverrideType string

const (
	OverrideLeave       OverrideType = "LEAVE"
	OverrideShiftChange OverrideType = "SHIFT_CHANGE"
)

func (t OverrideType) Valid() bool {
	return t == OverrideLeave || t == OverrideShiftChange
}

type OverrideStatus string

const (
	OverridePending  OverrideStatus = "PENDING"
	OverrideApproved OverrideStatus = "APPROVED"
	OverrideDeclined OverrideStatus = "DECLINED"
)

// CanTransition reports whether an override may move from s to next.
// Only PENDING overrides can be reviewed; APPROVED and DECLINED are final.
func (s OverrideStatus) CanTransition(next OverrideStatus) bool {
	return s == OverridePending && (next == OverrideApproved || next == OverrideDeclined)
}

type ScheduleOverride struct {
	ID         string         `json:"id"`
	DoctorID   string         `json:"doctorId"`
	Date       string         `json:"date"`
	Type       OverrideType   `json:"type"`
	StartTime  string         `json:"startTime,omitempty"`
	EndTime    string         `json:"endTime,omitempty"`
	Reason     string         `json:"reason"`
	Status     OverrideStatus `json:"status"`
	CreatedAt  string         `json:"createdAt"`
	ReviewedBy string         `json:"reviewedBy,omitempty"`
	ReviewedAt string         `json:"reviewedAt,omitempty"`
}

func (o ScheduleOverride) RecordID() string { return o.ID }
