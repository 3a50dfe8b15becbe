package audit

import "fmt"

// GoalUpdateEvent is logged when a user changes their weekly target.
type GoalUpdateEvent struct {
	UserID       string
	ClientIP     string
	WeeklyTarget float64
}

func (e GoalUpdateEvent) MessageID() string {
	return "goal-update"
}

func (e GoalUpdateEvent) Message() string {
	return fmt.Sprintf("%s set weekly target to %.2f kg CO2", e.UserID, e.WeeklyTarget)
}

func (e GoalUpdateEvent) Severity() Severity {
	return SeverityInfo
}

func (e GoalUpdateEvent) Facility() int {
	return FacilityUser
}

func (e GoalUpdateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"weekly_target": fmt.Sprintf("%.2f", e.WeeklyTarget)},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction:  {"operation": "update"},
	}
}
