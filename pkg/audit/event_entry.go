package audit

import "fmt"

// EntryCreateEvent is logged when a daily entry is stored.
type EntryCreateEvent struct {
	UserID       string
	ClientIP     string
	EntryID      string
	Date         string
	Total        float64
	Success      bool
	ErrorMessage string
}

func (e EntryCreateEvent) MessageID() string {
	return "entry-create"
}

func (e EntryCreateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s logged %.2f kg CO2 for %s", e.UserID, e.Total, e.Date)
	}
	msg := fmt.Sprintf("%s failed to log an entry for %s", e.UserID, e.Date)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EntryCreateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e EntryCreateEvent) Facility() int {
	return FacilityUser
}

func (e EntryCreateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"date": e.Date},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction: {
			"operation": "create",
			"result":    result(e.Success),
		},
	}
	if e.EntryID != "" {
		sd[SDIDSubject]["entry"] = e.EntryID
	}
	return sd
}

// EntryImportEvent is logged after a CSV import.
type EntryImportEvent struct {
	UserID   string
	ClientIP string
	Imported int
	Rejected int
}

func (e EntryImportEvent) MessageID() string {
	return "entry-import"
}

func (e EntryImportEvent) Message() string {
	return fmt.Sprintf("%s imported %d entries (%d rows rejected)", e.UserID, e.Imported, e.Rejected)
}

func (e EntryImportEvent) Severity() Severity {
	if e.Rejected > 0 {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e EntryImportEvent) Facility() int {
	return FacilityUser
}

func (e EntryImportEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:   {"user": e.UserID},
		SDIDClient: {"ip": e.ClientIP},
		SDIDAction: {
			"operation": "import",
			"imported":  fmt.Sprint(e.Imported),
			"rejected":  fmt.Sprint(e.Rejected),
		},
	}
}

// EntryDeleteEvent is logged when an entry is removed.
type EntryDeleteEvent struct {
	UserID       string
	ClientIP     string
	EntryID      string
	Success      bool
	ErrorMessage string
}

func (e EntryDeleteEvent) MessageID() string {
	return "entry-delete"
}

func (e EntryDeleteEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s deleted entry %s", e.UserID, e.EntryID)
	}
	msg := fmt.Sprintf("%s tried to delete entry %s", e.UserID, e.EntryID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e EntryDeleteEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e EntryDeleteEvent) Facility() int {
	return FacilityUser
}

func (e EntryDeleteEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"entry": e.EntryID},
		SDIDClient:  {"ip": e.ClientIP},
		SDIDAction: {
			"operation": "delete",
			"result":    result(e.Success),
		},
	}
}
