package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Category is the problem type a complaint is filed under.
type Category string

const (
	CategoryNoWaterSupply       Category = "No Water Supply"
	CategoryLowWaterPressure    Category = "Low Water Pressure"
	CategoryBrokenPipes         Category = "Broken/Leaking Pipes"
	CategoryTankLeakage         Category = "Water Tank Leakage"
	CategoryContaminatedWater   Category = "Contaminated Water"
	CategoryIrregularTiming     Category = "Irregular Water Timing"
	CategoryUnequalDistribution Category = "Unequal Distribution"
	CategoryOverflowingTanks    Category = "Overflowing Tanks"
	CategoryBlockedMeters       Category = "Blocked Water Meters"
	CategoryIllegalConnections  Category = "Illegal Connections"
	CategoryWaterQuality        Category = "Water Quality Issues"
	CategorySewageMixing        Category = "Sewage Mixing"
	CategoryPumpFailure         Category = "Pump Failure"
	CategoryPipelineCorrosion   Category = "Pipeline Corrosion"
	CategoryWaterWastage        Category = "Water Wastage"
	CategoryBillingDisputes     Category = "Billing Disputes"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryNoWaterSupply,
	CategoryLowWaterPressure,
	CategoryBrokenPipes,
	CategoryTankLeakage,
	CategoryContaminatedWater,
	CategoryIrregularTiming,
	CategoryUnequalDistribution,
	CategoryOverflowingTanks,
	CategoryBlockedMeters,
	CategoryIllegalConnections,
	CategoryWaterQuality,
	CategorySewageMixing,
	CategoryPumpFailure,
	CategoryPipelineCorrosion,
	CategoryWaterWastage,
	CategoryBillingDisputes,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is a complaint's position in its (unconstrained) lifecycle.
type Status string

const (
	StatusNoted      Status = "Noted"
	StatusPending    Status = "Pending"
	StatusWorking    Status = "Working"
	StatusOnHold     Status = "On Hold"
	StatusResolved   Status = "Resolved"
	StatusRejected   Status = "Rejected"
	StatusDuplicated Status = "Duplicated"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusNoted,
	StatusPending,
	StatusWorking,
	StatusOnHold,
	StatusResolved,
	StatusRejected,
	StatusDuplicated,
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Closed reports whether the status ends the escalation clock.
func (s Status) Closed() bool {
	return s == StatusResolved || s == StatusRejected
}

// ParseStatus accepts the wire value of a status, plus "OnHold" as an alias
// for "On Hold".
func ParseStatus(raw string) (Status, bool) {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, "OnHold") {
		return StatusOnHold, true
	}
	s := Status(trimmed)
	return s, s.Valid()
}

type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Area string  `gorm:"size:255" json:"area"`
}

type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type Comment struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type AdminComment struct {
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// Complaint is a reported water-service issue. Nested sequences are stored
// as JSON columns so a complaint reads and writes as one document.
type Complaint struct {
	ComplaintID      string                            `gorm:"primaryKey;size:64" json:"complaintId"`
	UserID           string                            `gorm:"size:255;not null;index" json:"userId"`
	UserName         string                            `gorm:"size:255" json:"userName"`
	Type             Category                          `gorm:"size:100;not null;index" json:"type"`
	Description      string                            `gorm:"type:text" json:"description"`
	Photos           datatypes.JSONSlice[string]       `json:"photos"`
	Location         Location                          `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Status           Status                            `gorm:"size:50;not null;index" json:"status"`
	StatusHistory    datatypes.JSONSlice[StatusEntry]  `json:"statusHistory"`
	Endorsements     datatypes.JSONSlice[string]       `json:"endorsements"`
	EndorsementCount int                               `gorm:"not null;default:0" json:"endorsementCount"`
	PriorityScore    int                               `gorm:"not null;default:0;index" json:"priorityScore"`
	IsEmergency      bool                              `gorm:"not null;default:false" json:"isEmergency"`
	IsEscalated      bool                              `gorm:"not null;default:false;index" json:"isEscalated"`
	EscalatedAt      *time.Time                        `json:"escalatedAt,omitempty"`
	Comments         datatypes.JSONSlice[Comment]      `json:"comments"`
	AdminID          *string                           `gorm:"size:255" json:"adminId"`
	AdminComments    datatypes.JSONSlice[AdminComment] `json:"adminComments"`
	CreatedAt        time.Time                         `gorm:"autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt        time.Time                         `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// HasEndorsement reports whether userID already endorsed the complaint.
func (c *Complaint) HasEndorsement(userID string) bool {
	for _, id := range c.Endorsements {
		if id == userID {
			return true
		}
	}
	return false
}

// CurrentHistoryStatus returns the status of the latest history entry.
func (c *Complaint) CurrentHistoryStatus() (Status, bool) {
	if len(c.StatusHistory) == 0 {
		return "", false
	}
	return c.StatusHistory[len(c.StatusHistory)-1].Status, true
}
