package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// The dashboard consumes money fields as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	StageProspect    = "prospect"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosedWon   = "closed_won"
	StageClosedLost  = "closed_lost"
)

const (
	ModeTrucking = "trucking"
	ModeRail     = "rail"
	ModeOcean    = "ocean"
	ModeAir      = "air"
)

// Stages lists pipeline stages in funnel order.
var Stages = []string{
	StageProspect,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Deal is a pipeline opportunity. Value, Probability and ExpectedCloseDate are
// nullable; a deal missing any of them is skipped by the forecast.
type Deal struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	DealID string `gorm:"type:varchar(100);not null;index" json:"deal_id"`

	CompanyName        string  `gorm:"type:varchar(200);not null" json:"company_name"`
	ContactName        string  `gorm:"type:varchar(200);not null" json:"contact_name"`
	SalesRep           string  `gorm:"type:varchar(200);index" json:"sales_rep"`
	TransportationMode string  `gorm:"type:varchar(20);not null;index" json:"transportation_mode"`
	CargoType          *string `gorm:"type:varchar(200)" json:"cargo_type,omitempty"`
	OriginCity         string  `gorm:"type:varchar(200)" json:"origin_city"`
	DestinationCity    string  `gorm:"type:varchar(200)" json:"destination_city"`

	Stage string `gorm:"type:varchar(20);not null;index" json:"stage"`

	Value       decimal.NullDecimal `gorm:"type:numeric(20,2)" json:"value"`
	Probability *int                `json:"probability"`

	CreatedDate       *time.Time `gorm:"type:timestamptz;index" json:"created_date"`
	UpdatedDate       *time.Time `gorm:"type:timestamptz" json:"updated_date"`
	ExpectedCloseDate *time.Time `gorm:"type:timestamptz" json:"expected_close_date"`

	AssignedRepID *uint64 `gorm:"index" json:"assigned_rep_id"`
	TerritoryID   *uint64 `gorm:"index" json:"territory_id"`

	AuditTrail datatypes.JSONSlice[AuditEntry] `gorm:"type:jsonb" json:"audit_trail,omitempty"`
}

func (Deal) TableName() string {
	return "deals"
}

// AuditEntry records one assignment change. Entries are only ever appended.
type AuditEntry struct {
	ChangedBy string    `json:"changed_by"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Date      time.Time `json:"date"`
}

func (d Deal) IsClosed() bool {
	return d.Stage == StageClosedWon || d.Stage == StageClosedLost
}

// ValueOrZero returns the deal value, or zero when it was never set.
func (d Deal) ValueOrZero() decimal.Decimal {
	if !d.Value.Valid {
		return decimal.Zero
	}
	return d.Value.Decimal
}

func (d Deal) ProbabilityOrZero() int {
	if d.Probability == nil {
		return 0
	}
	return *d.Probability
}
