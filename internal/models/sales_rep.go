package models

// SalesRep is the roster entry shown on the sales team page. AmountOfDeals is
// refreshed from the deal table whenever the roster is listed.
type SalesRep struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName     string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName      string `gorm:"type:varchar(100);not null" json:"last_name"`
	PhoneNumber   string `gorm:"type:varchar(50)" json:"phone_number"`
	Email         string `gorm:"type:varchar(200)" json:"email"`
	AmountOfDeals int    `gorm:"not null;default:0" json:"amount_of_deals"`
	Territory     string `gorm:"type:varchar(10);index" json:"territory"`
}

func (SalesRep) TableName() string {
	return "sales_reps"
}

func (r SalesRep) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
