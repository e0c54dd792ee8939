package models

// ViolentTactic records violent-tactic counts for an organization in a year.
type ViolentTactic struct {
	ID                   int64 `gorm:"primaryKey;autoIncrement;column:id"`
	FacID                int64 `gorm:"not null;index;column:fac_id"`
	Year                 int   `gorm:"column:year"`
	AgainstState         int   `gorm:"not null;default:0;column:against_state"`
	AgainstStateFatal    int   `gorm:"not null;default:0;column:against_state_fatal"`
	AgainstOrg           int   `gorm:"not null;default:0;column:against_org"`
	AgainstOrgFatal      int   `gorm:"not null;default:0;column:against_org_fatal"`
	AgainstIngroup       int   `gorm:"not null;default:0;column:against_ingroup"`
	AgainstIngroupFatal  int   `gorm:"not null;default:0;column:against_ingroup_fatal"`
	AgainstOutgroup      int   `gorm:"not null;default:0;column:against_outgroup"`
	AgainstOutgroupFatal int   `gorm:"not null;default:0;column:against_outgroup_fatal"`
	Audit

	Organization *Organization `gorm:"foreignKey:FacID;references:FacID"`
}

// TableName specifies the table name for ViolentTactic
func (ViolentTactic) TableName() string {
	return "violent_tactics"
}

// NonviolentTactic records nonviolent-tactic counts for an organization in a year.
type NonviolentTactic struct {
	ID                      int64 `gorm:"primaryKey;autoIncrement;column:id"`
	FacID                   int64 `gorm:"not null;index;column:fac_id"`
	Year                    int   `gorm:"column:year"`
	EconomicNoncooperation  int   `gorm:"not null;default:0;column:economic_noncooperation"`
	ProtestDemonstration    int   `gorm:"not null;default:0;column:protest_demonstration"`
	NonviolentIntervention  int   `gorm:"not null;default:0;column:nonviolent_intervention"`
	SocialNoncooperation    int   `gorm:"not null;default:0;column:social_noncooperation"`
	InstitutionalAction     int   `gorm:"not null;default:0;column:institutional_action"`
	PoliticalNoncooperation int   `gorm:"not null;default:0;column:political_noncooperation"`
	Audit

	Organization *Organization `gorm:"foreignKey:FacID;references:FacID"`
}

// TableName specifies the table name for NonviolentTactic
func (NonviolentTactic) TableName() string {
	return "nonviolent_tactics"
}
