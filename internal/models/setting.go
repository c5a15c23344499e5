package models

// Setting keys for organization-wide configuration.
const (
	SettingCompanyName = "company_name"
	SettingCompanyLogo = "company_logo"
	SettingSheetURL    = "sheet_url"
	SettingLastSynced  = "last_synced"
)

// Setting is a key/value row holding organization settings such as the
// display name, the logo data URI, and the remote sync endpoint.
type Setting struct {
	Base
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `json:"value"`
}
