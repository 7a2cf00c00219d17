package schema

import "github.com/taibuivan/mushaf/internal/platform/constants"

// SystemSettingTable represents the 'system.setting' table
type SystemSettingTable struct {
	Table      string
	LocalTable string
	Key        string
	Value      string
	UpdatedAt  string
}

// SystemSetting is the schema definition for system.setting
var SystemSetting = SystemSettingTable{
	Table:      constants.SchemaSystem + ".setting",
	LocalTable: "setting",
	Key:        "key",
	Value:      "value",
	UpdatedAt:  "updatedat",
}
