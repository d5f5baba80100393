package models

// HardCodeFinding is the first hardcoded connection string found by a scan.
type HardCodeFinding struct {
	FileName   string `json:"file_name"`
	LineNumber int    `json:"line_number"` // 1-based
	Preview    string `json:"preview"`     // trimmed line text
}

// ScanResult is the terminal verdict of the hardcode scan waterfall.
type ScanResult struct {
	HasAppSettings      bool             `json:"has_app_settings"`
	HasConnectionString bool             `json:"has_connection_string"`
	Finding             *HardCodeFinding `json:"finding,omitempty"`
	IsPassed            bool             `json:"is_passed"`
	Reason              string           `json:"reason,omitempty"`
}
