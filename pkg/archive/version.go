package archive

import "fmt"

// Version of the linked RAR decoder (github.com/javi11/rardecode/v2).
const (
	BackendMajor = 2
	BackendMinor = 1
	BackendBeta  = 2
	BackendYear  = 2026
	BackendMonth = 2
	BackendDay   = 13
)

// FormatVersion describes the RAR backend as "MAJOR.MINOR.BETA (YYYY-MM-DD)".
func FormatVersion() string {
	return fmt.Sprintf("%d.%d.%d (%04d-%02d-%02d)",
		BackendMajor, BackendMinor, BackendBeta, BackendYear, BackendMonth, BackendDay)
}
