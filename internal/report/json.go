package report

import (
	"encoding/json"

	"github.com/nicholasgasior/vdcheck/pkg/types"
)

// GenerateJSON produces the structured report for scripting and issue
// attachments.
func GenerateJSON(report *types.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
