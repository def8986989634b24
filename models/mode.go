package models

import "fmt"

// DeployMode selects how a sync reconciles the target index with a build.
type DeployMode string

const (
	// DeployModeFull clears the index, then inserts the new documents.
	// Stale records never survive, at the cost of a brief window where
	// the index is empty.
	DeployModeFull DeployMode = "full"
	// DeployModeIncremental upserts by objectID and leaves everything
	// else in place. Documents of removed pages linger until the next
	// full sync.
	DeployModeIncremental DeployMode = "incremental"
)

// ParseDeployMode validates a mode string from config or flags. The empty
// string resolves to the full mode.
func ParseDeployMode(s string) (DeployMode, error) {
	switch DeployMode(s) {
	case "", DeployModeFull:
		return DeployModeFull, nil
	case DeployModeIncremental:
		return DeployModeIncremental, nil
	}
	return "", fmt.Errorf("unknown deploy mode %q (expected full or incremental)", s)
}
