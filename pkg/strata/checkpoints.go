package strata

import (
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/strata/pkg/core"
	"github.com/aretw0/strata/pkg/exclusions"
)

// baselineExcludes returns the store-private ignore rules written at
// initialization. The disabled-repository suffix must be here: once a
// nested .git is renamed it stops being special to the engine, and
// without this rule its metadata would be swept into the snapshot.
func baselineExcludes() []string {
	rules := []string{
		".git" + disabledSuffix + "/",
		exclusions.ConfigFile,
	}
	return append(rules, exclusions.LargeBinaryPatterns...)
}

// parseCheckpoints decodes the engine's log tuples
// ("<id>\x00<unix>\x00<subject>") into checkpoints.
func parseCheckpoints(taskID string, lines []string) []core.Checkpoint {
	checkpoints := make([]core.Checkpoint, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "\x00", 3)
		if len(parts) != 3 {
			continue
		}
		unix, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		checkpoints = append(checkpoints, core.Checkpoint{
			ID:        parts[0],
			TaskID:    taskID,
			Message:   parts[2],
			CreatedAt: time.Unix(unix, 0).UTC(),
		})
	}
	return checkpoints
}
