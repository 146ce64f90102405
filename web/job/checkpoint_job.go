package job

import (
	"github.com/drsdgdbye/user-panel/database"
	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/util/common"
)

// CheckpointJob flushes the SQLite write-ahead log into the main database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint failed:", err)
	}
}
