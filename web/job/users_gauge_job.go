package job

import (
	"context"
	"time"

	"github.com/drsdgdbye/user-panel/logger"
	"github.com/drsdgdbye/user-panel/util/common"
	"github.com/drsdgdbye/user-panel/util/metrics"
)

type userCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// UsersGaugeJob refreshes the stored-users gauge.
type UsersGaugeJob struct {
	users userCounter
}

func NewUsersGaugeJob(users userCounter) *UsersGaugeJob {
	return &UsersGaugeJob{users: users}
}

func (j *UsersGaugeJob) Run() {
	defer common.Recover("users gauge job")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := j.users.CountUsers(ctx)
	if err != nil {
		logger.Warning("count users failed:", err)
		return
	}
	metrics.Users.Set(float64(count))
}
