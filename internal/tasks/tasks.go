package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeUsageStatsAggregate = "usage:stats:aggregate"
)

type UsageStatsPayload struct{}

func NewUsageStatsTask(opts ...asynq.Option) (*asynq.Task, error) {
	payload := UsageStatsPayload{}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	uniqueOpt := asynq.Unique(1 * time.Hour)
	allOpts := append(opts, uniqueOpt)

	return asynq.NewTask(TypeUsageStatsAggregate, payloadBytes, allOpts...), nil
}
