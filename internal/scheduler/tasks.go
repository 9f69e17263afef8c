package scheduler

import (
	"github.com/hibiken/asynq"
)

const TaskAgendaRefresh = "agenda.refresh"

const TaskSchoolsRefresh = "schools.refresh"

func NewAgendaRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskAgendaRefresh, nil)
}

func NewSchoolsRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskSchoolsRefresh, nil)
}
