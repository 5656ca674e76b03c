package model

// StatusCounts holds the number of tasks per status
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in-progress"`
	Done       int `json:"done"`
}

// Set stores n under status s. Unknown statuses are ignored.
func (c *StatusCounts) Set(s Status, n int) {
	switch s {
	case StatusTodo:
		c.Todo = n
	case StatusInProgress:
		c.InProgress = n
	case StatusDone:
		c.Done = n
	}
}

// TimeSpent is the total tracked time of a user
type TimeSpent struct {
	TotalDuration int64  `json:"total_duration"`
	Formatted     string `json:"formatted"`
}

// ProjectTotals is the raw per-project aggregate read from storage.
// ProjectName is empty when the project row is missing.
type ProjectTotals struct {
	ProjectID      string
	ProjectName    string
	TotalTasks     int
	CompletedTasks int
	TimeSpent      int64
}

// ProjectSummary is one row of the project summary report
type ProjectSummary struct {
	ProjectID          string `json:"project_id"`
	ProjectName        string `json:"project_name"`
	TotalTasks         int    `json:"total_tasks"`
	CompletedTasks     int    `json:"completed_tasks"`
	TimeSpent          int64  `json:"time_spent"`
	FormattedTimeSpent string `json:"formatted_time_spent"`
}

// ActivityTask is a task annotated with its formatted duration
type ActivityTask struct {
	Task
	FormattedDuration string `json:"formatted_duration"`
}

// Activity is the result of a time-windowed activity query
type Activity struct {
	Count int            `json:"count"`
	Tasks []ActivityTask `json:"tasks"`
}
