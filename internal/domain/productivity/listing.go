package productivity

// JobFilter narrows job listings. Empty fields match everything.
// InstallerID keeps jobs with at least one assignment for that installer.
type JobFilter struct {
	InstallerID string
	Branch      string
	Status      JobStatus
}

// SessionFilter narrows session listings. Empty fields match everything.
type SessionFilter struct {
	JobID       string
	InstallerID string
	Status      SessionStatus
}

type SessionStats struct {
	Total             int
	Completed         int
	AvgNetDurationMin float64
}

// Dashboard is the operational overview shown to managers.
type Dashboard struct {
	JobsByStatus    map[JobStatus]int
	TotalJobs       int
	Sessions        SessionStats
	OpenSessions    int
	TotalInstallers int
}

func NewDashboard(jobs map[JobStatus]int, sessions SessionStats, installers int) Dashboard {
	d := Dashboard{
		JobsByStatus:    map[JobStatus]int{},
		Sessions:        sessions,
		OpenSessions:    sessions.Total - sessions.Completed,
		TotalInstallers: installers,
	}
	for _, s := range []JobStatus{JobAwaiting, JobInstalling, JobPaused, JobLate, JobFinished} {
		d.JobsByStatus[s] = jobs[s]
	}
	for _, n := range jobs {
		d.TotalJobs += n
	}
	d.Sessions.AvgNetDurationMin = Round2(sessions.AvgNetDurationMin)
	return d
}
