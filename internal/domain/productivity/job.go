package productivity

import (
	"sort"
	"strings"
	"time"
)

type JobStatus string

const (
	JobAwaiting   JobStatus = "awaiting"
	JobInstalling JobStatus = "installing"
	JobPaused     JobStatus = "paused"
	JobLate       JobStatus = "late"
	JobFinished   JobStatus = "finished"
)

// rank orders statuses for forward-only transitions. installing, paused and
// late are all "work started" and share a rank.
func (s JobStatus) rank() int {
	switch s {
	case JobAwaiting, "":
		return 0
	case JobInstalling, JobPaused, JobLate:
		return 1
	case JobFinished:
		return 2
	default:
		return 0
	}
}

// ParseJobStatus accepts an empty value as "any status".
func ParseJobStatus(raw string) (JobStatus, error) {
	switch s := JobStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case "", JobAwaiting, JobInstalling, JobPaused, JobLate, JobFinished:
		return s, nil
	default:
		return "", ErrInvalidJobStatus
	}
}

// Before lists the statuses a job may advance from to reach s.
func (s JobStatus) Before() []JobStatus {
	var out []JobStatus
	for _, c := range []JobStatus{JobAwaiting, JobInstalling, JobPaused, JobLate, JobFinished} {
		if c.rank() < s.rank() {
			out = append(out, c)
		}
	}
	return out
}

// LineItem is one product entry of a job. ID is assigned at import and never
// changes; SourceIndex is the position in the upstream payload.
type LineItem struct {
	ID                       string
	SourceIndex              int
	Name                     string
	RawDescription           string
	Quantity                 float64
	WidthM                   *float64
	HeightM                  *float64
	Copies                   int
	UnitAreaM2               *float64
	TotalAreaM2              *float64
	FamilyName               string
	ClassificationConfidence float64
	UnitPrice                float64
	TotalValue               float64
}

type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
)

type ItemAssignment struct {
	ItemID           string
	InstallerID      string
	AssignedAreaM2   *float64
	Status           AssignmentStatus
	DifficultyLevel  *int
	ScenarioCategory *ScenarioCategory
	AssignedAt       time.Time
}

type Job struct {
	ID            string
	ExternalJobID string
	Title         string
	ClientName    string
	Branch        string
	Status        JobStatus
	AreaM2        float64
	TotalItems    int
	TotalQuantity float64
	ScheduledDate *time.Time
	Items         []LineItem
	Assignments   []ItemAssignment
	RawProducts   []RawProduct
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AdvanceStatus moves the job forward and reports whether it changed.
// A status of equal or lower rank is ignored.
func (j *Job) AdvanceStatus(to JobStatus) bool {
	if to.rank() <= j.Status.rank() {
		return false
	}
	j.Status = to
	return true
}

func (j *Job) Item(itemID string) (LineItem, bool) {
	for _, item := range j.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return LineItem{}, false
}

func (j *Job) Assignment(itemID, installerID string) (ItemAssignment, bool) {
	for _, a := range j.Assignments {
		if a.ItemID == itemID && a.InstallerID == installerID {
			return a, true
		}
	}
	return ItemAssignment{}, false
}

type AssignmentRequest struct {
	ItemIDs          []string
	InstallerIDs     []string
	DifficultyLevel  *int
	ScenarioCategory *ScenarioCategory
}

// Assign adds one assignment per (item, installer) pair, replacing any prior
// assignment of the same pair, then re-splits each touched item's area evenly
// across all installers now assigned to it.
func (j *Job) Assign(req AssignmentRequest, now time.Time) error {
	if len(req.ItemIDs) == 0 {
		return ErrNoItemsSelected
	}
	if len(req.InstallerIDs) == 0 {
		return ErrNoInstallersSelected
	}
	if req.DifficultyLevel != nil {
		if err := ValidateComplexity(*req.DifficultyLevel); err != nil {
			return err
		}
	}
	for _, id := range req.ItemIDs {
		if _, ok := j.Item(id); !ok {
			return ErrItemNotFound
		}
	}

	touched := map[string]bool{}
	for _, itemID := range uniqueStrings(req.ItemIDs) {
		touched[itemID] = true
		for _, installerID := range uniqueStrings(req.InstallerIDs) {
			j.removeAssignment(itemID, installerID)
			j.Assignments = append(j.Assignments, ItemAssignment{
				ItemID:           itemID,
				InstallerID:      installerID,
				Status:           AssignmentPending,
				DifficultyLevel:  copyInt(req.DifficultyLevel),
				ScenarioCategory: copyScenario(req.ScenarioCategory),
				AssignedAt:       now,
			})
		}
	}

	for itemID := range touched {
		j.splitItemArea(itemID)
	}
	return nil
}

func (j *Job) removeAssignment(itemID, installerID string) {
	kept := j.Assignments[:0]
	for _, a := range j.Assignments {
		if a.ItemID == itemID && a.InstallerID == installerID {
			continue
		}
		kept = append(kept, a)
	}
	j.Assignments = kept
}

func (j *Job) splitItemArea(itemID string) {
	item, _ := j.Item(itemID)
	count := j.InstallersOnItem(itemID)
	for i := range j.Assignments {
		if j.Assignments[i].ItemID != itemID {
			continue
		}
		if item.TotalAreaM2 == nil || count == 0 {
			j.Assignments[i].AssignedAreaM2 = nil
			continue
		}
		share := Round2(*item.TotalAreaM2 / float64(count))
		j.Assignments[i].AssignedAreaM2 = &share
	}
}

func (j *Job) InstallersOnItem(itemID string) int {
	n := 0
	for _, a := range j.Assignments {
		if a.ItemID == itemID {
			n++
		}
	}
	return n
}

// AssignedItemIDs returns the installer's assigned items in job item order.
func (j *Job) AssignedItemIDs(installerID string) []string {
	assigned := map[string]bool{}
	for _, a := range j.Assignments {
		if a.InstallerID == installerID {
			assigned[a.ItemID] = true
		}
	}
	ids := make([]string, 0, len(assigned))
	for _, item := range j.Items {
		if assigned[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// RequiredItemIDs is the set of items that must be completed for the job to
// finish: every explicitly assigned item, or all items when none are assigned.
func (j *Job) RequiredItemIDs() []string {
	assigned := map[string]bool{}
	for _, a := range j.Assignments {
		assigned[a.ItemID] = true
	}
	ids := make([]string, 0, len(j.Items))
	for _, item := range j.Items {
		if len(assigned) == 0 || assigned[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (j *Job) SetAssignmentStatus(itemID, installerID string, status AssignmentStatus) bool {
	for i := range j.Assignments {
		a := &j.Assignments[i]
		if a.ItemID == itemID && a.InstallerID == installerID {
			if a.Status == AssignmentCompleted {
				return false
			}
			a.Status = status
			return true
		}
	}
	return false
}

// IsComplete reports whether every required item has a completed session.
// Without explicit assignments a completed whole-job session also counts.
func (j *Job) IsComplete(completed []WorkSession) bool {
	done := map[string]bool{}
	wholeJobDone := false
	for _, s := range completed {
		if s.JobID != j.ID || s.Status != SessionCompleted {
			continue
		}
		if s.IsWholeJob() {
			wholeJobDone = true
			continue
		}
		done[s.ItemID] = true
	}

	if len(j.Assignments) == 0 && wholeJobDone {
		return true
	}
	required := j.RequiredItemIDs()
	if len(required) == 0 {
		return false
	}
	for _, id := range required {
		if !done[id] {
			return false
		}
	}
	return true
}

// ApplyAreaSummary overwrites every derived field from a fresh aggregation.
// Existing item IDs are kept by source position so assignments and sessions
// stay attached; newID is called for positions seen for the first time.
func (j *Job) ApplyAreaSummary(summary AreaSummary, newID func() string) {
	existing := make(map[int]string, len(j.Items))
	for _, item := range j.Items {
		existing[item.SourceIndex] = item.ID
	}

	items := make([]LineItem, len(summary.Items))
	for i, item := range summary.Items {
		if id, ok := existing[item.SourceIndex]; ok {
			item.ID = id
		} else {
			item.ID = newID()
		}
		items[i] = item
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].SourceIndex < items[b].SourceIndex })

	j.Items = items
	j.AreaM2 = summary.AreaM2
	j.TotalItems = summary.TotalItems
	j.TotalQuantity = summary.TotalQuantity

	for itemID := range j.assignedItemSet() {
		j.splitItemArea(itemID)
	}
}

func (j *Job) assignedItemSet() map[string]bool {
	set := map[string]bool{}
	for _, a := range j.Assignments {
		set[a.ItemID] = true
	}
	return set
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyScenario(v *ScenarioCategory) *ScenarioCategory {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
