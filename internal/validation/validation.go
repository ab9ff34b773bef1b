package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hearth-planner/hearth/internal/models"
)

// IssueType represents the type of validation issue
type IssueType string

const (
	IssueInvalidActivityType   IssueType = "invalid_activity_type"
	IssueInvalidActivityStatus IssueType = "invalid_activity_status"
	IssueEmptyTitle            IssueType = "empty_title"
	IssueDuplicateTitle        IssueType = "duplicate_title"
	IssueInvalidScheduleType   IssueType = "invalid_schedule_type"
	IssueDeadlineWithEnd       IssueType = "deadline_with_end"
	IssueEndBeforeStart        IssueType = "end_before_start"
	IssueInvalidRecurrence     IssueType = "invalid_recurrence_rule"
	IssueInvalidTimezone       IssueType = "invalid_timezone"
	IssueRecurringWithoutStart IssueType = "recurring_without_start"
)

// Issue represents a detected problem in an activity or schedule
type Issue struct {
	Type        IssueType
	Description string
	Items       []string // Activity/schedule IDs or titles involved
}

// Result contains all detected issues
type Result struct {
	Issues []Issue
}

// HasIssues returns true if there are any issues
func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}

	report := "Issues detected:\n"
	for _, issue := range r.Issues {
		report += fmt.Sprintf("- %s\n", issue.Description)
	}
	return report
}

// Validator validates activities and schedules
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateActivities checks a set of activities for problems: unknown enum
// values, empty titles, and duplicate titles within the set.
func (v *Validator) ValidateActivities(activities []models.Activity) Result {
	result := Result{Issues: []Issue{}}

	titleCount := make(map[string][]string)
	for _, a := range activities {
		if a.Status == models.StatusArchived {
			continue
		}
		if strings.TrimSpace(a.Title) == "" {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueEmptyTitle,
				Description: fmt.Sprintf("Activity %s has an empty title", a.ID),
				Items:       []string{a.ID},
			})
			continue
		}
		titleCount[a.Title] = append(titleCount[a.Title], a.ID)
	}

	for title, ids := range titleCount {
		if len(ids) > 1 {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueDuplicateTitle,
				Description: fmt.Sprintf("Duplicate activity title: %q (IDs: %v)", title, ids),
				Items:       ids,
			})
		}
	}

	for _, a := range activities {
		if !validActivityType(a.Type) {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidActivityType,
				Description: fmt.Sprintf("Activity %q has unknown type: %s", a.Title, a.Type),
				Items:       []string{a.ID},
			})
		}
		switch a.Status {
		case models.StatusActive, models.StatusCompleted, models.StatusArchived, models.StatusInactive:
		default:
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidActivityStatus,
				Description: fmt.Sprintf("Activity %q has unknown status: %s", a.Title, a.Status),
				Items:       []string{a.ID},
			})
		}
	}

	return result
}

// ValidateSchedule checks a single schedule's shape: type, time ordering,
// the deadline-has-no-end rule, timezone resolvability, and recurrence rule
// text.
func (v *Validator) ValidateSchedule(s models.ActivitySchedule) Result {
	result := Result{Issues: []Issue{}}

	switch s.ScheduleType {
	case models.ScheduleSingle, models.ScheduleTimeBlock, models.ScheduleDeadline, models.ScheduleRecurring:
	default:
		result.Issues = append(result.Issues, Issue{
			Type:        IssueInvalidScheduleType,
			Description: fmt.Sprintf("Schedule %s has unknown type: %s", s.ID, s.ScheduleType),
			Items:       []string{s.ID},
		})
		return result
	}

	// A deadline is a point in time; an end would make it a block.
	if s.ScheduleType == models.ScheduleDeadline && s.EndAt != nil {
		result.Issues = append(result.Issues, Issue{
			Type:        IssueDeadlineWithEnd,
			Description: fmt.Sprintf("Deadline schedule %s must not have an end time", s.ID),
			Items:       []string{s.ID},
		})
	}

	if s.StartAt != nil && s.EndAt != nil && s.EndAt.Before(*s.StartAt) {
		result.Issues = append(result.Issues, Issue{
			Type: IssueEndBeforeStart,
			Description: fmt.Sprintf("Schedule %s has end time (%s) before start time (%s)",
				s.ID, s.EndAt.Format(time.RFC3339), s.StartAt.Format(time.RFC3339)),
			Items: []string{s.ID},
		})
	}

	if s.ScheduleType == models.ScheduleRecurring {
		if s.StartAt == nil {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueRecurringWithoutStart,
				Description: fmt.Sprintf("Recurring schedule %s has no start and will never produce instances", s.ID),
				Items:       []string{s.ID},
			})
		}
		if s.RecurrenceRule != "" {
			for _, issue := range checkRecurrenceRule(s.ID, s.RecurrenceRule) {
				result.Issues = append(result.Issues, issue)
			}
		}
	}

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidTimezone,
				Description: fmt.Sprintf("Schedule %s has unresolvable timezone %q; local dates will fall back to UTC", s.ID, s.Timezone),
				Items:       []string{s.ID},
			})
		}
	}

	return result
}

func validActivityType(t models.ActivityType) bool {
	switch t {
	case models.ActivityHabit, models.ActivityGoal, models.ActivityTask,
		models.ActivityMeeting, models.ActivityMeal, models.ActivityReminder,
		models.ActivityTimeBlock, models.ActivityAppointment, models.ActivityMilestone,
		models.ActivityTravelSegment, models.ActivityEvent:
		return true
	}
	return false
}

// checkRecurrenceRule flags rule text the expander would silently coerce:
// non-numeric or non-positive INTERVAL/COUNT and malformed parts. Unknown
// FREQ values are not flagged since falling back to DAILY is intended.
func checkRecurrenceRule(scheduleID, rule string) []Issue {
	var issues []Issue
	for _, part := range strings.Split(rule, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			issues = append(issues, Issue{
				Type:        IssueInvalidRecurrence,
				Description: fmt.Sprintf("Schedule %s has malformed recurrence part: %q", scheduleID, part),
				Items:       []string{scheduleID},
			})
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])
		switch key {
		case "INTERVAL", "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				issues = append(issues, Issue{
					Type:        IssueInvalidRecurrence,
					Description: fmt.Sprintf("Schedule %s has invalid %s value: %q", scheduleID, key, val),
					Items:       []string{scheduleID},
				})
			}
		}
	}
	return issues
}
