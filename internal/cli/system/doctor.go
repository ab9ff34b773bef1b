package system

import (
	"fmt"
	"os"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/hearth-planner/hearth/internal/cli"
	"github.com/hearth-planner/hearth/internal/constants"
	"github.com/hearth-planner/hearth/internal/keyring"
	"github.com/hearth-planner/hearth/internal/storage"
	"github.com/hearth-planner/hearth/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: Schema version
	if dbReachable {
		if version, err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK (version %d)\n", version)
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Projection uniqueness (one active projection per activity)
	if dbReachable {
		if err := checkProjectionUniqueness(ctx); err != nil {
			fmt.Printf("❌ Projection uniqueness: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Projection uniqueness: OK\n")
		}
	} else {
		fmt.Printf("⊘ Projection uniqueness: SKIPPED (database not reachable)\n")
	}

	// Check 4: Orphaned schedules
	if dbReachable {
		if err := checkOrphanedSchedules(ctx); err != nil {
			fmt.Printf("❌ Schedule integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schedule integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schedule integrity: SKIPPED (database not reachable)\n")
	}

	// Check 5: Check-in date formats
	if dbReachable {
		if err := checkCheckinDates(ctx); err != nil {
			fmt.Printf("❌ Check-in dates: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Check-in dates: OK\n")
		}
	} else {
		fmt.Printf("⊘ Check-in dates: SKIPPED (database not reachable)\n")
	}

	// Check 6: Activity and schedule validation
	if dbReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("⚠ Data validation: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	// Check 7: Clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 8: Concurrent instances (warning only)
	if err := checkConcurrentInstances(); err != nil {
		fmt.Printf("⚠ Concurrent instances: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent instances: OK\n")
	}

	// Check 9: Keyring availability (warning only)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   keyring unavailable; Postgres credentials must come from the environment or .pgpass\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	db := migrator.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) (int, error) {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return 0, nil
	}
	db := migrator.GetDB()
	if db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version < 1 {
		return 0, fmt.Errorf("schema version %d is invalid", version)
	}
	return version, nil
}

// checkProjectionUniqueness scans for activities that ended up with more than
// one active projection, which the reconciler's lookup-before-insert should
// make impossible.
func checkProjectionUniqueness(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	db := migrator.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var duplicates int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM (
			SELECT activity_id, owner_id, COUNT(*) AS cnt
			FROM projections
			WHERE state = 'active' AND activity_id <> ''
			GROUP BY activity_id, owner_id
			HAVING COUNT(*) > 1
		) AS dup
	`).Scan(&duplicates)
	if err != nil {
		return fmt.Errorf("failed to check active projections: %w", err)
	}
	if duplicates > 0 {
		return fmt.Errorf("found %d activities with multiple active projections", duplicates)
	}

	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM (
			SELECT source_entity_id, owner_id, COUNT(*) AS cnt
			FROM projections
			WHERE source_entity_id <> ''
			GROUP BY source_entity_id, owner_id
			HAVING COUNT(*) > 1
		) AS dup
	`).Scan(&duplicates)
	if err != nil {
		return fmt.Errorf("failed to check source projections: %w", err)
	}
	if duplicates > 0 {
		return fmt.Errorf("found %d source entities with multiple projections", duplicates)
	}
	return nil
}

func checkOrphanedSchedules(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	db := migrator.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var orphaned int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM schedules s
		LEFT JOIN activities a ON s.activity_id = a.id
		WHERE a.id IS NULL
	`).Scan(&orphaned)
	if err != nil {
		return fmt.Errorf("failed to check orphaned schedules: %w", err)
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d schedules referencing missing activities", orphaned)
	}
	return nil
}

func checkCheckinDates(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	db := migrator.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	rows, err := db.Query(`SELECT DISTINCT local_date FROM checkins`)
	if err != nil {
		return fmt.Errorf("failed to read check-in dates: %w", err)
	}
	defer rows.Close()

	invalid := 0
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return err
		}
		if _, err := time.Parse(constants.DateFormat, date); err != nil {
			invalid++
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if invalid > 0 {
		return fmt.Errorf("found %d check-in rows with invalid local dates", invalid)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	activities, err := ctx.Store.GetActivitiesByOwner(ctx.Owner, storage.ActivityFilter{})
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}

	validator := validation.New()
	result := validator.ValidateActivities(activities)

	for _, activity := range activities {
		schedules, err := ctx.Store.GetSchedulesForActivity(activity.ID)
		if err != nil {
			return fmt.Errorf("failed to get schedules for %s: %w", activity.ID, err)
		}
		for _, schedule := range schedules {
			scheduleResult := validator.ValidateSchedule(schedule)
			result.Issues = append(result.Issues, scheduleResult.Issues...)
		}
	}

	if result.HasIssues() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation("UTC"); err != nil {
		return fmt.Errorf("timezone database unavailable: %w", err)
	}
	return nil
}

// checkConcurrentInstances warns when another hearth process is running, which
// risks sqlite lock contention.
func checkConcurrentInstances() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	others := 0
	for _, proc := range processes {
		if proc.Pid() == self {
			continue
		}
		if proc.Executable() == constants.AppName {
			others++
		}
	}
	if others > 0 {
		return fmt.Errorf("found %d other running %s process(es)", others, constants.AppName)
	}
	return nil
}
