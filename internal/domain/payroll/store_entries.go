package payroll

import (
	"context"
	"time"
)

// FindClosedEntries loads Closed entries whose clock-in falls in [start, end).
// Callers pass end as the day after the period end so the whole end date is
// included.
func (s *Store) FindClosedEntries(ctx context.Context, start, end time.Time, employeeIDs []int64) ([]TimeEntry, error) {
	query := `
    SELECT t.id, t.user_id, COALESCE(u.username, ''), t.clock_in_time, t.clock_out_time, t.status
    FROM time_entries t
    JOIN users u ON t.user_id = u.id
    WHERE t.status = $1 AND t.clock_in_time >= $2 AND t.clock_in_time < $3
  `
	args := []any{StatusClosed, start, end}
	if len(employeeIDs) > 0 {
		query += " AND t.user_id = ANY($4)"
		args = append(args, employeeIDs)
	}
	query += " ORDER BY t.clock_in_time ASC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var entry TimeEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Username,
			&entry.ClockInTime, &entry.ClockOutTime, &entry.Status); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) RolesOf(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.name
    FROM user_roles ur
    JOIN roles r ON ur.role_id = r.id
    WHERE ur.user_id = $1
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
