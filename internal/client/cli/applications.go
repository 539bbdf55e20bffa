package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
)

func (a *App) ListApplications(ctx context.Context, args []string) {
	var status *models.ApplicationStatus
	if len(args) > 0 {
		s := models.ApplicationStatus(strings.ToUpper(args[0]))
		if !s.Valid() {
			printf(a.out, "Unknown status %q (use sent/interview/rejected/accepted)\n", args[0])
			return
		}
		status = &s
	}

	apps, err := a.appService.List(ctx, status)
	if err != nil {
		printf(a.out, "List failed: %v\n", err)
		return
	}
	if len(apps) == 0 {
		printf(a.out, "No applications.\n")
		return
	}
	for _, app := range apps {
		printf(a.out, "%4d  %-20s %-25s %-10s %s\n",
			app.ID, app.Company, app.Position, models.StatusLabels[app.CurrentStatus], app.ApplicationDate)
	}
}

func (a *App) AddApplication(ctx context.Context) {
	company, err := GetSimpleText(a.reader, "Company:", a.out)
	if err != nil {
		return
	}
	position, err := GetSimpleText(a.reader, "Position:", a.out)
	if err != nil {
		return
	}
	date, err := GetSimpleText(a.reader, "Application date (YYYY-MM-DD):", a.out)
	if err != nil {
		return
	}
	notes, err := GetSimpleText(a.reader, "Notes (optional):", a.out)
	if err != nil {
		return
	}

	created, err := a.appService.Create(ctx, models.Application{
		Company:         company,
		Position:        position,
		ApplicationDate: date,
		CurrentStatus:   models.StatusSent,
		Notes:           notes,
	})
	if err != nil {
		printf(a.out, "Create failed: %v\n", err)
		return
	}
	printf(a.out, "Created application #%d\n", created.ID)
}

func (a *App) RemoveApplication(ctx context.Context, args []string) {
	if len(args) != 1 {
		printf(a.out, "Usage: rm <id>\n")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printf(a.out, "Invalid id %q\n", args[0])
		return
	}
	if err := a.appService.Delete(ctx, id); err != nil {
		printf(a.out, "Delete failed: %v\n", err)
		return
	}
	printf(a.out, "Deleted application #%d\n", id)
}
