package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"appliance-alerts-backend/internal/alert"
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

func countdown(ap *model.Appliance, today calendar.Date) (string, string) {
	if !ap.HasAlert() {
		return "-", "-"
	}
	return alert.HumanCountdown(*ap.AlertDate, today), string(alert.SeverityFor(*ap.AlertDate, today))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func dateOrDash(d *calendar.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.String()
}

func renderTable(out io.Writer, apps []*model.Appliance, today calendar.Date) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(out, "No appliances.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tMODEL\tALERT\tSTATE\tCOUNTDOWN\tSEVERITY")
	for _, ap := range apps {
		cd, sev := countdown(ap, today)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ap.ID, ap.Name, orDash(ap.Brand), orDash(ap.Model),
			dateOrDash(ap.AlertDate), alert.StateOf(ap, today), cd, sev)
	}
	return w.Flush()
}

func renderDetail(out io.Writer, ap *model.Appliance, today calendar.Date) error {
	cd, sev := countdown(ap, today)
	actions := make([]string, 0, 4)
	for _, a := range alert.Actions(ap, today) {
		actions = append(actions, string(a))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", fmt.Sprint(ap.ID)},
		{"Name", ap.Name},
		{"Brand", orDash(ap.Brand)},
		{"Model", orDash(ap.Model)},
		{"Category", orDash(ap.Category)},
		{"Serial", orDash(ap.SerialNumber)},
		{"Purchased", dateOrDash(ap.PurchaseDate)},
		{"Alert date", dateOrDash(ap.AlertDate)},
		{"Status", string(ap.Status())},
		{"Snoozed until", dateOrDash(ap.SnoozeUntil)},
		{"Recurring", string(ap.Interval())},
		{"State", string(alert.StateOf(ap, today))},
		{"Countdown", cd},
		{"Severity", sev},
		{"Actions", orDash(strings.Join(actions, ", "))},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s:\t%s\n", r[0], r[1])
	}
	return w.Flush()
}
