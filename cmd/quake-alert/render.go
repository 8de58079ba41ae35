package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

const maxListed = 10

func renderReport(w io.Writer, r *models.EarthquakeReport) {
	var b strings.Builder

	subject := r.Subject
	if subject == "" {
		subject = fmt.Sprintf("%.4f, %.4f", r.Origin.Lat, r.Origin.Lon)
	}
	b.WriteString(titleStyle.Render("Earthquakes near "+subject) + "\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Risk:"), riskStyle(r.Risk).Render(strings.ToUpper(string(r.Risk))))
	fmt.Fprintf(&b, "%s %d in the last 30 days\n", labelStyle.Render("Events:"), len(r.Quakes))

	for i, q := range r.Quakes {
		if i == maxListed {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more", len(r.Quakes)-maxListed)) + "\n")
			break
		}
		fmt.Fprintf(&b, "  M%.1f  %6.1f km  %s  %s\n",
			q.Magnitude, q.DistanceKM, q.OccurredAt.Format("2006-01-02 15:04"), mutedStyle.Render(q.Place))
	}

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func renderBatch(w io.Writer, batch models.AlertBatch) {
	if len(batch.Alerts) == 0 {
		fmt.Fprintln(w, okStyle.Render("No alerts."))
		return
	}
	for _, a := range batch.Alerts {
		tag := alertStyle(a.Severity).Render("[" + strings.ToUpper(string(a.Severity)) + "]")
		fmt.Fprintf(w, "%s %s\n", tag, a.Message)
	}
}
