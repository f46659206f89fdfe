// Package render turns a stats bundle into the text and HTML surfaces
// published by the tracker: the CLI stats block, the notification email
// and the static website.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gr8tracker/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/gr8.svg
var faviconSVG []byte

var (
	emailTmpl       = template.Must(template.ParseFS(templateFS, "templates/email.html.tmpl"))
	websiteTmpl     = template.Must(template.ParseFS(templateFS, "templates/website.html.tmpl"))
	celebrationTmpl = template.Must(template.ParseFS(templateFS, "templates/celebration.html.tmpl"))
)

// FaviconSVG returns the site favicon published under assets/gr8.svg.
func FaviconSVG() []byte { return faviconSVG }

// StatsText formats the stats block printed by the CLI.
func StatsText(b models.StatsBundle) string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "Ovechkin Goal Tracker - NHL Record Watch")
	fmt.Fprintf(&sb, "Total Goals: %d\n", b.Nested.Player.Goals)
	fmt.Fprintf(&sb, "Goals This Season: %d\n", b.Nested.Season.GoalsThisSeason)
	fmt.Fprintf(&sb, "Goals to Beat Gretzky: %d\n", b.Nested.Player.GoalsNeeded)
	fmt.Fprintf(&sb, "Projected Record Date: %s\n", b.Nested.Record.ProjectedDate)
	fmt.Fprintf(&sb, "Record game info: %s\n", gameInfo(b))
	fmt.Fprintf(&sb, "Last Updated: %s\n", b.Nested.Meta.LastUpdated)
	return sb.String()
}

// EmailSubject builds the notification subject line.
func EmailSubject(b models.StatsBundle) string {
	return fmt.Sprintf("Ovechkin Goal Tracker: %d goals, %d to break the record",
		b.Nested.Player.Goals, b.Nested.Player.GoalsNeeded)
}

// EmailText builds the plain text body of the notification email.
func EmailText(b models.StatsBundle) string {
	return fmt.Sprintf(`Ovechkin Goal Tracker - NHL Record Watch
===================================

Current Status:
- Total Goals: %d
- Goals Needed to Break Gretzky's Record: %d
- Projected Record-Breaking Date: %s
- Projected Record-Breaking Game: %s

This email was automatically generated by the Ovechkin Goal Tracker.
`, b.Nested.Player.Goals, b.Nested.Player.GoalsNeeded, b.Nested.Record.ProjectedDate, gameInfo(b))
}

type emailData struct {
	TotalGoals    int
	GoalsNeeded   int
	ProjectedDate string
	ProjectedGame string
	ProgressPct   float64
}

// EmailHTML builds the HTML body of the notification email. All styles
// are inlined for mail client compatibility.
func EmailHTML(b models.StatsBundle) (string, error) {
	data := emailData{
		TotalGoals:    b.Nested.Player.Goals,
		GoalsNeeded:   b.Nested.Player.GoalsNeeded,
		ProjectedDate: b.Nested.Record.ProjectedDate,
		ProjectedGame: gameInfo(b),
		ProgressPct:   b.Nested.Progress.Percentage,
	}
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

type websiteData struct {
	TotalGoals  int
	GoalsNeeded int
	ProgressPct float64
	Projection  string
	UpdatedAt   string
}

// WebsiteHTML builds the index.html page. Once the record is broken the
// page switches to the celebration layout.
func WebsiteHTML(b models.StatsBundle, now time.Time) (string, error) {
	data := websiteData{
		TotalGoals:  b.Nested.Player.Goals,
		GoalsNeeded: b.Nested.Player.GoalsNeeded,
		ProgressPct: b.Nested.Progress.Percentage,
		Projection:  ProjectionBanner(b),
		UpdatedAt:   now.Format("2006-01-02 03:04:05 PM ET"),
	}

	tmpl := websiteTmpl
	if b.Nested.Record.RecordBroken {
		tmpl = celebrationTmpl
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render website template: %w", err)
	}
	return buf.String(), nil
}

// ProjectionBanner formats the headline projection shown on the website,
// e.g. "Projected Record-Breaking Game: Saturday, April 12, 2025,
// 12:30 PM ET vs Columbus Blue Jackets (Away)".
func ProjectionBanner(b models.StatsBundle) string {
	var sb strings.Builder
	sb.WriteString("Projected Record-Breaking Game: ")

	game := b.Nested.Record.ProjectedGame
	if game.RawDate != "" {
		if d, err := time.Parse("2006-01-02", game.RawDate); err == nil {
			sb.WriteString(d.Format("Monday, January 2, 2006"))
		} else {
			sb.WriteString(game.Date)
		}
		if game.Time != "" {
			sb.WriteString(", " + game.Time)
		}
		if game.Opponent != "" {
			sb.WriteString(" vs " + game.Opponent)
			if game.Location != "" {
				sb.WriteString(" (" + game.Location + ")")
			}
		}
		return sb.String()
	}

	if date := b.Nested.Record.ProjectedDate; date != "" && date != models.NoProjectedDate {
		if d, err := time.Parse("01/02/2006", date); err == nil {
			sb.WriteString(d.Format("Monday, January 2, 2006"))
		} else {
			sb.WriteString(date)
		}
	}
	return sb.String()
}

func gameInfo(b models.StatsBundle) string {
	if s := b.Nested.Record.ProjectedGame.FullString; s != "" {
		return s
	}
	return models.NoGameInfo
}
