package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/readyverse/rvshowroom/internal/showroom"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Faint(true).Width(14)
)

// renderList draws showrooms as a bordered table.
func renderList(list []showroom.Summary) string {
	if len(list) == 0 {
		return "No showrooms found."
	}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.DisplayName(),
			s.CompanyName,
			s.Genre,
			s.PublishingTrack,
			s.ShowroomTier,
			swatch(s.ShowroomLightingColorLinear) + " " + s.ShowroomLightingColorLinear.Hex(),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "COMPANY", "GENRE", "TRACK", "TIER", "LIGHT").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// renderDetails draws one showroom as labelled lines.
func renderDetails(d showroom.Details) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.DisplayName()))
	if d.IsFeatured {
		b.WriteString("  ★ featured")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("id", d.ID)
	field("slug", d.Slug)
	field("company", d.CompanyName)
	field("genre", d.Genre)
	field("track", d.PublishingTrack)
	field("status", d.BuildStatus)
	field("tier", d.ShowroomTier)
	field("lighting", swatch(d.ShowroomLightingColorLinear)+" "+d.ShowroomLightingColorLinear.Hex())
	field("summary", d.ShortDescription)
	field("platforms", strings.Join(d.TargetPlatforms, ", "))
	field("rating", strings.TrimSpace(d.AgeRating+" "+d.RatingBoard))
	if d.ViewCount > 0 || d.LikeCount > 0 {
		field("engagement", fmt.Sprintf("%d views, %d likes", d.ViewCount, d.LikeCount))
	}
	field("trailer", d.TrailerURL)
	field("game", d.GameURL)
	field("launcher", d.LauncherURL)
	field("cover", d.CoverArtURL)
	field("logo", d.GameLogoURL)
	field("support", d.SupportEmail)
	for i, shot := range d.ScreenshotURLs {
		field(fmt.Sprintf("screenshot %d", i+1), shot)
	}
	field("published", formatTime(d.PublishedAt))
	field("created", formatTime(d.CreatedAt))
	field("updated", formatTime(d.UpdatedAt))
	if desc := strings.TrimSpace(d.FullDescription); desc != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(78).Render(desc))
		b.WriteString("\n")
	}
	return b.String()
}

func swatch(c showroom.LinearColor) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}
