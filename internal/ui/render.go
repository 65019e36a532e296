package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/readyverse/rvshowroom/internal/logging"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	parts := []string{
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderContent(),
	}
	if m.showLog {
		parts = append(parts, m.renderLogPane())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n")
}

// contentHeight is the number of lines left for the list or detail view.
func (m Model) contentHeight() int {
	h := m.height - 3 // header, command bar, footer
	if m.showLog {
		h -= LogPaneHeight + 1
	}
	return max(h, 1)
}

func (m *Model) resizeDetail() {
	m.detailViewport.Width = max(m.width, 1)
	m.detailViewport.Height = m.contentHeight()
	m.refreshDetail()
}

func (m *Model) refreshDetail() {
	if !m.snapshot.HasLoaded {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetail(m.snapshot.Loaded))
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	var conn string
	switch {
	case snap.IsOffline():
		conn = bg.Render("Offline", styles.DangerText)
	case !snap.HasList && snap.LastError == nil:
		conn = bg.Render("Connecting", styles.WarningText)
	case snap.LastError != nil:
		conn = bg.Render("Degraded", styles.WarningText)
	default:
		conn = bg.Render("Online", styles.SuccessText)
	}

	base := m.baseURL
	if base == "" {
		base = "no api base url"
	}

	parts := []string{
		bg.Render("rvshowroom", styles.Title),
		conn,
		bg.Render(base, styles.MutedText),
		bg.Render(fmt.Sprintf("%d showrooms", len(snap.Showrooms)), styles.Text),
	}
	if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	if m.dispatcher != nil {
		if n := len(m.dispatcher.Pending()); n > 0 {
			parts = append(parts, bg.Render(fmt.Sprintf("%d link(s) loading", n), styles.InfoText))
		}
	}
	if m.busy() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(parts, "  │  "), m.width)
}

func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	if m.inputMode != inputNone {
		return bg.FillLine(bg.Spaces(1)+m.input.View(), m.width)
	}

	h := m.help
	h.Width = max(m.width-1, 1)
	h.ShortSeparator = bg.Render("  ", styles.FaintText)
	h.Styles.ShortKey = styles.WarningText.Background(bg.Color())
	h.Styles.ShortDesc = styles.MutedText.Background(bg.Color())
	h.Styles.Ellipsis = styles.FaintText.Background(bg.Color())

	bindings := m.keys.ShortHelp()
	if m.currentView == ViewDetail {
		bindings = append([]key.Binding{m.keys.Escape, m.keys.Refresh}, bindings...)
	}
	return bg.FillLine(bg.Spaces(1)+h.ShortHelpView(bindings), m.width)
}

func (m Model) renderContent() string {
	height := m.contentHeight()
	var body string
	if m.currentView == ViewDetail {
		body = m.detailViewport.View()
	} else {
		body = m.renderList(height)
	}
	return lipgloss.NewStyle().
		Width(max(m.width, 1)).
		Height(height).
		MaxHeight(height).
		Render(body)
}

// listColumns returns the visible optional columns for the current width.
func (m Model) listColumns() (company, genre, track bool) {
	return m.width >= LayoutCompactWidth, m.width >= LayoutCompactWidth, m.width >= LayoutTrackWidth
}

// renderList renders the showroom table with the selected row highlighted.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	items := m.visibleShowrooms()

	if len(items) == 0 {
		switch {
		case m.searching:
			return styles.MutedText.Render(" Searching for " + m.searchQuery + "...")
		case m.searchQuery != "":
			return styles.MutedText.Render(" No showrooms match " + m.searchQuery)
		case m.snapshot.LastError != nil && !m.snapshot.HasList:
			return styles.DangerText.Render(" " + m.snapshot.LastError.Error())
		case !m.snapshot.HasList:
			return styles.MutedText.Render(" Loading showrooms...")
		default:
			return styles.MutedText.Render(" No showrooms found")
		}
	}

	showCompany, showGenre, showTrack := m.listColumns()
	const (
		companyW = 22
		genreW   = 14
		trackW   = 14
		tierW    = 10
		statusW  = 12
	)
	nameW := m.width - 6 - tierW - statusW - 4
	if showCompany {
		nameW -= companyW + 1
	}
	if showGenre {
		nameW -= genreW + 1
	}
	if showTrack {
		nameW -= trackW + 1
	}
	nameW = max(nameW, 12)

	cell := func(s string, w int) string {
		return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(truncate(s, w))
	}
	row := func(name, company, genre, track, tier, status string) []string {
		cols := []string{cell(name, nameW)}
		if showCompany {
			cols = append(cols, cell(company, companyW))
		}
		if showGenre {
			cols = append(cols, cell(genre, genreW))
		}
		if showTrack {
			cols = append(cols, cell(track, trackW))
		}
		return append(cols, cell(tier, tierW), cell(status, statusW))
	}

	var b strings.Builder
	header := strings.Join(row("NAME", "COMPANY", "GENRE", "TRACK", "TIER", "STATUS"), " ")
	b.WriteString(styles.MutedText.Bold(true).Render("     " + header))

	visible := max(height-1, 1)
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(start+visible, len(items))

	for i := start; i < end; i++ {
		s := items[i]
		cols := row(s.DisplayName(), s.CompanyName, s.Genre, s.PublishingTrack, "", "")
		line := strings.Join(cols[:len(cols)-2], " ")

		b.WriteString("\n ")
		b.WriteString(Swatch(s.ShowroomLightingColorLinear))
		b.WriteString("  ")
		if i == m.selectedRow {
			tail := cell(s.ShowroomTier, tierW) + " " + cell(s.BuildStatus, statusW)
			b.WriteString(styles.Selected.Render(line + " " + tail))
			continue
		}
		b.WriteString(styles.Text.Render(line))
		b.WriteString(" ")
		b.WriteString(badge(styles, s.ShowroomTier, tierW))
		b.WriteString(" ")
		b.WriteString(badge(styles, s.BuildStatus, statusW))
	}
	return b.String()
}

// badge renders value as a colored chip padded to width.
func badge(styles Styles, value string, width int) string {
	if strings.TrimSpace(value) == "" {
		return strings.Repeat(" ", width)
	}
	chip := styles.StatusStyle(value).Render(truncate(value, width-2))
	return chip + strings.Repeat(" ", max(width-lipgloss.Width(chip), 0))
}

// renderDetail renders every populated field of d.
func (m Model) renderDetail(d showroom.Details) string {
	styles := m.theme.Styles()
	label := styles.MutedText.Width(14)
	width := max(m.width-4, 20)

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(styles.Title.Render(d.DisplayName()))
	if d.IsFeatured {
		b.WriteString("  ")
		b.WriteString(styles.WarningText.Render("★ featured"))
	}
	b.WriteString("\n")

	field := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(" ")
		b.WriteString(label.Render(name))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	c := d.ShowroomLightingColorLinear
	b.WriteString(" ")
	b.WriteString(label.Render("lighting"))
	b.WriteString(Swatch(c))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(fmt.Sprintf("%s  rgba(%.3f, %.3f, %.3f, %.0f)", c.Hex(), c.R, c.G, c.B, c.A)))
	b.WriteString("\n")

	field("id", d.ID)
	field("slug", d.Slug)
	field("company", d.CompanyName)
	field("genre", d.Genre)
	field("track", d.PublishingTrack)
	if d.BuildStatus != "" {
		b.WriteString(" ")
		b.WriteString(label.Render("status"))
		b.WriteString(styles.StatusStyle(d.BuildStatus).Render(d.BuildStatus))
		b.WriteString("\n")
	}
	if d.ShowroomTier != "" {
		b.WriteString(" ")
		b.WriteString(label.Render("tier"))
		b.WriteString(styles.StatusStyle(d.ShowroomTier).Render(d.ShowroomTier))
		b.WriteString("\n")
	}
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
	field("company logo", d.CompanyLogoURL)
	field("support", d.SupportEmail)
	for i, shot := range d.ScreenshotURLs {
		field(fmt.Sprintf("screenshot %d", i+1), shot)
	}
	field("published", formatTime(d.PublishedAt))
	field("created", formatTime(d.CreatedAt))
	field("updated", formatTime(d.UpdatedAt))

	for _, text := range []string{d.ShortDescription, d.FullDescription} {
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(1).Render(styles.Text.Render(text)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderLogPane shows the tail of the log file, colored by level.
func (m Model) renderLogPane() string {
	styles := m.theme.Styles()
	rule := styles.FaintText.Render(strings.Repeat("─", max(m.width, 1)))

	var lines []string
	switch {
	case m.logPath == "":
		lines = []string{styles.MutedText.Render(" logging to stderr")}
	case m.logErr != nil:
		lines = []string{styles.DangerText.Render(" " + m.logErr.Error())}
	case len(m.logLines) == 0:
		lines = []string{styles.MutedText.Render(" no log lines yet")}
	default:
		from := max(len(m.logLines)-LogPaneHeight, 0)
		for _, line := range m.logLines[from:] {
			lines = append(lines, logLineStyle(styles, line).Render(" "+truncate(line, m.width-2)))
		}
	}
	for len(lines) < LogPaneHeight {
		lines = append(lines, "")
	}
	return rule + "\n" + strings.Join(lines, "\n")
}

func logLineStyle(styles Styles, line string) lipgloss.Style {
	switch logging.LineLevel(line) {
	case slog.LevelError:
		return styles.DangerText
	case slog.LevelWarn:
		return styles.WarningText
	case slog.LevelDebug:
		return styles.FaintText
	default:
		return styles.MutedText
	}
}

// renderFooter shows the status message, or the active search and the
// last deep-link load when there is none.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var parts []string
	if m.status != "" {
		style := styles.InfoText
		if m.statusErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(m.status, style))
	} else {
		if m.searchQuery != "" {
			parts = append(parts, bg.Render(fmt.Sprintf("search %q: %d results", m.searchQuery, len(m.searchResults)), styles.AccentText))
		}
		snap := m.snapshot
		switch {
		case snap.LoadErr != nil:
			parts = append(parts, bg.Render("last load failed: "+snap.LoadErr.Error(), styles.DangerText))
		case snap.HasLoaded:
			parts = append(parts, bg.Render(fmt.Sprintf("showing %s (%s %s)",
				snap.Loaded.DisplayName(), snap.LoadSource, snap.LoadedAt.Format("15:04:05")), styles.MutedText))
		}
		if snap.LastError != nil && snap.HasList {
			parts = append(parts, bg.Render("refresh failed: "+snap.LastError.Error(), styles.WarningText))
		}
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(parts, "  │  "), m.width)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
