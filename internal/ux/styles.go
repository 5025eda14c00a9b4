// Package ux renders API results for the terminal. Colors mirror the
// status palette of the upstream dashboards so a complaint reads the same
// here as it does on the web.
package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/civicdesk/civicdesk/internal/api"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Width(12)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	statusColors = map[api.ComplaintStatus]lipgloss.Color{
		api.StatusPending:    lipgloss.Color("#f59e0b"),
		api.StatusInProgress: lipgloss.Color("#3b82f6"),
		api.StatusResolved:   lipgloss.Color("#10b981"),
		api.StatusRejected:   lipgloss.Color("#ef4444"),
	}
)

// StatusBadge renders a colored status label
func StatusBadge(status api.ComplaintStatus) string {
	color, ok := statusColors[status]
	if !ok {
		return status.Label()
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(status.Label())
}

// Success renders a success acknowledgment line
func Success(msg string) string {
	return okStyle.Render("✓ ") + msg
}

// Failure renders a single human-readable error line
func Failure(msg string) string {
	return errStyle.Render("✗ ") + msg
}

// ComplaintList renders complaints as a compact table
func ComplaintList(complaints []api.Complaint) string {
	if len(complaints) == 0 {
		return mutedStyle.Render("No complaints found.")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-22s %-12s %s", "ID", "TYPE", "STATUS", "TITLE")))
	b.WriteString("\n")

	for _, c := range complaints {
		b.WriteString(fmt.Sprintf("%-6d %-22s %-12s %s\n",
			c.ID,
			c.ComplaintType.Label(),
			StatusBadge(c.Status),
			c.Title,
		))
	}

	return b.String()
}

// ComplaintDetail renders a single complaint with all fields
func ComplaintDetail(c *api.Complaint) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", c.ID, c.Title)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Status", StatusBadge(c.Status))
	row("Type", c.ComplaintType.Label())
	if !c.CreatedAt.IsZero() {
		row("Created", c.CreatedAt.Local().Format(time.RFC1123))
	}
	if c.LocationText != "" {
		row("Location", c.LocationText)
	}
	if c.Latitude != 0 || c.Longitude != 0 {
		row("Coordinates", fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude))
	}

	b.WriteString("\n")
	b.WriteString(c.Description)
	b.WriteString("\n")

	if len(c.Attachments) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Attachments:"))
		b.WriteString("\n")
		for _, a := range c.Attachments {
			name := a.FileName
			if name == "" {
				name = "image"
			}
			b.WriteString(fmt.Sprintf("  [%d] %s\n", a.ID, name))
		}
	}

	return b.String()
}

// Profile renders the authenticated user and where their role routes
func Profile(p api.UserProfile) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.FullName))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s%s\n", labelStyle.Render("Email"), p.Email))
	b.WriteString(fmt.Sprintf("%s%s\n", labelStyle.Render("Role"), p.Role))
	b.WriteString(fmt.Sprintf("%s%s\n", labelStyle.Render("Dashboard"), DashboardFor(p.Role)))

	return b.String()
}

// DashboardFor names the surface a role routes to after login
func DashboardFor(role string) string {
	switch role {
	case api.WireRoleAdmin:
		return "admin dashboard"
	case api.WireRoleSuperAdmin:
		return "super-admin dashboard"
	default:
		return "citizen home"
	}
}
