// Package output provides terminal output utilities for hyper-jump.
//
// This package includes:
//   - Table rendering for installed versions, remote releases, and history
//   - Byte-count progress bars for downloads
//   - Spinners for indeterminate operations
//
// Color output goes through fatih/color, which already honors NO_COLOR and
// non-TTY stdout; Plain() force-disables it for scripted use.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/falcucci/hyper-jump/internal/history"
	"github.com/falcucci/hyper-jump/internal/store"
)

var (
	activeColor     = color.New(color.FgGreen)
	installedColor  = color.New(color.FgYellow)
	prereleaseColor = color.New(color.FgHiBlack)
)

// Plain disables all color output, regardless of terminal detection.
func Plain() {
	color.NoColor = true
}

// RemoteVersion is one row of a list-remote listing.
type RemoteVersion struct {
	Tag        string
	Published  time.Time
	Prerelease bool
	Installed  bool
	Active     bool
}

// RenderInstalledTable renders the local inventory of one package.
func RenderInstalledTable(versions []store.InstalledVersion) string {
	if len(versions) == 0 {
		return "No versions installed.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-24s %-13s %s\n", "Version", "Installed", "Status"))
	sb.WriteString(strings.Repeat("─", 50))
	sb.WriteString("\n")

	for _, v := range versions {
		status := ""
		if v.Active {
			status = activeColor.Sprint("active")
		}
		sb.WriteString(fmt.Sprintf("%-24s %-13s %s\n",
			truncate(v.Version, 24),
			formatRelativeTime(v.InstalledAt),
			status))
	}
	return sb.String()
}

// RenderRemoteList renders available releases with their local status.
// Active versions show green, installed-but-inactive yellow, prereleases dim.
func RenderRemoteList(versions []RemoteVersion) string {
	if len(versions) == 0 {
		return "No releases found.\n"
	}

	var sb strings.Builder
	for _, v := range versions {
		tag := v.Tag
		var notes []string
		switch {
		case v.Active:
			tag = activeColor.Sprint(tag)
			notes = append(notes, "active")
		case v.Installed:
			tag = installedColor.Sprint(tag)
			notes = append(notes, "installed")
		case v.Prerelease:
			tag = prereleaseColor.Sprint(tag)
		}
		if v.Prerelease {
			notes = append(notes, "prerelease")
		}

		sb.WriteString(tag)
		if len(notes) > 0 {
			sb.WriteString("  (" + strings.Join(notes, ", ") + ")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderHistoryTable renders journal events, newest first.
func RenderHistoryTable(events []history.Event) string {
	if len(events) == 0 {
		return "No history recorded.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-13s %-16s %-24s %s\n", "When", "Package", "Version", "Action"))
	sb.WriteString(strings.Repeat("─", 68))
	sb.WriteString("\n")

	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("%-13s %-16s %-24s %s\n",
			formatRelativeTime(ev.Timestamp),
			truncate(ev.Package, 16),
			truncate(ev.Version, 24),
			ev.Action))
	}
	return sb.String()
}

// formatSize formats a byte count as a human-readable size.
func formatSize(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatRelativeTime formats a timestamp as a rough "N units ago" string.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
