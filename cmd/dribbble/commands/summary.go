package commands

import (
	"fmt"
	"io"
	"time"

	"dribbble-scraper/internal/scrapers/dribbble"

	"github.com/jedib0t/go-pretty/v6/table"
)

func orDash(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func renderSummary(out io.Writer, profile dribbble.Profile, path string, elapsed time.Duration) {
	members := 0
	if profile.Members != nil {
		members = len(profile.Members.Members)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(profile.ProfileUrl)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"User exists", orDash(profile.UserExists)},
		{"Shots", fmt.Sprintf("%d (%d listed)", profile.ShotsCount, len(profile.Shots.Shots))},
		{"Projects", fmt.Sprintf("%d (%d listed)", profile.ProjectsCount, len(profile.Projects))},
		{"Collections", fmt.Sprintf("%d (%d listed)", profile.CollectionsCount, len(profile.Collections))},
		{"Liked shots", profile.LikedShots},
		{"Followers", profile.Followers},
		{"Following", profile.Following},
		{"Location", orDash(profile.Location)},
		{"Pro", profile.IsPro},
		{"Join date", orDash(profile.JoinDate)},
		{"Members", fmt.Sprintf("%d (%d listed)", profile.MembersCount, members)},
		{"Goods for sale", len(profile.GoodsForSale)},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Output", path})
	t.AppendRow(table.Row{"Elapsed", elapsed.Round(time.Millisecond).String()})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
