package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"yaspg/sidplayfp/player"
	"yaspg/sidplayfp/sidtune"
)

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	panel  lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		label:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)).Width(14),
		value:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(15)),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.ANSIColor(4)).Padding(0, 1),
		status: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(2)),
		err:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

func (st styles) row(label string, value any) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, st.label.Render(label), st.value.Render(fmt.Sprint(value)))
}

// infoPanel describes the tune and the engine playing it
func (st styles) infoPanel(tune sidtune.Info, engine player.Info, length int64) string {
	var rows []string

	titles := []string{"Title", "Author", "Released"}
	for i, s := range tune.InfoStrings {
		if i < len(titles) {
			rows = append(rows, st.row(titles[i], s))
		}
	}
	for _, s := range tune.CommentStrings {
		rows = append(rows, st.row("Comment", s))
	}

	rows = append(rows,
		st.row("File", tune.Path+tune.DataFileName),
		st.row("Format", tune.FormatString),
		st.row("Song", fmt.Sprintf("%d of %d (start %d)", tune.CurrentSong, tune.Songs, tune.StartSong)),
		st.row("Addresses", fmt.Sprintf("load $%04x init $%04x play $%04x", tune.LoadAddr, tune.InitAddr, tune.PlayAddr)),
		st.row("Speed", tune.SongSpeed),
		st.row("Clock", tune.Clock),
	)

	if length > 0 {
		rows = append(rows, st.row("Length", fmt.Sprintf("%d:%02d", length/60000, length/1000%60)))
	}

	var models []string
	for i, m := range engine.SidModels {
		models = append(models, fmt.Sprintf("%s at $%04x", m, engine.SidBases[i]))
	}

	rows = append(rows,
		"",
		st.row("Engine", engine.Name+" "+engine.Version),
		st.row("C64", engine.C64Model),
		st.row("SID", strings.Join(models, ", ")),
		st.row("KERNAL", engine.KernalDesc),
	)

	if engine.DriverAddr != 0 {
		rows = append(rows, st.row("Driver", fmt.Sprintf("$%04x-$%04x", engine.DriverAddr, int(engine.DriverAddr)+int(engine.DriverLength)-1)))
	}

	return st.panel.Render(st.title.Render("sidplayfp") + "\n" + strings.Join(rows, "\n"))
}
