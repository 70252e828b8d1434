package commands

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arvessen/ccsessions/internal/launcher"
	"github.com/arvessen/ccsessions/internal/scan"
	"github.com/arvessen/ccsessions/internal/tui"
)

const watcherDebounce = 500 * time.Millisecond

// runBrowse is the default command: scan, pick, resume. The picker
// owns the terminal; the selected session launches only after the
// program has exited and released it.
func runBrowse(cmd *cobra.Command, args []string) error {
	sources, failures, err := syncAndSources(cmd)
	if err != nil {
		return err
	}

	result := scan.Run(scan.Gather(sources))
	model := tui.NewModel(result, sources, failures)

	p := tea.NewProgram(model, tea.WithAltScreen())

	stopWatcher := startWatcher(sources, func() {
		p.Send(tui.RescanMsg{})
	})
	defer stopWatcher()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	choice, ok := m.Resume()
	if !ok {
		return nil
	}

	action := "Resuming"
	if choice.Fork {
		action = "Forking"
	}
	fmt.Printf("%s session %s in %s\n",
		action, choice.Record.ID, choice.Record.ProjectPath)

	return launcher.Exec(choice.Record, choice.Fork, cfg.Command)
}

// startWatcher watches every readable source tree and fires onChange
// on transcript writes. Watcher failures degrade to manual-refresh
// browsing rather than aborting.
func startWatcher(sources []scan.Source, onChange func()) func() {
	watcher, err := scan.NewWatcher(watcherDebounce, onChange)
	if err != nil {
		logrus.WithError(err).Warn("file watcher unavailable")
		return func() {}
	}

	for _, src := range sources {
		if _, err := os.Stat(src.ProjectsDir); err != nil {
			continue
		}
		if _, err := watcher.WatchRecursive(src.ProjectsDir); err != nil {
			logrus.WithError(err).WithField("dir", src.ProjectsDir).
				Debug("watch failed")
		}
	}

	watcher.Start()
	return watcher.Stop
}
