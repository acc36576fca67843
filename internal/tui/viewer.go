package tui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

func termSizeOpts() []tea.ProgramOption {
	var opts []tea.ProgramOption
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if term.IsTerminal(fd) {
			w, h, err := term.GetSize(fd)
			if err == nil && w > 0 && h > 0 {
				opts = append(opts, tea.WithWindowSize(w, h))
				break
			}
		}
	}
	return opts
}

// RunTimeline runs the timeline TUI until the user quits or ctx is
// cancelled.
func RunTimeline(ctx context.Context, cfg TimelineConfig) error {
	model := NewTimelineModel(cfg)
	defer model.Close()

	opts := append(termSizeOpts(), tea.WithContext(ctx))
	p := tea.NewProgram(model, opts...)
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
