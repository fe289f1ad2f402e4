package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathmind/internal/app"
	"github.com/abhisek/pathmind/internal/screens/nav"
)

// runApp builds dependencies and launches the TUI, optionally opening
// start above the home screen.
func runApp(cmd *cobra.Command, start *nav.GoMsg) error {
	d, err := buildDeps(cmd, depsOptions{quiet: true})
	if err != nil {
		return err
	}
	defer d.close()

	user, err := d.user()
	if err != nil {
		return err
	}

	d.log.Info("starting terminal app", "user", user.String(), "provider", d.cfg.LLM.Provider, "model", d.provider.ModelID())
	return app.Run(app.Options{
		Services: d.services(user),
		Status:   fmt.Sprintf("%s · %s", d.cfg.LLM.Provider, d.provider.ModelID()),
		Start:    start,
	})
}
