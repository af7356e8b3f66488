package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlp2cmd/nlp2cmd/internal/app"
	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

// NewDoctorCommand creates the 'doctor' command.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, schemas, and resolver wiring",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			for _, check := range report.Checks {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %-15s %s\n",
					strings.ToUpper(string(check.Status)), check.Name, check.Details)
			}
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("%d check(s) failing", countFailing(report))
			}
			return nil
		},
	}
}

func countFailing(report domain.HealthReport) int {
	n := 0
	for _, check := range report.Checks {
		if check.Status == domain.HealthError {
			n++
		}
	}
	return n
}
